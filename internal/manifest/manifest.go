// Package manifest reads tool manifests and finds the nearest one that
// binds a given alias.
//
// A manifest is a TOML file with a [tools] table mapping aliases to
// "author/name@version" specs:
//
//	[tools]
//	stylua = "JohnnyMorganz/StyLua@0.20.0"
//
// Scopes are searched from the working directory outward to the
// filesystem root, then the home's global manifest. In each directory
// toolshim.toml is consulted before aftman.toml.
package manifest

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/toolshim/internal/tool"
)

const FileName = "toolshim.toml"

// legacyFileNames are read after FileName in the same directory.
var legacyFileNames = []string{"aftman.toml"}

var (
	ErrManifestParse = errors.New("manifest: parse failed")
	ErrToolNotFound  = errors.New("manifest: tool not found")
)

// Manifest is one decoded manifest file.
type Manifest struct {
	Path  string
	Tools map[string]tool.Spec
}

type fileFormat struct {
	Tools map[string]tool.Spec `toml:"tools"`
}

// Load decodes the manifest at path. Alias keys are validated and
// normalized; unknown top-level keys are rejected.
func Load(path string) (*Manifest, error) {
	var raw fileFormat
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w (%s): %s", ErrManifestParse, path, perr.ErrorWithPosition())
		}
		if isNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w (%s): %w", ErrManifestParse, path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("%w (%s): unknown keys %s", ErrManifestParse, path, strings.Join(keys, ", "))
	}

	m := &Manifest{Path: path, Tools: make(map[string]tool.Spec, len(raw.Tools))}
	for key, spec := range raw.Tools {
		alias, err := tool.ParseAlias(key)
		if err != nil {
			return nil, fmt.Errorf("%w (%s): %w", ErrManifestParse, path, err)
		}
		if _, dup := m.Tools[alias.Name()]; dup {
			return nil, fmt.Errorf("%w (%s): alias %q defined twice", ErrManifestParse, path, alias)
		}
		m.Tools[alias.Name()] = spec
	}
	return m, nil
}

// Lookup returns the spec bound to alias in this manifest.
func (m *Manifest) Lookup(alias tool.Alias) (tool.Spec, bool) {
	spec, ok := m.Tools[alias.Name()]
	return spec, ok
}

// Aliases returns the manifest's aliases in sorted order.
func (m *Manifest) Aliases() []string {
	out := make([]string, 0, len(m.Tools))
	for name := range m.Tools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
