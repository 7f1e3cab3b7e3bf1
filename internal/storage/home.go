// Package storage owns the on-disk toolshim home: the installed tool
// index, the tool storage tree, the global manifest and the bin dir of
// alias links.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/toolshim/internal/identity"
	"github.com/danmuck/toolshim/internal/tool"
)

const (
	EnvRoot = "TOOLSHIM_ROOT"

	defaultDirName   = ".toolshim"
	binDirName       = "bin"
	toolStorageName  = "tool-storage"
	indexFileName    = "installed.toml"
	manifestFileName = "toolshim.toml"
	envFileName      = "env"
)

var (
	ErrHomeNotFound = errors.New("storage: home not found")
	ErrIndexParse   = errors.New("storage: invalid installed index")
)

// Home is one loaded toolshim home directory.
type Home struct {
	root      string
	suffix    string
	installed map[string]tool.Spec
}

type indexFile struct {
	Installed []string `toml:"installed"`
}

// LoadFromEnv loads the home named by TOOLSHIM_ROOT, falling back to
// ~/.toolshim. The directory must already exist.
func LoadFromEnv(ctx context.Context) (*Home, error) {
	root, err := RootFromEnv()
	if err != nil {
		return nil, err
	}
	return Load(ctx, root)
}

// RootFromEnv resolves the home root path without touching the disk.
func RootFromEnv() (string, error) {
	if root := strings.TrimSpace(os.Getenv(EnvRoot)); root != "" {
		return filepath.Abs(root)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %s not set and user home unavailable: %w", ErrHomeNotFound, EnvRoot, err)
	}
	return filepath.Join(userHome, defaultDirName), nil
}

// Load reads the home rooted at root. The home's env file is not applied
// here; PreloadEnv does that once at startup.
func Load(ctx context.Context, root string) (*Home, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrHomeNotFound, root)
		}
		return nil, fmt.Errorf("storage: stat home %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrHomeNotFound, root)
	}

	h := &Home{
		root:      root,
		suffix:    identity.PlatformSuffix(),
		installed: make(map[string]tool.Spec),
	}
	if err := h.loadIndex(); err != nil {
		return nil, err
	}
	return h, nil
}

// PreloadEnv applies the home's env file before anything else reads the
// environment. Variables already set win. A missing home is not an error
// here; Load reports it.
func PreloadEnv() error {
	root, err := RootFromEnv()
	if err != nil {
		return nil
	}
	return loadEnvFile(filepath.Join(root, envFileName))
}

// loadEnvFile fills unset variables from the home's dotenv file.
func loadEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("storage: read env file %s: %w", path, err)
	}
	for key, value := range values {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("storage: apply env %s: %w", key, err)
		}
	}
	return nil
}

func (h *Home) loadIndex() error {
	path := h.IndexPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("storage: read index %s: %w", path, err)
	}
	var idx indexFile
	if err := toml.Unmarshal(data, &idx); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrIndexParse, path, err)
	}
	for i, raw := range idx.Installed {
		spec, err := tool.ParseSpec(raw)
		if err != nil {
			return fmt.Errorf("%w (%s) installed[%d]: %w", ErrIndexParse, path, i, err)
		}
		h.installed[spec.String()] = spec
	}
	return nil
}

// Save writes the installed index back to disk.
func (h *Home) Save() error {
	specs := h.Installed()
	idx := indexFile{Installed: make([]string, 0, len(specs))}
	for _, spec := range specs {
		idx.Installed = append(idx.Installed, spec.String())
	}
	data, err := toml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("storage: encode index: %w", err)
	}
	tmp := h.IndexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write index: %w", err)
	}
	return os.Rename(tmp, h.IndexPath())
}

func (h *Home) Root() string         { return h.root }
func (h *Home) BinDir() string       { return filepath.Join(h.root, binDirName) }
func (h *Home) IndexPath() string    { return filepath.Join(h.root, indexFileName) }
func (h *Home) ManifestPath() string { return filepath.Join(h.root, manifestFileName) }

// ToolPath is the executable location for spec. It does not check that
// the file exists.
func (h *Home) ToolPath(spec tool.Spec) string {
	return filepath.Join(
		h.root,
		toolStorageName,
		spec.ID.Author,
		spec.ID.Name,
		spec.Version,
		spec.ID.Name+h.suffix,
	)
}

// Installed returns every indexed spec ordered by its string form.
func (h *Home) Installed() []tool.Spec {
	list := make([]tool.Spec, 0, len(h.installed))
	for _, spec := range h.installed {
		list = append(list, spec)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].String() < list[j].String()
	})
	return list
}

func (h *Home) IsInstalled(spec tool.Spec) bool {
	_, ok := h.installed[spec.String()]
	return ok
}

// MarkInstalled records spec in the index. Call Save to persist it.
func (h *Home) MarkInstalled(spec tool.Spec) {
	h.installed[spec.String()] = spec
}
