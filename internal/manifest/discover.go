package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/danmuck/toolshim/internal/logging"
	"github.com/danmuck/toolshim/internal/tool"
)

const loadConcurrency = 8

// Home is the part of the tool home that discovery needs: the location of
// the global manifest, searched after every directory scope.
type Home interface {
	ManifestPath() string
}

// Finder searches manifest scopes starting at Dir. An empty Dir means the
// process working directory.
type Finder struct {
	Dir string
}

// Entry is one alias in effect and the manifest that bound it.
type Entry struct {
	Alias  string
	Spec   tool.Spec
	Source string
}

// Discover returns the spec bound to alias by the nearest scope. Scopes
// past the first binding are never consulted, so a broken manifest further
// out cannot shadow a nearer one.
func (f Finder) Discover(ctx context.Context, home Home, alias tool.Alias) (tool.Spec, error) {
	scopes, err := f.loadAll(ctx, home)
	if err != nil {
		return tool.Spec{}, err
	}
	logger := logging.Logger("manifest")
	for _, sc := range scopes {
		if sc.err != nil {
			return tool.Spec{}, sc.err
		}
		if sc.manifest == nil {
			continue
		}
		if spec, ok := sc.manifest.Lookup(alias); ok {
			logger.Debug().Str("alias", alias.Name()).Str("spec", spec.String()).Str("manifest", sc.manifest.Path).Msg("resolved")
			return spec, nil
		}
	}
	return tool.Spec{}, fmt.Errorf("%w: no manifest binds '%s'", ErrToolNotFound, alias)
}

// DiscoverAll merges every scope, the nearest binding of each alias
// winning. Entries are sorted by alias. Every scope is reached here, so
// any broken manifest fails the listing.
func (f Finder) DiscoverAll(ctx context.Context, home Home) ([]Entry, error) {
	scopes, err := f.loadAll(ctx, home)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]Entry)
	for _, sc := range scopes {
		if sc.err != nil {
			return nil, sc.err
		}
		if sc.manifest == nil {
			continue
		}
		m := sc.manifest
		for _, name := range m.Aliases() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = Entry{Alias: name, Spec: m.Tools[name], Source: m.Path}
		}
	}
	out := make([]Entry, 0, len(seen))
	for _, entry := range seen {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Alias < out[j].Alias
	})
	return out, nil
}

// Scopes lists candidate manifest paths, nearest first.
func (f Finder) Scopes(home Home) ([]string, error) {
	dir := f.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("manifest: working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", f.Dir, err)
	}

	names := append([]string{FileName}, legacyFileNames...)
	seen := make(map[string]struct{})
	var paths []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	for {
		for _, name := range names {
			add(filepath.Join(dir, name))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if home != nil {
		if global := home.ManifestPath(); global != "" {
			add(filepath.Clean(global))
		}
	}
	return paths, nil
}

// scope is the outcome of reading one candidate path. Both fields are nil
// when the file does not exist.
type scope struct {
	manifest *Manifest
	err      error
}

// loadAll reads every scope concurrently and returns the outcomes nearest
// first. Decode errors stay attached to their scope; only cancellation
// fails the whole load.
func (f Finder) loadAll(ctx context.Context, home Home) ([]scope, error) {
	paths, err := f.Scopes(home)
	if err != nil {
		return nil, err
	}

	results := make([]scope, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := Load(path)
			switch {
			case err == nil:
				results[i].manifest = m
			case !isNotExist(err):
				results[i].err = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
