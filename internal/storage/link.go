package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/toolshim/internal/tool"
)

var ErrLinkTarget = errors.New("storage: invalid link target")

// LinkAlias points <bin>/<alias> at self, the toolshim executable, so that
// running the alias re-enters toolshim under that name. An existing link
// to another target is replaced; a regular file in the way is an error.
func (h *Home) LinkAlias(alias tool.Alias, self string) (string, error) {
	if alias.IsZero() {
		return "", fmt.Errorf("%w: empty alias", ErrLinkTarget)
	}
	target, err := filepath.Abs(self)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLinkTarget, err)
	}
	if err := os.MkdirAll(h.BinDir(), 0o755); err != nil {
		return "", fmt.Errorf("storage: create bin dir: %w", err)
	}

	link := filepath.Join(h.BinDir(), alias.Name()+h.suffix)
	info, err := os.Lstat(link)
	switch {
	case err == nil && info.Mode()&os.ModeSymlink != 0:
		current, readErr := os.Readlink(link)
		if readErr == nil && current == target {
			return link, nil
		}
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("storage: replace link %s: %w", link, err)
		}
	case err == nil:
		return "", fmt.Errorf("%w: %s exists and is not a link", ErrLinkTarget, link)
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("storage: stat link %s: %w", link, err)
	}

	if err := os.Symlink(target, link); err != nil {
		return "", fmt.Errorf("storage: link %s -> %s: %w", link, target, err)
	}
	return link, nil
}
