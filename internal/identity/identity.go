// Package identity derives the logical tool name a process was invoked as.
//
// The name comes from argv[0]: directory components are dropped and the
// platform's executable suffix is removed, whatever letter case the
// invoking shell used for it.
package identity

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"
)

var (
	ErrMissingArg0 = errors.New("identity: arg0 was not passed, no tool can run")
	ErrNonUTF8     = errors.New("identity: non-UTF-8 file name passed as arg0")
	ErrEmptyName   = errors.New("identity: invalid file name passed as arg0")
)

// PlatformSuffix returns the executable file suffix of the host platform,
// including the leading dot, or "" when the platform has none.
func PlatformSuffix() string {
	return suffixFor(runtime.GOOS)
}

func suffixFor(goos string) string {
	if goos == "windows" {
		return ".exe"
	}
	return ""
}

// FromArgs resolves the logical name from a process argument list.
// Errors returned here are startup faults: the caller cannot continue.
func FromArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrMissingArg0
	}
	return Resolve(args[0], PlatformSuffix())
}

// Resolve turns a raw invocation string into a logical name.
func Resolve(arg0, suffix string) (string, error) {
	name := baseName(arg0, runtime.GOOS == "windows")
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrEmptyName, arg0)
	}
	if !utf8.ValidString(name) {
		return "", ErrNonUTF8
	}
	return StripSuffix(name, suffix), nil
}

// SuffixMatch is one step of the ordered suffix-stripping policy.
type SuffixMatch struct {
	Spelling string
	// FoldCase matches Spelling in any letter case.
	FoldCase bool
}

// Cut removes the matched suffix from name. It never leaves an empty name.
func (m SuffixMatch) Cut(name string) (string, bool) {
	n := len(name) - len(m.Spelling)
	if n <= 0 {
		return name, false
	}
	tail := name[n:]
	if tail == m.Spelling || (m.FoldCase && strings.EqualFold(tail, m.Spelling)) {
		return name[:n], true
	}
	return name, false
}

// SuffixCandidates lists the matches StripSuffix tries, in order: the
// lowercase spelling, the uppercase spelling, then any mixed case.
func SuffixCandidates(suffix string) []SuffixMatch {
	if suffix == "" {
		return nil
	}
	return []SuffixMatch{
		{Spelling: strings.ToLower(suffix)},
		{Spelling: strings.ToUpper(suffix)},
		{Spelling: suffix, FoldCase: true},
	}
}

// StripSuffix removes suffix from name using the first candidate that
// matches. Shells on suffix-using platforms are inconsistent about case.
func StripSuffix(name, suffix string) string {
	for _, candidate := range SuffixCandidates(suffix) {
		if stripped, ok := candidate.Cut(name); ok {
			return stripped
		}
	}
	return name
}

// baseName returns the final path component. Windows shells may pass
// either separator, so both count there.
func baseName(path string, windows bool) string {
	path = strings.TrimRight(path, sepChars(windows))
	if path == "" {
		return ""
	}
	if windows {
		if i := strings.LastIndex(path, ":"); i >= 0 && i == 1 {
			path = path[i+1:]
		}
	}
	if i := strings.LastIndexAny(path, sepChars(windows)); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func sepChars(windows bool) string {
	if windows {
		return `/\`
	}
	return "/"
}
