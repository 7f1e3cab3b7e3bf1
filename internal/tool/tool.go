// Package tool defines the identifiers that bind an alias to an installed
// tool: the alias itself, the author/name ID, and the versioned spec.
package tool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAlias = errors.New("tool: invalid alias")
	ErrInvalidID    = errors.New("tool: invalid id")
	ErrInvalidSpec  = errors.New("tool: invalid spec")
)

// Alias is the name a tool is invoked by. Aliases are case-insensitive
// and stored lowercase.
type Alias struct {
	name string
}

// ParseAlias validates raw as an alias.
func ParseAlias(raw string) (Alias, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return Alias{}, fmt.Errorf("%w: alias must not be empty", ErrInvalidAlias)
	}
	if name != strings.ToLower(raw) {
		return Alias{}, fmt.Errorf("%w: alias %q must not contain whitespace", ErrInvalidAlias, raw)
	}
	if !isValidPart(name) {
		return Alias{}, fmt.Errorf("%w: %q", ErrInvalidAlias, raw)
	}
	return Alias{name: name}, nil
}

// MustParseAlias is ParseAlias for constant inputs.
func MustParseAlias(raw string) Alias {
	alias, err := ParseAlias(raw)
	if err != nil {
		panic(err)
	}
	return alias
}

func (a Alias) Name() string   { return a.name }
func (a Alias) String() string { return a.name }
func (a Alias) IsZero() bool   { return a.name == "" }

// ID identifies a tool independently of its version.
type ID struct {
	Author string
	Name   string
}

// ParseID parses "author/name".
func ParseID(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	author, name, ok := strings.Cut(raw, "/")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q is missing '/'", ErrInvalidID, raw)
	}
	author = strings.ToLower(author)
	name = strings.ToLower(name)
	if !isValidPart(author) {
		return ID{}, fmt.Errorf("%w: invalid author in %q", ErrInvalidID, raw)
	}
	if !isValidPart(name) {
		return ID{}, fmt.Errorf("%w: invalid name in %q", ErrInvalidID, raw)
	}
	return ID{Author: author, Name: name}, nil
}

func (id ID) String() string {
	return id.Author + "/" + id.Name
}

// Spec pins a tool ID to one version.
type Spec struct {
	ID      ID
	Version string
}

// ParseSpec parses "author/name@version". A leading "v" on the version
// is kept as written.
func ParseSpec(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	idPart, version, ok := strings.Cut(raw, "@")
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q is missing '@version'", ErrInvalidSpec, raw)
	}
	id, err := ParseID(idPart)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if !isValidVersion(version) {
		return Spec{}, fmt.Errorf("%w: invalid version in %q", ErrInvalidSpec, raw)
	}
	return Spec{ID: id, Version: version}, nil
}

func (s Spec) String() string {
	return s.ID.String() + "@" + s.Version
}

func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Spec) UnmarshalText(text []byte) error {
	parsed, err := ParseSpec(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func isValidPart(part string) bool {
	if part == "" {
		return false
	}
	for i := 0; i < len(part); i++ {
		c := part[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 && isSep {
			return false
		}
	}
	return true
}

func isValidVersion(version string) bool {
	if version == "" {
		return false
	}
	for i := 0; i < len(version); i++ {
		c := version[i]
		if c <= ' ' || c == '/' || c == '\\' || c == '@' || c > '~' {
			return false
		}
	}
	return version != "." && version != ".."
}
