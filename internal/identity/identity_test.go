package identity

import (
	"errors"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStripSuffixCaseVariants(t *testing.T) {
	cases := map[string]string{
		"tool.exe":   "tool",
		"Tool.EXE":   "Tool",
		"Tool.Exe":   "Tool",
		"tool.eXe":   "tool",
		"mytool.EXE": "mytool",
		"mytool":     "mytool",
		"tool.exec":  "tool.exec",
		"toolexe":    "toolexe",
		".exe":       ".exe",
	}
	for in, want := range cases {
		if got := StripSuffix(in, ".exe"); got != want {
			t.Fatalf("StripSuffix(%q) = %q want %q", in, got, want)
		}
	}
}

func TestStripSuffixWithoutPlatformSuffix(t *testing.T) {
	if got := StripSuffix("tool.exe", ""); got != "tool.exe" {
		t.Fatalf("expected name untouched without suffix, got %q", got)
	}
}

func TestSuffixCandidatesOrder(t *testing.T) {
	got := SuffixCandidates(".Exe")
	want := []SuffixMatch{
		{Spelling: ".exe"},
		{Spelling: ".EXE"},
		{Spelling: ".Exe", FoldCase: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidate order mismatch (-want +got):\n%s", diff)
	}
	if SuffixCandidates("") != nil {
		t.Fatalf("expected no candidates for empty suffix")
	}
}

func TestSuffixMatchCut(t *testing.T) {
	exact := SuffixMatch{Spelling: ".exe"}
	if _, ok := exact.Cut("tool.EXE"); ok {
		t.Fatalf("exact spelling must not match another case")
	}
	if got, ok := exact.Cut("tool.exe"); !ok || got != "tool" {
		t.Fatalf("exact cut = %q,%v", got, ok)
	}
	folded := SuffixMatch{Spelling: ".exe", FoldCase: true}
	if got, ok := folded.Cut("tool.ExE"); !ok || got != "tool" {
		t.Fatalf("folded cut = %q,%v", got, ok)
	}
	if got, ok := folded.Cut(".EXE"); ok || got != ".EXE" {
		t.Fatalf("cut must not empty the name, got %q,%v", got, ok)
	}
}

func TestResolveStripsDirectories(t *testing.T) {
	cases := map[string]string{
		"/usr/local/bin/mytool":      "mytool",
		"./mytool":                   "mytool",
		"bin/mytool.EXE":             "mytool",
		"/home/u/.toolshim/bin/fmt/": "fmt",
		"mytool":                     "mytool",
	}
	for in, want := range cases {
		got, err := Resolve(in, ".exe")
		if err != nil {
			t.Fatalf("Resolve(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Resolve(%q) = %q want %q", in, got, want)
		}
	}
}

func TestResolveWindowsSeparators(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("backslash is only a separator on windows")
	}
	got, err := Resolve(`C:\Users\me\.toolshim\bin\mytool.EXE`, ".exe")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "mytool" {
		t.Fatalf("expected mytool, got %q", got)
	}
}

func TestResolveLowerAndUpperSuffixAgree(t *testing.T) {
	lower, err := Resolve("mytool.exe", ".exe")
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	upper, err := Resolve("mytool.EXE", ".exe")
	if err != nil {
		t.Fatalf("upper: %v", err)
	}
	if lower != upper || lower != "mytool" {
		t.Fatalf("expected both to resolve to mytool, got %q and %q", lower, upper)
	}
}

func TestResolveRejectsNonUTF8(t *testing.T) {
	if _, err := Resolve("/bin/\xff\xfe", ""); !errors.Is(err, ErrNonUTF8) {
		t.Fatalf("expected ErrNonUTF8, got %v", err)
	}
}

func TestResolveRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "/", "a/.."} {
		if _, err := Resolve(in, ""); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("Resolve(%q): expected ErrEmptyName, got %v", in, err)
		}
	}
}

func TestFromArgs(t *testing.T) {
	if _, err := FromArgs(nil); !errors.Is(err, ErrMissingArg0) {
		t.Fatalf("expected ErrMissingArg0, got %v", err)
	}
	name, err := FromArgs([]string{"/opt/bin/mytool", "--version"})
	if err != nil {
		t.Fatalf("from args: %v", err)
	}
	if name != "mytool" {
		t.Fatalf("expected mytool, got %q", name)
	}
}

func TestSuffixFor(t *testing.T) {
	if suffixFor("windows") != ".exe" {
		t.Fatalf("expected .exe on windows")
	}
	if suffixFor("linux") != "" || suffixFor("darwin") != "" {
		t.Fatalf("expected no suffix on unix platforms")
	}
}
