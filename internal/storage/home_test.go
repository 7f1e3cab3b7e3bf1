package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danmuck/toolshim/internal/identity"
	"github.com/danmuck/toolshim/internal/testutil/testlog"
	"github.com/danmuck/toolshim/internal/tool"
)

func mustSpec(t *testing.T, raw string) tool.Spec {
	t.Helper()
	spec, err := tool.ParseSpec(raw)
	if err != nil {
		t.Fatalf("parse spec %q: %v", raw, err)
	}
	return spec
}

func TestLoadFromEnvMissingHome(t *testing.T) {
	testlog.Start(t)
	t.Setenv(EnvRoot, filepath.Join(t.TempDir(), "absent"))
	if _, err := LoadFromEnv(context.Background()); !errors.Is(err, ErrHomeNotFound) {
		t.Fatalf("expected ErrHomeNotFound, got %v", err)
	}
}

func TestLoadRejectsFileAsHome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(context.Background(), path); !errors.Is(err, ErrHomeNotFound) {
		t.Fatalf("expected ErrHomeNotFound, got %v", err)
	}
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestToolPath(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	h, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := h.ToolPath(mustSpec(t, "rojo-rbx/rojo@7.4.1"))
	want := filepath.Join(root, "tool-storage", "rojo-rbx", "rojo", "7.4.1", "rojo"+identity.PlatformSuffix())
	if got != want {
		t.Fatalf("unexpected tool path\nwant: %s\ngot:  %s", want, got)
	}
}

func TestIndexSaveAndReload(t *testing.T) {
	testlog.Start(t)
	root := t.TempDir()
	h, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(h.Installed()) != 0 {
		t.Fatalf("expected empty index")
	}
	h.MarkInstalled(mustSpec(t, "kampfkarren/selene@0.27.1"))
	h.MarkInstalled(mustSpec(t, "johnnymorganz/stylua@0.20.0"))
	if err := h.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	var got []string
	for _, spec := range reloaded.Installed() {
		got = append(got, spec.String())
	}
	want := []string{"johnnymorganz/stylua@0.20.0", "kampfkarren/selene@0.27.1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("installed mismatch (-want +got):\n%s", diff)
	}
	if !reloaded.IsInstalled(mustSpec(t, "kampfkarren/selene@0.27.1")) {
		t.Fatalf("expected selene installed")
	}
	if reloaded.IsInstalled(mustSpec(t, "kampfkarren/selene@0.26.0")) {
		t.Fatalf("unexpected selene 0.26.0 installed")
	}
}

func TestLoadRejectsBadIndex(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "installed.toml"), []byte("installed = [\"not-a-spec\"]\n"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	if _, err := Load(context.Background(), root); !errors.Is(err, ErrIndexParse) {
		t.Fatalf("expected ErrIndexParse, got %v", err)
	}
}

func TestPreloadEnvWithoutOverriding(t *testing.T) {
	root := t.TempDir()
	content := "TOOLSHIM_TEST_FROM_FILE=file\nTOOLSHIM_TEST_PRESET=file\n"
	if err := os.WriteFile(filepath.Join(root, "env"), []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("TOOLSHIM_TEST_PRESET", "process")
	t.Setenv("TOOLSHIM_TEST_FROM_FILE", "")
	os.Unsetenv("TOOLSHIM_TEST_FROM_FILE")

	t.Setenv(EnvRoot, root)
	if err := PreloadEnv(); err != nil {
		t.Fatalf("preload: %v", err)
	}
	if got := os.Getenv("TOOLSHIM_TEST_FROM_FILE"); got != "file" {
		t.Fatalf("expected value from env file, got %q", got)
	}
	if got := os.Getenv("TOOLSHIM_TEST_PRESET"); got != "process" {
		t.Fatalf("expected process value to win, got %q", got)
	}
}

func TestLoadLeavesEnvFileAlone(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "env"), []byte("TOOLSHIM_TEST_LOAD_ONLY=file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("TOOLSHIM_TEST_LOAD_ONLY", "")
	os.Unsetenv("TOOLSHIM_TEST_LOAD_ONLY")

	if _, err := Load(context.Background(), root); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, set := os.LookupEnv("TOOLSHIM_TEST_LOAD_ONLY"); set {
		t.Fatalf("expected Load not to apply the env file")
	}
}

func TestPreloadEnvWithoutHome(t *testing.T) {
	t.Setenv(EnvRoot, filepath.Join(t.TempDir(), "absent"))
	if err := PreloadEnv(); err != nil {
		t.Fatalf("expected missing home to be ignored, got %v", err)
	}
}
