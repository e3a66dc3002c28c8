package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("  top-secret\n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	got, err := Load(Source{Name: "api token", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "top-secret" {
		t.Fatalf("expected trimmed token, got %q", got)
	}
}

func TestLoadFilePrecedesValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	got, err := Load(Source{Name: "api token", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "from-file" {
		t.Fatalf("expected file content to win, got %q", got)
	}
}

func TestLoadFromEnvPointedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	if err := os.WriteFile(path, []byte("env-secret"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	t.Setenv("PREPPILOT_TEST_TOKEN_FILE", path)

	got, err := Load(Source{Name: "api token", Env: "PREPPILOT_TEST_TOKEN_FILE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "env-secret" {
		t.Fatalf("expected env-pointed file content, got %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(Source{Name: "api token"}); err == nil {
		t.Fatalf("expected error for empty source")
	}

	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("   \n"), 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}

	_, err := Load(Source{Name: "api token", File: empty})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}

	if _, err := Load(Source{Name: "api token", File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
