package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadSetToken(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "token")
	if err := os.WriteFile(file, []byte("abc123\n"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	store := NewStore(file)

	token, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("expected trimmed token, got %q", token)
	}
	if store.Token() != "abc123" {
		t.Fatalf("expected token to be kept in memory")
	}

	store.Set("  newtoken ")
	if store.Token() != "newtoken" {
		t.Fatalf("expected Set to trim and replace, got %q", store.Token())
	}
}

func TestStoreClearRemovesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "token")
	if err := os.WriteFile(file, []byte("abc123"), 0o600); err != nil {
		t.Fatalf("writing token file: %v", err)
	}

	store := NewStore(file)
	if _, err := store.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Token() != "" {
		t.Fatalf("expected empty token after clear")
	}

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("expected token file to be removed, stat err: %v", err)
	}

	// Clearing again must stay successful: the file is already gone.
	if err := store.Clear(); err != nil {
		t.Fatalf("unexpected error on repeated clear: %v", err)
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"))
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error for missing token file")
	}
}
