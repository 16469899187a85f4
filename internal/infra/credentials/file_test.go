package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewFileStore(path)
	ctx := context.Background()

	key, err := store.UserKey(ctx)
	if err != nil {
		t.Fatalf("UserKey on missing file: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}

	if err := store.SetUserKey(ctx, "  user-key "); err != nil {
		t.Fatalf("SetUserKey error: %v", err)
	}
	key, err = store.UserKey(ctx)
	if err != nil {
		t.Fatalf("UserKey error: %v", err)
	}
	if key != "user-key" {
		t.Fatalf("expected user-key, got %q", key)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat credentials file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}

	if err := store.DeleteUserKey(ctx); err != nil {
		t.Fatalf("DeleteUserKey error: %v", err)
	}
	key, _ = store.UserKey(ctx)
	if key != "" {
		t.Fatalf("expected key to be removed, got %q", key)
	}
}

func TestFileStoreRejectsEmptyKey(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
	if err := store.SetUserKey(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).UserKey(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
