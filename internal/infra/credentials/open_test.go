package credentials

import (
	"context"
	"path/filepath"
	"testing"

	"moodspec/internal/infra"
)

func TestOpenStoreDefaultsToFile(t *testing.T) {
	cfg := &infra.Config{CredentialFile: filepath.Join(t.TempDir(), "credentials.json")}
	store, closeFn, err := OpenStore(context.Background(), cfg, *infra.DiscardLogger())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer closeFn()
	fs, ok := store.(*FileStore)
	if !ok {
		t.Fatalf("expected *FileStore, got %T", store)
	}
	if fs.Path() != cfg.CredentialFile {
		t.Fatalf("path = %q", fs.Path())
	}
}
