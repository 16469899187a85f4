package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "spec.yaml", want: "spec.yaml"},
		{key: "./out/spec.yaml", want: "out/spec.yaml"},
		{key: "/abs/preview.png", want: "abs/preview.png"},
		{key: `win\path\a.json`, want: "win/path/a.json"},
		{key: "a/../b.txt", want: "b.txt"},
		{key: "../escape", wantErr: true},
		{key: "..", wantErr: true},
		{key: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := sanitizeKey(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("sanitizeKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestFileStoreWriteAndRead(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	store, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	path, err := store.Write(context.Background(), "nested/spec.yaml", []byte("a: 1"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(root, "nested", "spec.yaml") {
		t.Fatalf("path = %q", path)
	}
	data, err := store.Read("nested/spec.yaml")
	if err != nil || string(data) != "a: 1" {
		t.Fatalf("Read = %q, %v", data, err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("permanent store must survive Remove: %v", err)
	}
}

func TestFileStoreWriteFromLimit(t *testing.T) {
	store, err := NewTempStore("moodspec-test-*")
	if err != nil {
		t.Fatalf("NewTempStore: %v", err)
	}
	defer store.Remove()

	if _, err := store.WriteFrom(context.Background(), "ok.bin", strings.NewReader("1234"), 4); err != nil {
		t.Fatalf("WriteFrom within limit: %v", err)
	}
	if _, err := store.WriteFrom(context.Background(), "big.bin", strings.NewReader("12345"), 4); err == nil {
		t.Fatal("expected limit error")
	}
	if _, err := os.Stat(filepath.Join(store.BasePath(), "big.bin")); !os.IsNotExist(err) {
		t.Fatalf("oversized file should be removed, stat err = %v", err)
	}
}

func TestTempStoreRemove(t *testing.T) {
	store, err := NewTempStore("moodspec-test-*")
	if err != nil {
		t.Fatalf("NewTempStore: %v", err)
	}
	if _, err := store.Write(context.Background(), "a.png", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(store.BasePath()); !os.IsNotExist(err) {
		t.Fatalf("temp dir should be gone, stat err = %v", err)
	}
}

func TestWriteHonoursCancelledContext(t *testing.T) {
	store, err := NewTempStore("moodspec-test-*")
	if err != nil {
		t.Fatalf("NewTempStore: %v", err)
	}
	defer store.Remove()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "a.png", []byte("x")); err == nil {
		t.Fatal("expected context error")
	}
}
