package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	data, err := ArchiveAssets([]Asset{
		{Filename: "spec.yaml", MIME: "application/yaml", Data: []byte("a: 1")},
		{Filename: "/preview.png", MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		{Filename: "spec.yaml", Data: []byte("duplicate")},
		{Filename: "  ", Data: []byte("nameless")},
	})
	if err != nil {
		t.Fatalf("ArchiveAssets: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("got %d entries, want 2", len(zr.File))
	}
	want := map[string]string{"spec.yaml": "a: 1", "preview.png": "\x89PNG"}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, _ := io.ReadAll(rc)
		rc.Close()
		if string(body) != want[f.Name] {
			t.Fatalf("%s = %q, want %q", f.Name, body, want[f.Name])
		}
	}
	if zr.File[1].Method != zip.Store {
		t.Fatalf("png should be stored uncompressed")
	}
}

func TestArchiveAssetsEmpty(t *testing.T) {
	if _, err := ArchiveAssets(nil); err == nil {
		t.Fatal("expected error for empty bundle")
	}
}
