package zip

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Asset is one file of a style-spec bundle.
type Asset struct {
	Filename string
	MIME     string
	Data     []byte
}

// ArchiveAssets packs assets into a zip archive. Assets without a name or
// with a name already used are skipped.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	if len(assets) == 0 {
		return nil, errors.New("zip: nothing to archive")
	}
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	seen := make(map[string]struct{}, len(assets))
	now := time.Now()
	for _, asset := range assets {
		name := strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(asset.Filename), "\\", "/"), "/")
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method(asset.MIME), Modified: now})
		if err != nil {
			return nil, fmt.Errorf("zip: add %s: %w", name, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close: %w", err)
	}
	return buf.Bytes(), nil
}

// Already-compressed images are stored as is.
func method(mime string) uint16 {
	switch mime {
	case "image/png", "image/jpeg", "image/webp", "image/gif":
		return zip.Store
	default:
		return zip.Deflate
	}
}
