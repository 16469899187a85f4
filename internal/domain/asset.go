package domain

import (
	"strings"

	"github.com/google/uuid"
)

// AssetOrigin tells where the bytes of a visual asset live.
type AssetOrigin string

const (
	AssetOriginFile AssetOrigin = "file"
	AssetOriginURL  AssetOrigin = "url"
)

// VisualAsset is one reference image of a moodboard. It is owned by the
// caller; the orchestrators only read it for the duration of a call.
type VisualAsset struct {
	ID     string
	Origin AssetOrigin
	// Path is the local file handle for file assets.
	Path string
	// URL is the remote location for url assets.
	URL string
	// MIMEType is the declared type of a local file, if known.
	MIMEType   string
	PreviewRef string
}

// NewFileAsset describes a local image file.
func NewFileAsset(path, mimeType string) VisualAsset {
	path = strings.TrimSpace(path)
	return VisualAsset{
		ID:         uuid.NewString(),
		Origin:     AssetOriginFile,
		Path:       path,
		MIMEType:   strings.TrimSpace(mimeType),
		PreviewRef: path,
	}
}

// NewURLAsset describes a remote image.
func NewURLAsset(rawURL string) VisualAsset {
	rawURL = strings.TrimSpace(rawURL)
	return VisualAsset{
		ID:         uuid.NewString(),
		Origin:     AssetOriginURL,
		URL:        rawURL,
		PreviewRef: rawURL,
	}
}

// Source returns the handle used in logs: the path or the URL.
func (a VisualAsset) Source() string {
	if a.Origin == AssetOriginURL {
		return a.URL
	}
	return a.Path
}
