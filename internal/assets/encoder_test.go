package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moodspec/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func httpResponse(status int, contentType string, body []byte) *http.Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestEncodeFileUsesDeclaredMIME(t *testing.T) {
	path := writeFile(t, "board.webp", []byte("not really webp"))
	enc := NewEncoder(Options{})

	out := enc.Encode(context.Background(), domain.NewFileAsset(path, "image/webp"))
	if out.Skipped() {
		t.Fatalf("expected part, got skip: %v", out.Reason)
	}
	if out.Part.InlineData == nil {
		t.Fatalf("expected inline data part")
	}
	if out.Part.InlineData.MIMEType != "image/webp" {
		t.Fatalf("MIME = %q, want image/webp", out.Part.InlineData.MIMEType)
	}
	if string(out.Part.InlineData.Data) != "not really webp" {
		t.Fatalf("unexpected payload %q", out.Part.InlineData.Data)
	}
}

func TestEncodeFileDetectsMIME(t *testing.T) {
	path := writeFile(t, "board", pngHeader)
	out := NewEncoder(Options{}).Encode(context.Background(), domain.NewFileAsset(path, ""))
	if out.Skipped() {
		t.Fatalf("expected part, got skip: %v", out.Reason)
	}
	if out.Part.InlineData.MIMEType != "image/png" {
		t.Fatalf("MIME = %q, want image/png", out.Part.InlineData.MIMEType)
	}
}

func TestEncodeFileSkipsUnreadable(t *testing.T) {
	tests := []struct {
		name  string
		asset func(t *testing.T) domain.VisualAsset
	}{
		{name: "missing", asset: func(t *testing.T) domain.VisualAsset {
			return domain.NewFileAsset(filepath.Join(t.TempDir(), "gone.png"), "image/png")
		}},
		{name: "empty", asset: func(t *testing.T) domain.VisualAsset {
			return domain.NewFileAsset(writeFile(t, "empty.png", nil), "image/png")
		}},
		{name: "directory", asset: func(t *testing.T) domain.VisualAsset {
			return domain.NewFileAsset(t.TempDir(), "image/png")
		}},
		{name: "too large", asset: func(t *testing.T) domain.VisualAsset {
			return domain.NewFileAsset(writeFile(t, "big.png", bytes.Repeat([]byte{1}, 32)), "image/png")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(Options{MaxBytes: 16})
			out := enc.Encode(context.Background(), tt.asset(t))
			if !out.Skipped() {
				t.Fatalf("expected skip, got part")
			}
			if !errors.Is(out.Reason, domain.ErrAssetUnreadable) {
				t.Fatalf("expected ErrAssetUnreadable, got %v", out.Reason)
			}
		})
	}
}

func TestEncodeURLFetchesImage(t *testing.T) {
	var gotURL string
	enc := NewEncoder(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return httpResponse(http.StatusOK, "image/png; charset=binary", pngHeader), nil
	})}})

	out := enc.Encode(context.Background(), domain.NewURLAsset("https://cdn.example.com/a.png"))
	if out.Skipped() || out.Degraded {
		t.Fatalf("expected inline part, got %+v", out)
	}
	if gotURL != "https://cdn.example.com/a.png" {
		t.Fatalf("fetched %q", gotURL)
	}
	if out.Part.InlineData.MIMEType != "image/png" {
		t.Fatalf("MIME = %q, want image/png", out.Part.InlineData.MIMEType)
	}
}

func TestEncodeURLMIMEFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
	}{
		{name: "sniffed", contentType: "application/octet-stream", body: pngHeader, want: "image/png"},
		{name: "unknown bytes", contentType: "", body: []byte{0x00, 0x01, 0x02, 0x03}, want: "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return httpResponse(http.StatusOK, tt.contentType, tt.body), nil
			})}})
			out := enc.Encode(context.Background(), domain.NewURLAsset("https://example.com/x"))
			if out.Skipped() || out.Degraded {
				t.Fatalf("expected inline part, got %+v", out)
			}
			if out.Part.InlineData.MIMEType != tt.want {
				t.Fatalf("MIME = %q, want %q", out.Part.InlineData.MIMEType, tt.want)
			}
		})
	}
}

func TestEncodeURLDegradesToPlaceholder(t *testing.T) {
	const url = "https://blocked.example.com/img.jpg"
	tests := []struct {
		name string
		rt   roundTripFunc
	}{
		{name: "transport error", rt: func(*http.Request) (*http.Response, error) {
			return nil, errors.New("cors blocked")
		}},
		{name: "not found", rt: func(*http.Request) (*http.Response, error) {
			return httpResponse(http.StatusNotFound, "text/plain", []byte("nope")), nil
		}},
		{name: "empty body", rt: func(*http.Request) (*http.Response, error) {
			return httpResponse(http.StatusOK, "image/jpeg", nil), nil
		}},
		{name: "html page", rt: func(*http.Request) (*http.Response, error) {
			return httpResponse(http.StatusOK, "text/html", []byte("<!DOCTYPE html><html><body>login</body></html>")), nil
		}},
		{name: "too large", rt: func(*http.Request) (*http.Response, error) {
			return httpResponse(http.StatusOK, "image/png", bytes.Repeat([]byte{1}, 64)), nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(Options{MaxBytes: 32, HTTPClient: &http.Client{Transport: tt.rt}})
			out := enc.Encode(context.Background(), domain.NewURLAsset(url))
			if out.Skipped() {
				t.Fatalf("remote assets must never be skipped")
			}
			if !out.Degraded || out.Reason == nil {
				t.Fatalf("expected degraded outcome with reason, got %+v", out)
			}
			if out.Part.InlineData != nil {
				t.Fatalf("expected text part")
			}
			if out.Part.Text != "[Image URL Source]: "+url {
				t.Fatalf("placeholder = %q", out.Part.Text)
			}
		})
	}
}

func TestEncodeAllPreservesOrderAndSkips(t *testing.T) {
	good := writeFile(t, "good.png", pngHeader)
	missing := filepath.Join(t.TempDir(), "missing.png")
	enc := NewEncoder(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("offline")
	})}})

	list := []domain.VisualAsset{
		domain.NewURLAsset("https://example.com/first.png"),
		domain.NewFileAsset(missing, "image/png"),
		domain.NewFileAsset(good, "image/png"),
	}
	outcomes := enc.EncodeAll(context.Background(), list)
	if len(outcomes) != len(list) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(list))
	}
	for i := range list {
		if outcomes[i].Asset.ID != list[i].ID {
			t.Fatalf("outcome %d belongs to %s, want %s", i, outcomes[i].Asset.ID, list[i].ID)
		}
	}

	parts := Parts(outcomes)
	if len(parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(parts))
	}
	if !strings.HasPrefix(parts[0].Text, URLPlaceholderPrefix) {
		t.Fatalf("first part should be the url placeholder, got %+v", parts[0])
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/png" {
		t.Fatalf("second part should be the png, got %+v", parts[1])
	}
}

func TestEncodeRejectsUnknownOrigin(t *testing.T) {
	out := NewEncoder(Options{}).Encode(context.Background(), domain.VisualAsset{ID: "x", Origin: "ftp"})
	if !out.Skipped() || !errors.Is(out.Reason, domain.ErrAssetUnreadable) {
		t.Fatalf("expected unreadable skip, got %+v", out)
	}
}
