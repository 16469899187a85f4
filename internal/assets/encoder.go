// Package assets turns moodboard images into request parts.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/genai"

	"moodspec/internal/domain"
	"moodspec/internal/infra"
)

// DefaultMaxBytes caps a single asset.
const DefaultMaxBytes int64 = 20 << 20

// URLPlaceholderPrefix starts the text part sent instead of unreachable remote bytes.
const URLPlaceholderPrefix = "[Image URL Source]: "

// Outcome is the per-asset result of encoding: either a part or a skip reason.
type Outcome struct {
	Asset domain.VisualAsset
	Part  *genai.Part
	// Degraded is set when a remote image was replaced by a text reference.
	Degraded bool
	// Reason explains a skip or a degrade.
	Reason error
}

// Skipped reports whether the asset contributes nothing to the request.
func (o Outcome) Skipped() bool {
	return o.Part == nil
}

// Options configures the encoder.
type Options struct {
	HTTPClient *http.Client
	MaxBytes   int64
	Logger     *infra.Logger
}

// Encoder reads local files and fetches remote images.
type Encoder struct {
	client   *http.Client
	maxBytes int64
	logger   *infra.Logger
}

func NewEncoder(opts Options) *Encoder {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Encoder{client: client, maxBytes: maxBytes, logger: logger}
}

// EncodeAll encodes assets one after another and keeps the input order.
func (e *Encoder) EncodeAll(ctx context.Context, list []domain.VisualAsset) []Outcome {
	out := make([]Outcome, 0, len(list))
	for _, asset := range list {
		out = append(out, e.Encode(ctx, asset))
	}
	return out
}

// Encode never fails the batch: unreadable files are skipped and unreachable
// URLs degrade to a text reference.
func (e *Encoder) Encode(ctx context.Context, asset domain.VisualAsset) Outcome {
	switch asset.Origin {
	case domain.AssetOriginFile:
		return e.encodeFile(asset)
	case domain.AssetOriginURL:
		return e.encodeURL(ctx, asset)
	default:
		err := fmt.Errorf("%w: unknown origin %q", domain.ErrAssetUnreadable, asset.Origin)
		e.logSkip(asset, err)
		return Outcome{Asset: asset, Reason: err}
	}
}

func (e *Encoder) encodeFile(asset domain.VisualAsset) Outcome {
	data, err := e.readFile(asset.Path)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", domain.ErrAssetUnreadable, asset.Path, err)
		e.logSkip(asset, err)
		return Outcome{Asset: asset, Reason: err}
	}
	mimeType := asset.MIMEType
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return Outcome{Asset: asset, Part: genai.NewPartFromBytes(data, mimeType)}
}

func (e *Encoder) readFile(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("empty path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("is a directory")
	}
	if info.Size() > e.maxBytes {
		return nil, fmt.Errorf("file is too large: %d bytes (limit is %d)", info.Size(), e.maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(f, e.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty")
	}
	return data, nil
}

func (e *Encoder) encodeURL(ctx context.Context, asset domain.VisualAsset) Outcome {
	data, mimeType, err := e.fetch(ctx, asset.URL)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("asset_id", asset.ID).
			Str("url", asset.URL).
			Msg("assets: could not fetch remote image; sending url reference instead")
		return Outcome{
			Asset:    asset,
			Part:     genai.NewPartFromText(URLPlaceholderPrefix + asset.URL),
			Degraded: true,
			Reason:   err,
		}
	}
	return Outcome{Asset: asset, Part: genai.NewPartFromBytes(data, mimeType)}
}

func (e *Encoder) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("fetch image status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > e.maxBytes {
		return nil, "", fmt.Errorf("image is larger than %d bytes", e.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", errors.New("image body is empty")
	}
	mimeType, ok := imageMIME(resp.Header.Get("Content-Type"), data)
	if !ok {
		return nil, "", fmt.Errorf("remote content is not an image (%s)", mimeType)
	}
	return data, mimeType, nil
}

// imageMIME prefers the declared image type, then sniffs the bytes.
func imageMIME(header string, data []byte) (string, bool) {
	if mt, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mt, "image/") {
		return mt, true
	}
	detected := mimetype.Detect(data)
	if strings.HasPrefix(detected.String(), "image/") {
		return detected.String(), true
	}
	if header == "" || header == "application/octet-stream" {
		// Nothing contradicts an image; assume JPEG like most CDNs.
		if detected.Is("application/octet-stream") {
			return "image/jpeg", true
		}
	}
	return detected.String(), false
}

func (e *Encoder) logSkip(asset domain.VisualAsset, err error) {
	e.logger.Warn().
		Err(err).
		Str("asset_id", asset.ID).
		Str("source", asset.Source()).
		Msg("assets: skipping asset")
}

// Parts collects the parts of the outcomes that produced one, in order.
func Parts(outcomes []Outcome) []*genai.Part {
	parts := make([]*genai.Part, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Skipped() {
			parts = append(parts, o.Part)
		}
	}
	return parts
}
