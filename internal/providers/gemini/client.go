package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"moodspec/internal/domain"
	"moodspec/internal/infra"
)

// ContentGenerator is the single generation endpoint the orchestrators use.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Factory binds a credential to a generator for the duration of one call.
type Factory interface {
	ForKey(ctx context.Context, apiKey string) (ContentGenerator, error)
}

// Options controls how the Gemini client is configured.
type Options struct {
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client creates SDK clients on demand. It holds no credential of its own.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a Gemini client factory. A nil HTTP client falls back
// to http.DefaultClient inside the SDK.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		baseURL:    strings.TrimSpace(opts.BaseURL),
		apiVersion: strings.TrimSpace(opts.APIVersion),
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// ForKey returns a generator authorized with apiKey.
func (c *Client) ForKey(ctx context.Context, apiKey string) (ContentGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.baseURL,
			APIVersion: c.apiVersion,
		},
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &loggingGenerator{next: client.Models, logger: c.logger}, nil
}

type loggingGenerator struct {
	next   ContentGenerator
	logger *infra.Logger
}

func (g *loggingGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	start := time.Now()
	resp, err := g.next.GenerateContent(ctx, model, contents, config)
	event := g.logger.Debug()
	if err != nil {
		event = g.logger.Warn().Err(err)
	}
	event.
		Str("model", model).
		Int("parts", countParts(contents)).
		Dur("elapsed", time.Since(start)).
		Msg("gemini: generate content")
	return resp, err
}

func countParts(contents []*genai.Content) int {
	n := 0
	for _, c := range contents {
		if c != nil {
			n += len(c.Parts)
		}
	}
	return n
}

// ResponseText returns the text of the first candidate that carries any.
func ResponseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
		if strings.TrimSpace(b.String()) != "" {
			return b.String()
		}
	}
	return ""
}

// FirstInlineImage scans every candidate and every part in order and returns
// the first inline image.
func FirstInlineImage(resp *genai.GenerateContentResponse) (*genai.Blob, bool) {
	if resp == nil {
		return nil, false
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime != "" && !strings.HasPrefix(mime, "image/") {
				continue
			}
			return part.InlineData, true
		}
	}
	return nil, false
}

// DataURI renders bytes as a data URI ready for display.
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURI splits a data URI into its MIME type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data uri without payload")
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data uri is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data uri: %w", err)
	}
	return mime, data, nil
}

var (
	_ Factory          = (*Client)(nil)
	_ ContentGenerator = (*genai.Models)(nil)
)
