// Package analysis runs the "analyze this moodboard" request against the
// generation API and normalizes the reply.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"moodspec/internal/assets"
	"moodspec/internal/domain"
	"moodspec/internal/infra"
	"moodspec/internal/providers/gemini"
)

const (
	DefaultModel = "gemini-3-flash-preview"
	Temperature  = 0.4
	responseMIME = "application/json"
)

// AssetEncoder turns visual assets into request parts.
type AssetEncoder interface {
	EncodeAll(ctx context.Context, list []domain.VisualAsset) []assets.Outcome
}

type Options struct {
	Factory gemini.Factory
	Encoder AssetEncoder
	Model   string
	// Timeout bounds the generation call. Zero means no deadline beyond ctx.
	Timeout time.Duration
	Logger  *infra.Logger
}

// Analyzer is stateless between calls; it is safe for concurrent use.
type Analyzer struct {
	factory gemini.Factory
	encoder AssetEncoder
	model   string
	timeout time.Duration
	logger  *infra.Logger
}

func NewAnalyzer(opts Options) (*Analyzer, error) {
	if opts.Factory == nil {
		return nil, errors.New("analysis: generator factory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	encoder := opts.Encoder
	if encoder == nil {
		encoder = assets.NewEncoder(assets.Options{Logger: logger})
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Analyzer{
		factory: opts.Factory,
		encoder: encoder,
		model:   model,
		timeout: opts.Timeout,
		logger:  logger,
	}, nil
}

// Analyze sends the moodboard and the medium instruction in a single request
// and returns a fully populated result.
func (a *Analyzer) Analyze(ctx context.Context, list []domain.VisualAsset, medium domain.Medium, credential string) (*domain.AnalysisResult, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, domain.ErrMissingCredential
	}
	if len(list) == 0 {
		return nil, domain.ErrEmptyInput
	}
	if !medium.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMedium, medium)
	}

	outcomes := a.encoder.EncodeAll(ctx, list)
	parts := assets.Parts(outcomes)
	if len(parts) == 0 {
		a.logger.Warn().Int("assets", len(list)).Msg("analysis: no asset could be encoded; sending instruction only")
	}
	parts = append(parts, genai.NewPartFromText(BuildInstruction(medium)))

	gen, err := a.factory.ForKey(ctx, credential)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		ResponseMIMEType:  responseMIME,
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := gen.GenerateContent(callCtx, a.model, contents, cfg)
	if err != nil {
		a.logger.Error().Err(err).Str("model", a.model).Msg("analysis: generation request failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	raw := gemini.ResponseText(resp)
	if strings.TrimSpace(raw) == "" {
		return nil, domain.ErrEmptyResponse
	}
	result, err := Parse(raw)
	if err != nil {
		a.logger.Error().Err(err).Int("raw_len", len(raw)).Msg("analysis: could not parse model output")
		return nil, err
	}
	a.logger.Info().
		Str("medium", medium.String()).
		Int("assets", len(list)).
		Int("parts", len(parts)).
		Int("keywords", len(result.Summary.MoodKeywords)).
		Msg("analysis: completed")
	return result, nil
}

// Parse repairs raw model output and maps it onto an AnalysisResult. Fields
// that are missing or of the wrong shape fall back to their defaults one by
// one; only output that is not a JSON object at all is an error.
func Parse(raw string) (*domain.AnalysisResult, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(Repair(raw)), &top); err != nil {
		return nil, &domain.MalformedResponseError{Raw: raw, Err: err}
	}
	if top == nil {
		return nil, &domain.MalformedResponseError{Raw: raw, Err: errors.New("top-level value is not an object")}
	}

	var summary map[string]json.RawMessage
	_ = json.Unmarshal(top["summary"], &summary)

	return &domain.AnalysisResult{
		Summary: domain.Summary{
			MoodKeywords:     stringList(summary["mood_keywords"]),
			PrimaryColors:    stringList(summary["primary_colors"]),
			StyleDescription: stringField(summary["style_description"], domain.DefaultStyleDescription),
		},
		YAML:                  stringField(top["yaml_spec"], domain.DefaultYAMLSpec),
		ImageGenerationPrompt: stringField(top["image_generation_prompt"], domain.DefaultImageGenerationPrompt),
	}, nil
}

func stringField(raw json.RawMessage, fallback string) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return fallback
	}
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func stringList(raw json.RawMessage) []string {
	out := []string{}
	var items []string
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
