// Package preview turns an image-generation prompt into a single preview
// image, trying an ordered list of model tiers.
package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"moodspec/internal/domain"
	"moodspec/internal/infra"
	"moodspec/internal/providers/gemini"
)

const (
	DefaultPrimaryModel  = "gemini-3-pro-image-preview"
	DefaultFallbackModel = "gemini-2.5-flash-image"
	// PrimaryImageSize is only understood by the primary tier.
	PrimaryImageSize = "1K"
)

// Request is what every tier receives.
type Request struct {
	Prompt      string
	AspectRatio string
}

// Tier is one backend in the fallback sequence.
type Tier struct {
	Name  string
	Model string
	Build func(req Request) *genai.GenerateContentConfig
}

// DefaultTiers returns the high-fidelity tier followed by the faster one.
// Empty model names select the defaults.
func DefaultTiers(primaryModel, fallbackModel string) []Tier {
	if strings.TrimSpace(primaryModel) == "" {
		primaryModel = DefaultPrimaryModel
	}
	if strings.TrimSpace(fallbackModel) == "" {
		fallbackModel = DefaultFallbackModel
	}
	return []Tier{
		{
			Name:  "Pro",
			Model: primaryModel,
			Build: func(req Request) *genai.GenerateContentConfig {
				return &genai.GenerateContentConfig{ImageConfig: &genai.ImageConfig{
					AspectRatio: req.AspectRatio,
					ImageSize:   PrimaryImageSize,
				}}
			},
		},
		{
			Name:  "Fallback",
			Model: fallbackModel,
			Build: func(req Request) *genai.GenerateContentConfig {
				return &genai.GenerateContentConfig{ImageConfig: &genai.ImageConfig{
					AspectRatio: req.AspectRatio,
				}}
			},
		},
	}
}

type Options struct {
	Factory gemini.Factory
	// Tiers defaults to DefaultTiers("", "").
	Tiers []Tier
	// Timeout bounds each tier attempt separately.
	Timeout time.Duration
	Logger  *infra.Logger
}

type Generator struct {
	factory gemini.Factory
	tiers   []Tier
	timeout time.Duration
	logger  *infra.Logger
}

func NewGenerator(opts Options) (*Generator, error) {
	if opts.Factory == nil {
		return nil, errors.New("preview: generator factory is required")
	}
	tiers := opts.Tiers
	if len(tiers) == 0 {
		tiers = DefaultTiers("", "")
	}
	for _, tier := range tiers {
		if tier.Build == nil || strings.TrimSpace(tier.Model) == "" {
			return nil, fmt.Errorf("preview: tier %q is incomplete", tier.Name)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Generator{factory: opts.Factory, tiers: tiers, timeout: opts.Timeout, logger: logger}, nil
}

// Generate returns the first image any tier produces as a data URI. Tiers run
// strictly one after another; a later tier only starts once the previous one
// has failed or returned no image.
func (g *Generator) Generate(ctx context.Context, prompt string, medium domain.Medium, credential string) (string, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", domain.ErrMissingCredential
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}

	gen, err := g.factory.ForKey(ctx, credential)
	if err != nil {
		return "", err
	}

	req := Request{Prompt: prompt, AspectRatio: medium.AspectRatio()}
	failures := make([]domain.TierFailure, 0, len(g.tiers))
	for _, tier := range g.tiers {
		uri, err := g.attempt(ctx, gen, tier, req)
		if err == nil {
			if len(failures) > 0 {
				g.logger.Info().Str("tier", tier.Name).Str("model", tier.Model).Msg("preview: fallback tier succeeded")
			}
			return uri, nil
		}
		failures = append(failures, domain.TierFailure{Tier: tier.Name, Model: tier.Model, Err: err})
		g.logger.Warn().Err(err).Str("tier", tier.Name).Str("model", tier.Model).Msg("preview: tier failed")
	}

	previewErr := &domain.PreviewError{
		Permission: isPermissionDenied(failures[0].Err),
		Attempts:   failures,
	}
	g.logger.Error().Err(previewErr).Int("attempts", len(failures)).Msg("preview: all tiers failed")
	return "", previewErr
}

func (g *Generator) attempt(ctx context.Context, gen gemini.ContentGenerator, tier Tier, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	resp, err := gen.GenerateContent(ctx, tier.Model, contents, tier.Build(req))
	if err != nil {
		return "", err
	}
	blob, ok := gemini.FirstInlineImage(resp)
	if !ok {
		return "", fmt.Errorf("%s returned no image data", tier.Model)
	}
	return gemini.DataURI(blob.MIMEType, blob.Data), nil
}

func isPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "403") || strings.Contains(msg, "PERMISSION")
}
