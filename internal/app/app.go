// Package app assembles the orchestrators from configuration.
package app

import (
	"net/http"

	"moodspec/internal/assets"
	"moodspec/internal/handoff"
	"moodspec/internal/infra"
	"moodspec/internal/providers/analysis"
	"moodspec/internal/providers/gemini"
	"moodspec/internal/providers/preview"
)

// Services holds the stateless components shared by the CLI and the bridge.
type Services struct {
	Analyzer  *analysis.Analyzer
	Previewer *preview.Generator
	Handoff   *handoff.Builder
}

func New(cfg *infra.Config, logger *infra.Logger) (*Services, error) {
	factory := gemini.NewClient(gemini.Options{
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		Logger:     logger,
	})
	encoder := assets.NewEncoder(assets.Options{
		HTTPClient: &http.Client{Timeout: cfg.AssetFetchTimeout},
		MaxBytes:   cfg.MaxAssetBytes,
		Logger:     logger,
	})
	analyzer, err := analysis.NewAnalyzer(analysis.Options{
		Factory: factory,
		Encoder: encoder,
		Model:   cfg.AnalysisModel,
		Timeout: cfg.UpstreamTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	previewer, err := preview.NewGenerator(preview.Options{
		Factory: factory,
		Tiers:   preview.DefaultTiers(cfg.PreviewPrimaryModel, cfg.PreviewFallbackModel),
		Timeout: cfg.UpstreamTimeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	builder, err := handoff.NewBuilder()
	if err != nil {
		return nil, err
	}
	return &Services{Analyzer: analyzer, Previewer: previewer, Handoff: builder}, nil
}
