package handoff

import (
	"encoding/json"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"moodspec/internal/domain"
	"moodspec/pkg/zip"
)

// Bundle file names.
const (
	SpecFile        = "spec.yaml"
	AnalysisFile    = "analysis.json"
	ImagePromptFile = "image_prompt.txt"
	HandoffFile     = "handoff.md"
	PreviewBase     = "preview"
)

// Preview is a generated image to include in a bundle.
type Preview struct {
	MIMEType string
	Data     []byte
}

// BundleAssets lists the files of a style-spec bundle. prompts and preview
// are optional.
func BundleAssets(result domain.AnalysisResult, prompts *Prompts, preview *Preview) ([]zip.Asset, error) {
	analysis, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	list := []zip.Asset{
		{Filename: SpecFile, MIME: "application/yaml", Data: []byte(result.YAML)},
		{Filename: AnalysisFile, MIME: "application/json", Data: analysis},
		{Filename: ImagePromptFile, MIME: "text/plain", Data: []byte(result.ImageGenerationPrompt)},
	}
	if prompts != nil && prompts.Full != "" {
		list = append(list, zip.Asset{Filename: HandoffFile, MIME: "text/markdown", Data: []byte(prompts.Full)})
	}
	if preview != nil && len(preview.Data) > 0 {
		list = append(list, zip.Asset{
			Filename: PreviewBase + Extension(preview.MIMEType, preview.Data),
			MIME:     preview.MIMEType,
			Data:     preview.Data,
		})
	}
	return list, nil
}

// Extension picks a file extension for an image, sniffing the bytes when
// the declared type is unknown.
func Extension(mimeType string, data []byte) string {
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	if ext := mimetype.Detect(data).Extension(); ext != "" {
		return ext
	}
	return ".png"
}
