// Package handoff builds the prompts a user pastes into downstream tools
// (NotebookLM for decks, a coding assistant for web apps) from an analysis.
package handoff

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"moodspec/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFiles = map[domain.Medium]string{
	domain.MediumSlides: "templates/slides.tmpl",
	domain.MediumSaaS:   "templates/saas.tmpl",
}

// Prompts is everything the result view offers for copying.
type Prompts struct {
	Medium      domain.Medium `json:"medium"`
	ImagePrompt string        `json:"image_prompt"`
	YAML        string        `json:"yaml"`
	// Instruction and Full are empty for media without a downstream tool.
	Instruction string `json:"instruction,omitempty"`
	Full        string `json:"full,omitempty"`
}

type templateData struct {
	StyleDescription string
	Keywords         string
}

type Builder struct {
	templates map[domain.Medium]*template.Template
}

func NewBuilder() (*Builder, error) {
	parsed := make(map[domain.Medium]*template.Template, len(templateFiles))
	for medium, file := range templateFiles {
		tmpl, err := template.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse handoff template %s: %w", file, err)
		}
		parsed[medium] = tmpl
	}
	return &Builder{templates: parsed}, nil
}

// Build renders the handoff prompts for medium.
func (b *Builder) Build(medium domain.Medium, result domain.AnalysisResult) (*Prompts, error) {
	if !medium.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMedium, medium)
	}
	out := &Prompts{
		Medium:      medium,
		ImagePrompt: result.ImageGenerationPrompt,
		YAML:        result.YAML,
	}
	tmpl, ok := b.templates[medium]
	if !ok {
		return out, nil
	}

	data := templateData{
		StyleDescription: result.Summary.StyleDescription,
		Keywords:         strings.Join(result.Summary.MoodKeywords, ", "),
	}
	instruction, err := execute(tmpl, "instruction", data)
	if err != nil {
		return nil, err
	}
	appendix, err := execute(tmpl, "appendix", data)
	if err != nil {
		return nil, err
	}
	out.Instruction = instruction
	out.Full = instruction + "\n\n" + appendix + "\n```yaml\n" + result.YAML + "\n```\n"
	return out, nil
}

func execute(tmpl *template.Template, name string, data templateData) (string, error) {
	var sb strings.Builder
	if err := tmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render handoff %s: %w", name, err)
	}
	return sb.String(), nil
}
