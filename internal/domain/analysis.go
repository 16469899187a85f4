package domain

// Summary is the "visual DNA" extracted from a moodboard.
type Summary struct {
	MoodKeywords     []string `json:"mood_keywords"`
	PrimaryColors    []string `json:"primary_colors"`
	StyleDescription string   `json:"style_description"`
}

// AnalysisResult is the normalized output of one moodboard analysis. All
// fields are always populated.
type AnalysisResult struct {
	Summary               Summary `json:"summary"`
	YAML                  string  `json:"yaml"`
	ImageGenerationPrompt string  `json:"image_generation_prompt"`
}

const (
	DefaultStyleDescription      = "No summary available."
	DefaultImageGenerationPrompt = "Abstract geometric composition, high contrast, retro style."
	DefaultYAMLSpec              = "# Error: YAML field missing in response"
)
