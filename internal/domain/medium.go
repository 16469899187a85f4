package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Medium is the target output context a moodboard is analysed for.
type Medium string

const (
	MediumSlides Medium = "SLIDES"
	MediumSaaS   Medium = "SAAS"
	MediumPoster Medium = "POSTER"
)

const (
	// AspectRatioWide is used for slide previews.
	AspectRatioWide = "16:9"
	// AspectRatioPortrait is used for every other medium.
	AspectRatioPortrait = "3:4"
)

// Mediums lists the supported media in display order.
var Mediums = []Medium{MediumSlides, MediumSaaS, MediumPoster}

var mediumAliases = map[string]Medium{
	"slides": MediumSlides,
	"slide":  MediumSlides,
	"deck":   MediumSlides,
	"saas":   MediumSaaS,
	"spa":    MediumSaaS,
	"web":    MediumSaaS,
	"webapp": MediumSaaS,
	"poster": MediumPoster,
	"visual": MediumPoster,
	"keyart": MediumPoster,
}

// ParseMedium sanitizes free-form input into a supported medium.
func ParseMedium(raw string) (Medium, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	if m, ok := mediumAliases[key]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMedium, raw)
}

// Valid reports whether m is one of the closed set of media.
func (m Medium) Valid() bool {
	switch m {
	case MediumSlides, MediumSaaS, MediumPoster:
		return true
	default:
		return false
	}
}

// AspectRatio returns the preview aspect ratio for the medium.
func (m Medium) AspectRatio() string {
	if m == MediumSlides {
		return AspectRatioWide
	}
	return AspectRatioPortrait
}

// PromptLabel is the wording used when the medium is named in model instructions.
func (m Medium) PromptLabel() string {
	switch m {
	case MediumSlides:
		return "Presentation / Slides"
	case MediumSaaS:
		return "SPA / SaaS / Web UI"
	case MediumPoster:
		return "Poster / Key Visual"
	default:
		return string(m)
	}
}

// Title renders the medium for humans, e.g. "Saas".
func (m Medium) Title() string {
	return cases.Title(language.Und).String(strings.ToLower(string(m)))
}

func (m Medium) String() string {
	return string(m)
}
