package handoff

import (
	"errors"
	"strings"
	"testing"

	"moodspec/internal/domain"
)

func sampleResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Summary: domain.Summary{
			MoodKeywords:     []string{"Retro", "Bold"},
			PrimaryColors:    []string{"#000000"},
			StyleDescription: "Loud constructivist posters.",
		},
		YAML:                  "design_specification:\n  meta: {}",
		ImageGenerationPrompt: "A bold title slide",
	}
}

func TestBuildSlides(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	p, err := b.Build(domain.MediumSlides, sampleResult())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(p.Instruction, "指令：") {
		t.Fatalf("unexpected instruction start: %q", p.Instruction)
	}
	if !strings.Contains(p.Instruction, `"Loud constructivist posters."`) || !strings.Contains(p.Instruction, "關鍵字：Retro, Bold。") {
		t.Fatalf("instruction does not carry the summary:\n%s", p.Instruction)
	}
	if strings.HasSuffix(p.Instruction, "\n") {
		t.Fatalf("instruction should not end with a newline")
	}
	wantTail := "附錄：[YAML Design Specification]\n```yaml\ndesign_specification:\n  meta: {}\n```\n"
	if !strings.HasPrefix(p.Full, p.Instruction+"\n\n") || !strings.HasSuffix(p.Full, wantTail) {
		t.Fatalf("full prompt malformed:\n%s", p.Full)
	}
	if p.ImagePrompt != "A bold title slide" {
		t.Fatalf("image prompt = %q", p.ImagePrompt)
	}
}

func TestBuildSaaS(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	p, err := b.Build(domain.MediumSaaS, sampleResult())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(p.Instruction, "Role: Senior Frontend Engineer") {
		t.Fatalf("unexpected instruction: %q", p.Instruction)
	}
	if !strings.Contains(p.Instruction, "mood keywords: [Retro, Bold]") {
		t.Fatalf("keywords missing:\n%s", p.Instruction)
	}
	if !strings.Contains(p.Full, "[Design Specification - YAML Source]\n```yaml\n") {
		t.Fatalf("appendix missing:\n%s", p.Full)
	}
}

func TestBuildPosterHasNoDownstreamInstruction(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	p, err := b.Build(domain.MediumPoster, sampleResult())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Instruction != "" || p.Full != "" {
		t.Fatalf("poster should only carry the image prompt, got %+v", p)
	}
	if p.ImagePrompt == "" || p.YAML == "" {
		t.Fatalf("image prompt and yaml must be present")
	}
}

func TestBuildUnknownMedium(t *testing.T) {
	b, err := NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if _, err := b.Build(domain.Medium("VIDEO"), sampleResult()); !errors.Is(err, domain.ErrUnknownMedium) {
		t.Fatalf("expected ErrUnknownMedium, got %v", err)
	}
}
