package domain

import (
	"errors"
	"testing"
)

func TestParseMedium(t *testing.T) {
	tests := []struct {
		in   string
		want Medium
	}{
		{in: "SLIDES", want: MediumSlides},
		{in: " slides ", want: MediumSlides},
		{in: "Web-App", want: MediumSaaS},
		{in: "spa", want: MediumSaaS},
		{in: "poster", want: MediumPoster},
		{in: "key_art", want: MediumPoster},
	}
	for _, tc := range tests {
		got, err := ParseMedium(tc.in)
		if err != nil {
			t.Fatalf("ParseMedium(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMedium(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMediumUnknown(t *testing.T) {
	_, err := ParseMedium("billboard")
	if !errors.Is(err, ErrUnknownMedium) {
		t.Fatalf("expected ErrUnknownMedium, got %v", err)
	}
}

func TestMediumAspectRatio(t *testing.T) {
	cases := map[Medium]string{
		MediumSlides: "16:9",
		MediumSaaS:   "3:4",
		MediumPoster: "3:4",
	}
	for m, want := range cases {
		if got := m.AspectRatio(); got != want {
			t.Fatalf("%s.AspectRatio() = %q, want %q", m, got, want)
		}
	}
}

func TestMediumTitle(t *testing.T) {
	if got := MediumSaaS.Title(); got != "Saas" {
		t.Fatalf("Title() = %q, want %q", got, "Saas")
	}
}
