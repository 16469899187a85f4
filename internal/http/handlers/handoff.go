package handlers

import (
	"fmt"
	"net/http"

	"moodspec/internal/domain"
	"moodspec/internal/handoff"
	"moodspec/internal/providers/gemini"
	"moodspec/pkg/zip"
)

type handoffRequest struct {
	Medium string                `json:"medium" validate:"required"`
	Result domain.AnalysisResult `json:"result"`
}

type bundleRequest struct {
	Medium string                `json:"medium" validate:"required"`
	Result domain.AnalysisResult `json:"result"`
	// Image is an optional preview data URI.
	Image string `json:"image" validate:"omitempty,datauri"`
}

func (a *App) HandoffPrompts(w http.ResponseWriter, r *http.Request) {
	var req handoffRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	prompts, err := a.prompts(req.Medium, req.Result)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, prompts)
}

// Bundle returns a zip with the spec, the analysis, the handoff prompt and
// the preview image when one is supplied.
func (a *App) Bundle(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	prompts, err := a.prompts(req.Medium, req.Result)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var preview *handoff.Preview
	if req.Image != "" {
		mimeType, data, err := gemini.DecodeDataURI(req.Image)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid image data uri")
			return
		}
		preview = &handoff.Preview{MIMEType: mimeType, Data: data}
	}
	list, err := handoff.BundleAssets(req.Result, prompts, preview)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	archive, err := zip.ArchiveAssets(list)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="moodspec-%s.zip"`, prompts.Medium.Title()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) prompts(rawMedium string, result domain.AnalysisResult) (*handoff.Prompts, error) {
	medium, err := domain.ParseMedium(rawMedium)
	if err != nil {
		return nil, err
	}
	return a.Builder.Build(medium, result)
}
