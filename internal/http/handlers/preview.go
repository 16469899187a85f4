package handlers

import (
	"net/http"

	"moodspec/internal/domain"
)

type previewRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Medium string `json:"medium" validate:"required"`
}

type previewResponse struct {
	Image string `json:"image"`
}

func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	medium, err := domain.ParseMedium(req.Medium)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	credential, err := a.credential(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	image, err := a.Previewer.Generate(r.Context(), req.Prompt, medium, credential)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, previewResponse{Image: image})
}
