package handlers

import (
	"net/http"

	"moodspec/internal/infra/credentials"
)

type healthResponse struct {
	Status     string             `json:"status"`
	Credential credentials.Source `json:"credential"`
}

// Health reports liveness and where a key would come from. A failing key
// store does not make the bridge unhealthy.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Credential: credentials.SourceNone}
	if a.Keys != nil {
		if _, source, err := a.Keys.Resolve(r.Context()); err == nil {
			resp.Credential = source
		} else {
			a.Logger.Warn().Err(err).Msg("health: credential lookup failed")
		}
	}
	a.json(w, http.StatusOK, resp)
}
