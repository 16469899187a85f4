package handlers

import (
	"net/http"

	"moodspec/internal/infra/credentials"
)

type credentialStatus struct {
	Configured bool               `json:"configured"`
	Source     credentials.Source `json:"source"`
	StorageKey string             `json:"storage_key"`
}

type credentialRequest struct {
	APIKey string `json:"api_key" validate:"required,printascii"`
}

// CredentialStatus reports where the key would come from; it never returns
// the key itself.
func (a *App) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	status := credentialStatus{Source: credentials.SourceNone, StorageKey: credentials.StorageKey}
	if a.Keys != nil {
		key, source, err := a.Keys.Resolve(r.Context())
		if err != nil {
			a.fail(w, r, err)
			return
		}
		status.Configured = key != ""
		status.Source = source
	}
	a.json(w, http.StatusOK, status)
}

func (a *App) CredentialSet(w http.ResponseWriter, r *http.Request) {
	store := a.keyStore()
	if store == nil {
		a.error(w, http.StatusServiceUnavailable, "no_store", "no credential store configured")
		return
	}
	var req credentialRequest
	if err := a.decode(r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "api_key required")
		return
	}
	if err := store.SetUserKey(r.Context(), req.APIKey); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) CredentialDelete(w http.ResponseWriter, r *http.Request) {
	store := a.keyStore()
	if store == nil {
		a.error(w, http.StatusServiceUnavailable, "no_store", "no credential store configured")
		return
	}
	if err := store.DeleteUserKey(r.Context()); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) keyStore() credentials.KeyStore {
	if a.Keys == nil {
		return nil
	}
	return a.Keys.Store()
}
