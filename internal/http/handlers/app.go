package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"moodspec/internal/domain"
	"moodspec/internal/handoff"
	"moodspec/internal/infra"
	"moodspec/internal/infra/credentials"
)

// CredentialHeader lets the UI send the key it holds with each request.
const CredentialHeader = "X-Goog-Api-Key"

const maxRawInError = 2048

type Analyzer interface {
	Analyze(ctx context.Context, list []domain.VisualAsset, medium domain.Medium, credential string) (*domain.AnalysisResult, error)
}

type PreviewGenerator interface {
	Generate(ctx context.Context, prompt string, medium domain.Medium, credential string) (string, error)
}

type HandoffBuilder interface {
	Build(medium domain.Medium, result domain.AnalysisResult) (*handoff.Prompts, error)
}

type KeyResolver interface {
	Resolve(ctx context.Context) (string, credentials.Source, error)
	Store() credentials.KeyStore
}

// App carries the collaborators the HTTP handlers need.
type App struct {
	Analyzer       Analyzer
	Previewer      PreviewGenerator
	Builder        HandoffBuilder
	Keys           KeyResolver
	Logger         *infra.Logger
	MaxUploadBytes int64

	validate *validator.Validate
}

func NewApp(analyzer Analyzer, previewer PreviewGenerator, builder HandoffBuilder, keys KeyResolver, logger *infra.Logger) *App {
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &App{
		Analyzer:       analyzer,
		Previewer:      previewer,
		Builder:        builder,
		Keys:           keys,
		Logger:         logger,
		MaxUploadBytes: 64 << 20,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Raw     string `json:"raw,omitempty"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// fail maps orchestration errors onto HTTP statuses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var malformed *domain.MalformedResponseError
	var previewErr *domain.PreviewError
	body := errorBody{Message: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		status, body.Code = http.StatusUnauthorized, "missing_credential"
	case errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrUnknownMedium),
		errors.Is(err, domain.ErrEmptyPrompt):
		status, body.Code = http.StatusBadRequest, "bad_request"
	case errors.As(err, &malformed):
		status, body.Code = http.StatusBadGateway, "malformed_response"
		body.Raw = truncate(malformed.Raw, maxRawInError)
	case errors.Is(err, domain.ErrEmptyResponse):
		status, body.Code = http.StatusBadGateway, "empty_response"
	case errors.As(err, &previewErr):
		status, body.Code = http.StatusBadGateway, "generation_failed"
		if previewErr.Permission {
			status, body.Code = http.StatusForbidden, "permission_denied"
		}
	case errors.Is(err, context.DeadlineExceeded):
		status, body.Code = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, domain.ErrUpstream):
		status, body.Code = http.StatusBadGateway, "upstream_error"
	default:
		status, body.Code = http.StatusInternalServerError, "internal"
		body.Message = "internal error"
	}
	event := a.Logger.Warn()
	if status >= http.StatusInternalServerError {
		event = a.Logger.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	a.json(w, status, map[string]errorBody{"error": body})
}

// credential prefers the key sent by the UI over the resolved one.
func (a *App) credential(r *http.Request) (string, error) {
	if key := strings.TrimSpace(r.Header.Get(CredentialHeader)); key != "" {
		return key, nil
	}
	if a.Keys == nil {
		return "", nil
	}
	key, _, err := a.Keys.Resolve(r.Context())
	return key, err
}

func (a *App) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return a.validate.Struct(dst)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
