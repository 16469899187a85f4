package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredential = errors.New("api key is missing")
	ErrEmptyInput        = errors.New("no assets provided for analysis")
	ErrUnknownMedium     = errors.New("unknown target medium")
	ErrAssetUnreadable   = errors.New("asset unreadable")
	ErrUpstream          = errors.New("generation request failed")
	ErrEmptyResponse     = errors.New("empty response from model")
	ErrMalformedResponse = errors.New("model output was not valid json")
	ErrGenerationFailed  = errors.New("image generation failed")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrEmptyPrompt       = errors.New("prompt is empty")
)

// MalformedResponseError keeps the raw model output of an unparseable reply.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return ErrMalformedResponse.Error()
	}
	return fmt.Sprintf("%s: %v", ErrMalformedResponse, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// TierFailure records why one preview backend did not produce an image.
type TierFailure struct {
	Tier  string
	Model string
	Err   error
}

// PreviewError is returned when every preview tier failed.
type PreviewError struct {
	Permission bool
	Attempts   []TierFailure
}

func (e *PreviewError) Error() string {
	msg := "Image generation failed."
	if e.Permission {
		return msg + " (Permission Denied: Please check if your API Key supports the selected model)."
	}
	details := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		details = append(details, fmt.Sprintf("%s Error: %v", a.Tier, a.Err))
	}
	if len(details) == 0 {
		return msg
	}
	return msg + " " + strings.Join(details, ". ")
}

func (e *PreviewError) Unwrap() []error {
	errs := []error{ErrGenerationFailed}
	if e.Permission {
		errs = append(errs, ErrPermissionDenied)
	}
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
