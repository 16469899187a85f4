package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"moodspec/internal/domain"
	"moodspec/internal/storage"
)

const multipartMemory = 8 << 20

// Analyze accepts a multipart form with a medium, any number of "file"
// parts and any number of "url" values. Files come before URLs in the
// moodboard, each group in submission order.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "expected multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	medium, err := domain.ParseMedium(r.FormValue("medium"))
	if err != nil {
		a.fail(w, r, err)
		return
	}

	spool, err := storage.NewTempStore("moodspec-upload-*")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	defer func() {
		if err := spool.Remove(); err != nil {
			a.Logger.Warn().Err(err).Str("dir", spool.BasePath()).Msg("could not remove upload spool")
		}
	}()

	list, err := a.spoolFiles(r, spool, r.MultipartForm.File["file"])
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	for _, raw := range r.MultipartForm.Value["url"] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if err := a.validate.Var(raw, "http_url"); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid url %q", raw))
			return
		}
		list = append(list, domain.NewURLAsset(raw))
	}

	credential, err := a.credential(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	result, err := a.Analyzer.Analyze(r.Context(), list, medium, credential)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

func (a *App) spoolFiles(r *http.Request, spool *storage.FileStore, files []*multipart.FileHeader) ([]domain.VisualAsset, error) {
	list := make([]domain.VisualAsset, 0, len(files))
	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
		}
		key := fmt.Sprintf("%03d%s", i, strings.ToLower(filepath.Ext(filepath.Base(fh.Filename))))
		path, err := spool.WriteFrom(r.Context(), key, src, -1)
		_ = src.Close()
		if err != nil {
			return nil, fmt.Errorf("spool upload %q: %w", fh.Filename, err)
		}
		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "application/octet-stream" {
			mimeType = ""
		}
		list = append(list, domain.NewFileAsset(path, mimeType))
	}
	return list, nil
}
