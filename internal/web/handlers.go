package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/basel-ax/archrender/internal/domain"
	"github.com/basel-ax/archrender/internal/service"
)

// App serves the browser UI
type App struct {
	Sessions       *service.Registry
	Log            zerolog.Logger
	MaxUploadBytes int64
}

// Index renders the page for the caller's session
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	st := sessionFrom(r.Context()).Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, newPageData(st)); err != nil {
		a.Log.Error().Err(err).Msg("failed to render page")
	}
}

// SetImage replaces the selected image; an empty file field clears it
func (a *App) SetImage(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	img, err := imageFromForm(r)
	if err != nil {
		http.Error(w, "invalid image", http.StatusBadRequest)
		return
	}
	sessionFrom(r.Context()).SetImage(img)
	redirectHome(w, r)
}

// SetPrompt replaces the prompt text
func (a *App) SetPrompt(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sessionFrom(r.Context()).SetPrompt(r.FormValue("prompt"))
	redirectHome(w, r)
}

// SetPreset replaces the selected preset
func (a *App) SetPreset(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sessionFrom(r.Context()).SetPreset(domain.Preset(r.FormValue("preset")))
	redirectHome(w, r)
}

// Generate applies any inputs submitted with the form, then starts the
// generate action in the background and returns at once. The action is
// detached from the request so a closed tab does not cancel it; the page
// polls /state until it finishes.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if err := a.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sess := sessionFrom(r.Context())

	if r.MultipartForm != nil && len(r.MultipartForm.File["image"]) > 0 {
		img, err := imageFromForm(r)
		if err != nil {
			http.Error(w, "invalid image", http.StatusBadRequest)
			return
		}
		sess.SetImage(img)
	}
	if _, ok := r.Form["prompt"]; ok {
		sess.SetPrompt(r.FormValue("prompt"))
	}
	if _, ok := r.Form["preset"]; ok {
		sess.SetPreset(domain.Preset(r.FormValue("preset")))
	}

	// Blocked and failed actions are reported through the session notice.
	_, _ = sess.Start(context.WithoutCancel(r.Context()))

	if wantsJSON(r) {
		a.writeState(w, r, sess.Snapshot())
		return
	}
	redirectHome(w, r)
}

// Blob serves a live result blob of the caller's session
func (a *App) Blob(w http.ResponseWriter, r *http.Request) {
	b, err := sessionFrom(r.Context()).Blob(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	contentType := b.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(b.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(b.Data)
}

// State returns the session snapshot as JSON, or YAML with ?format=yaml
func (a *App) State(w http.ResponseWriter, r *http.Request) {
	a.writeState(w, r, sessionFrom(r.Context()).Snapshot())
}

// Health reports liveness
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (a *App) writeState(w http.ResponseWriter, r *http.Request, st domain.SessionState) {
	if r.URL.Query().Get("format") == "yaml" {
		data, err := yaml.Marshal(st)
		if err != nil {
			http.Error(w, "failed to encode state", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

func (a *App) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	err := r.ParseMultipartForm(a.MaxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// imageFromForm reads the "image" file field. An empty field clears the
// selection, as cancelling a file picker does.
func imageFromForm(r *http.Request) (*domain.ImageSelection, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if header.Filename == "" && len(data) == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &domain.ImageSelection{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func wantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") != "" || r.Header.Get("Accept") == "application/json"
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
