package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"incordes-client/internal/chat"
	"incordes-client/internal/models"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = []string{"login", "app", "loading", "privacy", "terms", "notfound"}

func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"initials": chat.Initials,
		"ago":      chat.Ago,
		"picture":  func(s models.Server) string { return s.Picture() },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", fmt.Sprintf("templates/%s.html", page))
		if err != nil {
			return nil, err
		}
		templates[page] = t
	}
	return templates, nil
}

// page is what every template receives.
type page struct {
	Title       string
	Theme       string
	Error       string
	Success     string
	AutoDismiss int
	Now         time.Time
	Data        any
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, p page) {
	t, ok := h.templates[name]
	if !ok {
		h.sugar.Errorf("Template [%s] not found", name)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if p.Now.IsZero() {
		p.Now = h.now()
	}
	if p.Theme == "" {
		p.Theme = "dark"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		h.sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		h.sugar.Debug(err)
	}
}
