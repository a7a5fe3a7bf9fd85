// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages with
// their layout, flash message and signed-in identity.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/greenpadconcepts/greenpad/internal/auth"
	"github.com/greenpadconcepts/greenpad/internal/middleware"
	"github.com/greenpadconcepts/greenpad/internal/session"
)

// Page groups. Each group is parsed with its own layout.
var layouts = map[string]string{
	"public": "layouts/public.html",
	"admin":  "layouts/admin.html",
	"auth":   "layouts/auth.html",
}

// Renderer executes cached templates.
type Renderer struct {
	templates map[string]*template.Template
	sessions  *session.Manager
	site      Site
}

// Site holds values every page can show.
type Site struct {
	Name            string
	PaystackEnabled bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Sessions    *session.Manager
	Site        Site
}

// TemplateData is passed to every template.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	CurrentPath string
	Identity    *auth.Identity
	Site        Site
}

// New parses all templates from cfg.TemplatesFS.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		sessions:  cfg.Sessions,
		site:      cfg.Site,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("listing partials: %w", err)
	}

	for group, layout := range layouts {
		pages, err := templateFiles(templatesFS, group)
		if err != nil {
			return fmt.Errorf("listing %s templates: %w", group, err)
		}

		for _, page := range pages {
			name := group + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{layout}, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns the .html files directly inside dir.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template called name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes template name into a buffer and writes it with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path
	data.Site = r.site
	if id, ok := middleware.GetIdentity(req); ok {
		data.Identity = &id
	}

	if r.sessions != nil && data.Flash == "" {
		data.Flash, data.FlashType = r.sessions.PopFlash(req.Context())
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// SetFlash stores a flash message for the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessions != nil {
		r.sessions.SetFlash(req.Context(), message, flashType)
	}
}
