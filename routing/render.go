// Copyright (c) 2025 Routewire Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package routing

import (
	"html/template"
	"net/http"
)

// Renderer renders named views for routes declaring a view instead of an
// action. Template engines are external collaborators; [TemplateRenderer]
// covers the html/template case.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, view string) error
}

// RendererFunc is an adapter to allow ordinary functions to be used
// as [Renderer]s.
type RendererFunc func(http.ResponseWriter, *http.Request, string) error

// Render implements the [Renderer] interface.
func (f RendererFunc) Render(w http.ResponseWriter, r *http.Request, view string) error {
	return f(w, r, view)
}

// TemplateRenderer is a [Renderer] backed by a [template.Template] set.
// Views resolve to templates by name.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer initializes a [TemplateRenderer].
func NewTemplateRenderer(tmpl *template.Template) *TemplateRenderer {
	return &TemplateRenderer{
		tmpl: tmpl,
	}
}

// Render implements the [Renderer] interface.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, r *http.Request, view string) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tr.tmpl.ExecuteTemplate(w, view, nil)
}

func renderUnit(renderer Renderer, view string) HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		return renderer.Render(w, r, view)
	}
}
