package handler

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/YamanTakala/Cars-Seller/internal/session"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// View is the envelope every page template receives.
type View struct {
	Title   string
	User    *session.Identity
	Flashes []session.Flash
	Data    any
}

// Renderer renders page templates into the shared layout.
type Renderer struct {
	templates map[string]*template.Template
	logger    *zap.Logger
}

var pageTemplates = []string{
	"home", "search", "cars_index", "car_show", "car_new", "car_edit",
	"login", "register", "profile", "profile_edit", "user_show",
	"about", "contact", "error", "not_found",
}

func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		t, err := template.ParseFS(templateFS,
			"templates/layout.gohtml",
			fmt.Sprintf("templates/%s.gohtml", name),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return &Renderer{templates: templates, logger: logger.Named("Renderer")}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, status int, name string, view View) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("Unknown template", zap.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", view); err != nil {
		r.logger.Error("Template execution failed", zap.String("template", name), zap.Error(err))
	}
}
