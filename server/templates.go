package server

import (
	"embed"
	"html/template"
	"net/http"

	"wavelib/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// render writes a named template as an HTML response. Template errors at
// this point are programming errors; they are logged and the partial output
// is left as-is rather than crashing the worker.
func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Error("Template render failed", logger.String("template", name), logger.ErrorField(err))
	}
}
