// Package handler contains the HTTP request handlers: thin glue that parses
// requests, calls services, and writes HTML pages or JSON responses.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/sakif/schedule-arranger/internal/apperror"
)

// pageFiles lists every page template. Each defines a "content" block that
// base.html pulls in — Go's template composition model, similar to layout
// inheritance in other template engines.
var pageFiles = []string{
	"index.html",
	"login.html",
	"new.html",
	"schedule.html",
	"edit.html",
	"error.html",
}

// Renderer holds the parsed templates, one set per page.
//
// Each page is parsed together with base.html so they can reference each
// other, but pages are kept in separate template sets — they all define the
// same "content" block and would clobber one another in a single set.
// Parsing happens once at startup; rendering is cheap.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses all page templates from templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, name),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes the named page template into the response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// Status is already on the wire; log and stop.
		rd.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// RenderError maps a domain error onto the error page.
//
// Messages are user-facing Japanese, like the rest of the UI. Internal
// failures render a generic message — details stay in the server log.
func (rd *Renderer) RenderError(w http.ResponseWriter, err error) {
	status, _ := httpStatus(err)

	message := "サーバーエラーが発生しました"
	switch status {
	case http.StatusNotFound:
		message = "指定された予定は見つかりません"
	case http.StatusBadRequest:
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		} else {
			message = "リクエストが正しくありません"
		}
	}

	rd.Render(w, status, "error.html", map[string]any{
		"Title":   "エラー",
		"Message": message,
		"Status":  status,
	})
}
