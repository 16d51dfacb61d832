// Package logs provides the HTTP handler for retrieving archived alert logs.
package logs

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/red-maple-labs/proxherald/internal/logstore"
)

//go:embed templates/*
var templateFS embed.FS

// Response helpers (local to avoid import cycle)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	errCodeBadRequest    = "BAD_REQUEST"
	errCodeNotFound      = "NOT_FOUND"
	errCodeInternalError = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

// Fetcher reads the full text of one archived log entry.
type Fetcher interface {
	Fetch(id string) (string, error)
}

// Handler handles GET /api/logs/{id}.
type Handler struct {
	store  Fetcher
	viewer *template.Template
}

// NewHandler creates a logs handler with the embedded viewer template.
func NewHandler(store Fetcher) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/log_viewer.html")
	if err != nil {
		return nil, err
	}
	return &Handler{store: store, viewer: tmpl}, nil
}

// viewerData is the template context for the HTML log viewer.
type viewerData struct {
	LogID   string
	Content string
}

// Get returns the raw text of a stored log entry. Browsers negotiating
// text/html get an escaped dark-mode viewer page instead of plain text.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	text, err := h.store.Fetch(id)
	if err != nil {
		switch {
		case errors.Is(err, logstore.ErrInvalidID):
			jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid log ID format")
		case errors.Is(err, logstore.ErrNotFound):
			jsonError(w, http.StatusNotFound, errCodeNotFound, "log not found")
		default:
			log.Printf("logs: fetch %s: %v", id, err)
			jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		}
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.viewer.Execute(w, viewerData{LogID: id, Content: text}); err != nil {
			log.Printf("logs: render viewer for %s: %v", id, err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text))
}
