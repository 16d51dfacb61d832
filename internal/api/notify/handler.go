// Package notify provides the HTTP handler for inbound alert notifications.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/red-maple-labs/proxherald/internal/alert"
	"github.com/red-maple-labs/proxherald/internal/discord"
	"github.com/red-maple-labs/proxherald/internal/metrics"
)

// Response helpers (local to avoid import cycle)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type dataResponse struct {
	Data any `json:"data"`
}

// Error codes
const (
	errCodeBadRequest       = "BAD_REQUEST"
	errCodeValidationFailed = "VALIDATION_FAILED"
	errCodeInternalError    = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// maxBodySize bounds the raw request body. The message limit applies to the
// decoded text; JSON escaping can inflate it up to six bytes per input byte
// on the wire (\uXXXX), so the body bound leaves room for a fully escaped
// maximum-size message plus the remaining fields.
const maxBodySize = 6*alert.MaxMessageSize + 64*1024

// Archive persists raw alert text and returns the entry identifier.
type Archive interface {
	Persist(text string) (string, error)
}

// Deliverer sends a built payload to a webhook and reports the HTTP status.
type Deliverer interface {
	Deliver(ctx context.Context, webhookURL string, msg discord.Message) (int, error)
}

// Handler handles POST /api/notify.
type Handler struct {
	archive        Archive
	deliverer      Deliverer
	defaultWebhook string
	baseURL        string
}

// NewHandler creates a notify handler. defaultWebhook and baseURL may be
// empty; a missing webhook is rejected per request, and a missing base URL
// derives retrieval links from the inbound request.
func NewHandler(archive Archive, deliverer Deliverer, defaultWebhook, baseURL string) *Handler {
	return &Handler{
		archive:        archive,
		deliverer:      deliverer,
		defaultWebhook: defaultWebhook,
		baseURL:        baseURL,
	}
}

// NotifyResponse is returned on successful archival. A 200 response means
// the alert text was archived; delivery_status carries the Discord status
// code (0 on transport failure) for the caller to interpret.
type NotifyResponse struct {
	RetrievalURL   string `json:"retrieval_url"`
	DeliveryStatus int    `json:"delivery_status"`
	Delivered      bool   `json:"delivered"`
}

// Notify handles POST /api/notify: validate, archive, then forward to Discord.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var record alert.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, http.StatusBadRequest, errCodeValidationFailed, "request body too large")
			return
		}
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, "invalid request body")
		return
	}

	if err := record.Validate(); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	webhookURL := record.WebhookURL
	if webhookURL == "" {
		webhookURL = h.defaultWebhook
	}
	if webhookURL == "" {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest,
			"Discord webhook URL must be provided in the request payload or server configuration")
		return
	}
	if err := discord.ValidateWebhookURL(webhookURL); err != nil {
		jsonError(w, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}

	id, err := h.archive.Persist(record.Message)
	if err != nil {
		log.Printf("notify: persist alert log: %v", err)
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	logURL := h.retrievalURL(r, id)
	msg := discord.BuildMessage(&record, logURL, time.Now())

	status, err := h.deliverer.Deliver(r.Context(), webhookURL, msg)
	if err != nil {
		// Transport failure: the log is archived regardless, so the caller
		// still gets a 200 with a zero delivery status.
		log.Printf("notify: deliver to webhook: %v", err)
		metrics.NotificationsTotal.WithLabelValues("transport_error").Inc()
		status = 0
	} else {
		metrics.NotificationsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	}

	jsonOK(w, &NotifyResponse{
		RetrievalURL:   logURL,
		DeliveryStatus: status,
		Delivered:      status >= 200 && status < 300,
	})
}

// retrievalURL builds the externally visible URL for a stored log entry.
// The configured base URL wins; otherwise the inbound request's own
// scheme and host are used.
func (h *Handler) retrievalURL(r *http.Request, id string) string {
	if h.baseURL != "" {
		return strings.TrimRight(h.baseURL, "/") + "/api/logs/" + id
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/api/logs/" + id
}
