// Package web exposes the application service as a JSON API over chi.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"salesflow/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc          app.ApplicationService
	router       chi.Router
	jwtSecret    string
	cookieSecure bool
	log          *logrus.Logger
}

// NewHandler creates and wires the chi router with all routes.
// cookieSecure controls the Secure attribute of the auth cookie; turn it
// off only for plain-HTTP local development.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string, cookieSecure bool, log *logrus.Logger) http.Handler {
	if log == nil {
		log = logrus.New()
	}
	h := &Handler{
		svc:          svc,
		jwtSecret:    jwtSecret,
		cookieSecure: cookieSecure,
		log:          log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(log))
	r.Use(Recoverer(log))
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected (401 JSON if unauthenticated) ───────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)
		r.Post("/api/auth/persona", h.selectPersona)

		r.Get("/api/catalog", h.catalog)
		r.Post("/api/schedule/preview", h.previewSchedule)
		r.Post("/api/sales", h.commitSale)
		r.Post("/api/sales/{id}/payments", h.recordPayment)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
