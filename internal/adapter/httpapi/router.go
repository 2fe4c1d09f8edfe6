// Package httpapi exposes the marketplace, job board and CRM over JSON/HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

const SessionHeader = "X-Session-ID"

type Catalog interface {
	Suggestions() []entity.Suggestion
	Feed() []entity.FeedItem
}

type Config struct {
	RequestTimeout time.Duration
	JSONLogs       bool
	// Quiet disables request logging, mostly for tests.
	Quiet bool
}

type Handler struct {
	market  input.Marketplace
	board   input.JobBoard
	crm     input.CRM
	catalog Catalog
	logger  output.LoggerPort
}

func NewHandler(market input.Marketplace, board input.JobBoard, crm input.CRM, catalog Catalog, logger output.LoggerPort) *Handler {
	return &Handler{
		market:  market,
		board:   board,
		crm:     crm,
		catalog: catalog,
		logger:  logger,
	}
}

func (h *Handler) Router(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !cfg.Quiet {
		r.Use(httplog.RequestLogger(httplog.NewLogger("goalhk", httplog.Options{
			JSON:    cfg.JSONLogs,
			Concise: true,
		})))
	}
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/suggestions", h.suggestions)
		r.Get("/catalog/feed", h.feed)

		r.Post("/tasks", h.submitTask)
		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Get("/", h.getTask)
			r.Delete("/", h.clearTask)
			r.Get("/providers", h.providers)
			r.Post("/mode", h.selectMode)
			r.Post("/provider", h.selectProvider)
			r.Post("/bid", h.selectBid)
			r.Post("/payment", h.pay)
			r.Post("/complete", h.complete)
			r.Post("/review", h.review)
		})

		r.Get("/jobs", h.listJobs)
		r.Post("/jobs", h.postJob)
		r.Post("/jobs/{id}/accept", h.acceptJob)
		r.Post("/jobs/{id}/bid", h.bidJob)

		r.Get("/crm/dashboard", h.dashboard)
		r.Get("/crm/quote-builder", h.builderState)
		r.Post("/crm/quote-builder/messages", h.builderMessage)
		r.Post("/crm/quote-builder/submit", h.builderSubmit)

		r.Post("/quote-items/parse", h.parseQuoteItem)
	})

	return r
}
