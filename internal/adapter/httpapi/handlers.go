package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"goalhk/internal/application/port/input"
	"goalhk/internal/domain/entity"
	"goalhk/internal/domain/quoteparser"
)

type submitTaskRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"dueDate,omitempty"`
}

type selectModeRequest struct {
	ModeID string `json:"modeId"`
}

type selectProviderRequest struct {
	ProviderID string `json:"providerId"`
}

type selectBidRequest struct {
	BidID string `json:"bidId"`
}

type paymentRequest struct {
	Method entity.PaymentMethod `json:"method"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type bidJobRequest struct {
	Amount int `json:"amount"`
}

type textRequest struct {
	Text string `json:"text"`
}

type builderSubmitRequest struct {
	TaskID string `json:"taskId"`
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Suggestions())
}

func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Feed())
}

func (h *Handler) submitTask(w http.ResponseWriter, r *http.Request) {
	var req submitTaskRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.market.Submit(r.Context(), input.SubmitRequest{
		SessionID:   r.Header.Get(SessionHeader),
		Description: req.Description,
		DueDate:     due,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// parseDueDate accepts RFC 3339 timestamps or plain dates.
func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid dueDate %q", errBadRequest, s)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	view, err := h.market.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) clearTask(w http.ResponseWriter, r *http.Request) {
	if err := h.market.Clear(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) providers(w http.ResponseWriter, r *http.Request) {
	providers, err := h.market.Providers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, providers)
}

func (h *Handler) selectMode(w http.ResponseWriter, r *http.Request) {
	var req selectModeRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondView(w, r)(h.market.SelectMode(r.Context(), chi.URLParam(r, "id"), req.ModeID))
}

func (h *Handler) selectProvider(w http.ResponseWriter, r *http.Request) {
	var req selectProviderRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondView(w, r)(h.market.SelectProvider(r.Context(), chi.URLParam(r, "id"), req.ProviderID))
}

func (h *Handler) selectBid(w http.ResponseWriter, r *http.Request) {
	var req selectBidRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondView(w, r)(h.market.SelectBid(r.Context(), chi.URLParam(r, "id"), req.BidID))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, r)(h.market.Complete(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) respondView(w http.ResponseWriter, r *http.Request) func(*input.TaskView, error) {
	return func(view *input.TaskView, err error) {
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.market.Pay(r.Context(), chi.URLParam(r, "id"), req.Method)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	rev, err := h.market.Review(r.Context(), chi.URLParam(r, "id"), input.ReviewRequest{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.board.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) postJob(w http.ResponseWriter, r *http.Request) {
	var job entity.JobItem
	if err := decode(r, &job); err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.board.Post(r.Context(), job)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) acceptJob(w http.ResponseWriter, r *http.Request) {
	res, err := h.board.Accept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) bidJob(w http.ResponseWriter, r *http.Request) {
	var req bidJobRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.board.Bid(r.Context(), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.crm.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) builderState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.crm.BuilderState(r.Context()))
}

func (h *Handler) builderMessage(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	reply, err := h.crm.SendBuilderMessage(r.Context(), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *Handler) builderSubmit(w http.ResponseWriter, r *http.Request) {
	var req builderSubmitRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	quote, err := h.crm.SubmitBuilderQuote(r.Context(), req.TaskID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

func (h *Handler) parseQuoteItem(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.fail(w, r, fmt.Errorf("%w: text is required", errBadRequest))
		return
	}
	writeJSON(w, http.StatusOK, quoteparser.Parse(req.Text))
}
