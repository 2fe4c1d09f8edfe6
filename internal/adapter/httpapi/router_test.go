package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goalhk/internal/application/port/input"
	"goalhk/internal/domain/entity"
	"goalhk/internal/infrastructure/logger"
	"goalhk/internal/infrastructure/simulation"
	"goalhk/internal/infrastructure/storage/memory"
	"goalhk/internal/usecase/assistant"
	"goalhk/internal/usecase/bidding"
	"goalhk/internal/usecase/catalog"
	"goalhk/internal/usecase/crm"
	"goalhk/internal/usecase/jobboard"
	"goalhk/internal/usecase/marketplace"
	"goalhk/internal/usecase/matching"
	"goalhk/internal/usecase/quoting"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logger.NewNop()
	tasks := memory.NewTaskStore()

	market := marketplace.New(marketplace.Deps{
		Analyzer: assistant.New(nil, log, assistant.DefaultConfig()),
		Matcher:  matching.New(rand.New(rand.NewSource(1))),
		Quotes:   quoting.New(),
		Bids:     bidding.NewCollector(simulation.DefaultBidSources(0), time.Second, log),
		Payments: simulation.NewPaymentGateway(0),
		Tasks:    tasks,
		Reviews:  memory.NewReviewStore(),
		Logger:   log,
	})
	board := jobboard.New(memory.NewJobStore(jobboard.SeedJobs()...), log)

	h := NewHandler(market, board, crm.New(tasks, log), catalog.New(), log)
	srv := httptest.NewServer(h.Router(Config{RequestTimeout: 5 * time.Second, Quiet: true}))
	t.Cleanup(func() {
		srv.Close()
		market.Close()
	})
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, "test-session")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestCatalog(t *testing.T) {
	srv := newTestServer(t)

	var suggestions []entity.Suggestion
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/catalog/suggestions", nil, &suggestions))
	assert.Len(t, suggestions, 5)

	var feed []entity.FeedItem
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/catalog/feed", nil, &feed))
	assert.Len(t, feed, 5)
}

func TestTaskFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var view input.TaskView
	status := do(t, srv, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "爆水管", "dueDate": "2026-11-01"}, &view)
	require.Equal(t, http.StatusCreated, status)
	id := view.Task.ID
	require.NotEmpty(t, id)
	require.NotNil(t, view.Task.DueDate)
	require.Len(t, view.Providers, 3)

	var providers []entity.Provider
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/tasks/"+id+"/providers", nil, &providers))
	assert.Len(t, providers, 3)

	status = do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/provider", map[string]string{"providerId": providers[0].ID}, &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.TaskStatusNegotiating, view.Task.Status)

	var paid input.PaymentResult
	status = do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/payment", map[string]string{"method": "PAYME"}, &paid)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.QuotePaid, paid.Task.Quote.Status)

	var stats entity.DashboardStats
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/crm/dashboard", nil, &stats))
	assert.Equal(t, 950, stats.Revenue)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/complete", nil, &view))

	var review entity.Review
	status = do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/review", map[string]any{"rating": 5, "comment": "thanks"}, &review)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 5, review.Rating)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/tasks/"+id, nil, nil))
}

func TestTaskErrors(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/tasks", map[string]string{"description": " "}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "x", "dueDate": "soon"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/tasks", map[string]string{"unknown": "x"}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/tasks/T-missing", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/v1/tasks/T-missing", nil, nil))

	var view input.TaskView
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "爆水管"}, &view))
	id := view.Task.ID

	assert.Equal(t, http.StatusConflict, do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/complete", nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/mode", map[string]string{"modeId": "m9"}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/payment", map[string]string{"method": "CASH"}, nil))
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/v1/tasks/"+id, nil, nil))
}

func TestBiddingOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var view input.TaskView
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/v1/tasks", map[string]string{"description": "我想全屋裝修"}, &view))
	id := view.Task.ID

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/mode", map[string]string{"modeId": "m2"}, &view))
	assert.Equal(t, entity.TaskStatusAwaitingBids, view.Task.Status)

	require.Eventually(t, func() bool {
		var v input.TaskView
		return do(t, srv, http.MethodGet, "/api/v1/tasks/"+id, nil, &v) == http.StatusOK && len(v.Task.Bids) == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/tasks/"+id+"/bid", map[string]string{"bidId": "bid-2"}, &view))
	assert.Equal(t, 185000, view.Task.Quote.Total)
}

func TestJobsOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var jobs []entity.JobItem
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/jobs", nil, &jobs))
	require.Len(t, jobs, 2)

	var res input.JobActionResult
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/jobs/j1/bid", map[string]int{"amount": 700}, &res))
	assert.Equal(t, "Bid $700 Sent!", res.Message)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/v1/jobs/j2/bid", map[string]int{"amount": 50}, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/jobs/j2/bid", map[string]int{"amount": -1}, nil))

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/jobs/j1/accept", nil, &res))
	assert.Equal(t, "Job Accepted!", res.Message)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/v1/jobs/j1/accept", nil, nil))

	var posted entity.JobItem
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/v1/jobs", map[string]any{"title": "陪診", "category": "CARE", "budget": 200}, &posted))
	assert.Equal(t, entity.JobStatusLive, posted.Status)
}

func TestPostJobCannotReplaceExisting(t *testing.T) {
	srv := newTestServer(t)

	var posted entity.JobItem
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/v1/jobs",
		map[string]any{"id": "j1", "title": "hijack", "budget": 1}, &posted))
	assert.NotEqual(t, "j1", posted.ID)

	var jobs []entity.JobItem
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/jobs", nil, &jobs))
	require.Len(t, jobs, 3)
	byID := make(map[string]entity.JobItem, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	assert.Equal(t, "緊急爆水管維修", byID["j1"].Title)
	assert.True(t, byID["j1"].IsBiddingAllowed)
}

func TestQuoteBuilderOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var state input.QuoteBuilderState
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/crm/quote-builder", nil, &state))
	require.Len(t, state.History, 1)

	var reply input.BuilderReply
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/crm/quote-builder/messages", map[string]string{"text": "更換洗手盆水龍頭 $800"}, &reply))
	assert.Equal(t, 800, reply.State.Total)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/crm/quote-builder/messages", map[string]string{"text": ""}, nil))

	var quote entity.Quote
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/v1/crm/quote-builder/submit", map[string]string{"taskId": "T-1"}, &quote))
	assert.Equal(t, entity.QuoteSent, quote.Status)

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/api/v1/crm/quote-builder/submit", map[string]string{"taskId": "T-1"}, nil))
}

func TestParseQuoteItem(t *testing.T) {
	srv := newTestServer(t)

	var item entity.QuoteItem
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/quote-items/parse", map[string]string{"text": "保險 $50"}, &item))
	assert.Equal(t, 50, item.UnitPrice)
	assert.Equal(t, entity.ItemInsurance, item.Category)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/quote-items/parse", map[string]string{"text": ""}, nil))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
	assert.Equal(t, http.StatusConflict, statusFor(marketplace.ErrPaymentInProgress))
	assert.Equal(t, http.StatusNotFound, statusFor(jobboard.ErrJobNotFound))
}
