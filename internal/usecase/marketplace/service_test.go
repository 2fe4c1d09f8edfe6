package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
	"goalhk/internal/infrastructure/logger"
	"goalhk/internal/infrastructure/simulation"
	"goalhk/internal/infrastructure/storage/memory"
	"goalhk/internal/usecase/assistant"
	"goalhk/internal/usecase/bidding"
	"goalhk/internal/usecase/matching"
	"goalhk/internal/usecase/quoting"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type env struct {
	svc     *Service
	tasks   *memory.TaskStore
	reviews *memory.ReviewStore
}

func newEnv(t *testing.T, bidLatency time.Duration, payments output.PaymentGateway) *env {
	t.Helper()
	log := logger.NewNop()
	if payments == nil {
		payments = simulation.NewPaymentGateway(0)
	}
	e := &env{tasks: memory.NewTaskStore(), reviews: memory.NewReviewStore()}
	e.svc = New(Deps{
		Analyzer: assistant.New(nil, log, assistant.DefaultConfig()),
		Matcher:  matching.New(rand.New(rand.NewSource(7))),
		Quotes:   quoting.New(),
		Bids:     bidding.NewCollector(simulation.DefaultBidSources(bidLatency), time.Second, log),
		Payments: payments,
		Tasks:    e.tasks,
		Reviews:  e.reviews,
		Logger:   log,
	})
	t.Cleanup(e.svc.Close)
	return e
}

func submit(t *testing.T, e *env, text string) *input.TaskView {
	t.Helper()
	view, err := e.svc.Submit(context.Background(), input.SubmitRequest{Description: text})
	require.NoError(t, err)
	return view
}

func waitForBids(t *testing.T, e *env, taskID string) *entity.Task {
	t.Helper()
	var task *entity.Task
	require.Eventually(t, func() bool {
		v, err := e.svc.Get(context.Background(), taskID)
		if err != nil {
			return false
		}
		task = v.Task
		return len(task.Bids) > 0
	}, 2*time.Second, 5*time.Millisecond)
	return task
}

func TestSubmit(t *testing.T) {
	e := newEnv(t, 0, nil)
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	view, err := e.svc.Submit(context.Background(), input.SubmitRequest{Description: "爆水管", DueDate: &due})
	require.NoError(t, err)

	task := view.Task
	assert.Equal(t, entity.TaskStatusModeSelection, task.Status)
	assert.Equal(t, "HOME_REPAIR", task.Category)
	assert.Equal(t, "m1", task.SelectedModeID)
	assert.Equal(t, DefaultUserID, task.UserID)
	assert.Equal(t, 0, task.CurrentStepIndex)
	assert.Equal(t, entity.StepActive, task.Steps[0].Status)
	assert.Equal(t, &due, task.DueDate)
	require.Len(t, view.Providers, 3)
	assert.Equal(t, 80, view.Providers[0].BasePrice)
}

func TestSubmit_ReplacesSessionTask(t *testing.T) {
	e := newEnv(t, 0, nil)
	ctx := context.Background()

	first, err := e.svc.Submit(ctx, input.SubmitRequest{SessionID: "s1", Description: "爆水管"})
	require.NoError(t, err)
	other, err := e.svc.Submit(ctx, input.SubmitRequest{SessionID: "s2", Description: "找人食飯"})
	require.NoError(t, err)
	_, err = e.svc.Submit(ctx, input.SubmitRequest{SessionID: "s1", Description: "陪看醫生"})
	require.NoError(t, err)

	_, err = e.svc.Get(ctx, first.Task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = e.svc.Get(ctx, other.Task.ID)
	assert.NoError(t, err)

	all, _ := e.tasks.List(ctx)
	assert.Len(t, all, 2)
}

func TestSubmit_EmptyInput(t *testing.T) {
	e := newEnv(t, 0, nil)
	_, err := e.svc.Submit(context.Background(), input.SubmitRequest{Description: "   "})
	assert.ErrorIs(t, err, assistant.ErrEmptyInput)
}

func TestStandardFlow(t *testing.T) {
	e := newEnv(t, 0, nil)
	ctx := context.Background()
	view := submit(t, e, "爆水管")
	id := view.Task.ID

	view, err := e.svc.SelectMode(ctx, id, "m2")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusProviderSelection, view.Task.Status)
	require.Len(t, view.Providers, 3)
	assert.Equal(t, 600800, view.Providers[0].BasePrice)

	view, err = e.svc.SelectProvider(ctx, id, view.Providers[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusNegotiating, view.Task.Status)
	assert.Equal(t, 1, view.Task.CurrentStepIndex)
	require.NotNil(t, view.Task.Quote)
	assert.Equal(t, 950, view.Task.Quote.Total)
	assert.Equal(t, "Alan Fix", view.Task.Quote.ProviderName)

	paid, err := e.svc.Pay(ctx, id, entity.PaymentFPS)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusInProgress, paid.Task.Status)
	assert.Equal(t, entity.QuotePaid, paid.Task.Quote.Status)
	assert.True(t, paid.Task.IsEscrowActive)
	assert.True(t, paid.Task.HasInsurance)
	assert.Equal(t, 2, paid.Task.CurrentStepIndex)
	assert.Equal(t, entity.StepDone, paid.Task.Steps[1].Status)
	assert.Equal(t, entity.StepActive, paid.Task.Steps[2].Status)
	assert.Equal(t, 950, paid.Receipt.Amount)
	assert.True(t, paid.Receipt.Escrow)

	view, err = e.svc.Complete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusCompleted, view.Task.Status)

	review, err := e.svc.Review(ctx, id, input.ReviewRequest{Rating: 5, Comment: "好快"})
	require.NoError(t, err)
	assert.Equal(t, view.Task.SelectedProviderID, review.ProviderID)

	_, err = e.svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	stored, _ := e.reviews.ByProvider(ctx, review.ProviderID)
	assert.Len(t, stored, 1)
}

func TestBiddingFlow(t *testing.T) {
	e := newEnv(t, 5*time.Millisecond, nil)
	ctx := context.Background()
	id := submit(t, e, "我想全屋裝修").Task.ID

	view, err := e.svc.SelectMode(ctx, id, "m2")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusAwaitingBids, view.Task.Status)
	assert.Equal(t, 1, view.Task.CurrentStepIndex)
	assert.Empty(t, view.Task.Bids)
	assert.Empty(t, view.Providers)

	raw, err := json.Marshal(view.Task)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"bids":[]`)

	task := waitForBids(t, e, id)
	require.Len(t, task.Bids, 3)
	assert.Equal(t, 185000, task.Bids[0].Total)

	view, err = e.svc.SelectBid(ctx, id, "bid-1")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusNegotiating, view.Task.Status)
	assert.Equal(t, entity.QuoteAccepted, view.Task.Quote.Status)
	assert.Equal(t, "p1", view.Task.SelectedProviderID)
	assert.Equal(t, 2, view.Task.CurrentStepIndex)

	paid, err := e.svc.Pay(ctx, id, entity.PaymentCard)
	require.NoError(t, err)
	assert.Equal(t, 3, paid.Task.CurrentStepIndex)
	assert.Equal(t, 220000, paid.Receipt.Amount)
}

func TestClearCancelsBidCollection(t *testing.T) {
	e := newEnv(t, time.Hour, nil)
	ctx := context.Background()
	id := submit(t, e, "我想全屋裝修").Task.ID

	_, err := e.svc.SelectMode(ctx, id, "m2")
	require.NoError(t, err)
	require.NoError(t, e.svc.Clear(ctx, id))

	done := make(chan struct{})
	go func() {
		e.svc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bid collection still running after clear")
	}

	_, err = e.svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSwitchingModeDiscardsBids(t *testing.T) {
	e := newEnv(t, 20*time.Millisecond, nil)
	ctx := context.Background()
	id := submit(t, e, "我想全屋裝修").Task.ID

	_, err := e.svc.SelectMode(ctx, id, "m2")
	require.NoError(t, err)
	view, err := e.svc.SelectMode(ctx, id, "m1")
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusProviderSelection, view.Task.Status)

	time.Sleep(60 * time.Millisecond)
	view, err = e.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Task.Bids)
	assert.Equal(t, entity.TaskStatusProviderSelection, view.Task.Status)
}

func TestInvalidTransitions(t *testing.T) {
	e := newEnv(t, 0, nil)
	ctx := context.Background()
	id := submit(t, e, "爆水管").Task.ID

	_, err := e.svc.SelectBid(ctx, id, "bid-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.svc.Pay(ctx, id, entity.PaymentCard)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.svc.Complete(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.svc.Review(ctx, id, input.ReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.svc.SelectMode(ctx, id, "m9")
	assert.ErrorIs(t, err, ErrModeNotFound)

	_, err = e.svc.SelectProvider(ctx, id, "nobody")
	assert.ErrorIs(t, err, ErrProviderNotFound)

	_, err = e.svc.Pay(ctx, id, "CASH")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = e.svc.Review(ctx, id, input.ReviewRequest{Rating: 9})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestUnknownTask(t *testing.T) {
	e := newEnv(t, 0, nil)
	ctx := context.Background()

	_, err := e.svc.Get(ctx, "T-missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = e.svc.SelectMode(ctx, "T-missing", "m1")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, e.svc.Clear(ctx, "T-missing"), ErrTaskNotFound)
}

func TestSelectProviderAfterNegotiatingRejected(t *testing.T) {
	e := newEnv(t, 0, nil)
	ctx := context.Background()
	view := submit(t, e, "爆水管")

	_, err := e.svc.SelectProvider(ctx, view.Task.ID, view.Providers[0].ID)
	require.NoError(t, err)
	_, err = e.svc.SelectProvider(ctx, view.Task.ID, view.Providers[0].ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

type blockingGateway struct {
	release chan struct{}
	once    sync.Once
	started chan struct{}
}

func (g *blockingGateway) Charge(ctx context.Context, req output.PaymentRequest) (*entity.PaymentReceipt, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
	}
	return &entity.PaymentReceipt{ID: "PAY-1", Amount: req.Quote.Total, Method: req.Method, Escrow: req.Escrow}, nil
}

func TestPay_ClearedDuringCharge(t *testing.T) {
	gw := &blockingGateway{release: make(chan struct{}), started: make(chan struct{})}
	e := newEnv(t, 0, gw)
	ctx := context.Background()
	view := submit(t, e, "爆水管")
	id := view.Task.ID
	_, err := e.svc.SelectProvider(ctx, id, view.Providers[0].ID)
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() {
		_, err := e.svc.Pay(ctx, id, entity.PaymentPayMe)
		errc <- err
	}()
	<-gw.started

	_, err = e.svc.Pay(ctx, id, entity.PaymentPayMe)
	assert.ErrorIs(t, err, ErrPaymentInProgress)

	require.NoError(t, e.svc.Clear(ctx, id))
	close(gw.release)

	assert.ErrorIs(t, <-errc, ErrTaskNotFound)
}

type failingGateway struct{}

func (failingGateway) Charge(context.Context, output.PaymentRequest) (*entity.PaymentReceipt, error) {
	return nil, errors.New("card declined")
}

func TestPay_GatewayFailureKeepsNegotiating(t *testing.T) {
	e := newEnv(t, 0, failingGateway{})
	ctx := context.Background()
	view := submit(t, e, "爆水管")
	_, err := e.svc.SelectProvider(ctx, view.Task.ID, view.Providers[0].ID)
	require.NoError(t, err)

	_, err = e.svc.Pay(ctx, view.Task.ID, entity.PaymentCard)
	require.Error(t, err)

	got, err := e.svc.Get(ctx, view.Task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskStatusNegotiating, got.Task.Status)
}
