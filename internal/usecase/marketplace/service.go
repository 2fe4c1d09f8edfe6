// Package marketplace runs the customer side of a task: mode selection,
// provider matching or bidding, quote, escrow payment, completion and review.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

const DefaultUserID = "U-1"

type ProviderMatcher interface {
	Match(modes []entity.ServiceMode, modeID string) []entity.Provider
}

type QuoteGenerator interface {
	Generate(task *entity.Task, provider entity.Provider) *entity.Quote
}

type BidCollector interface {
	Collect(ctx context.Context, task *entity.Task) ([]entity.Quote, error)
}

type Deps struct {
	Analyzer input.Analyzer
	Matcher  ProviderMatcher
	Quotes   QuoteGenerator
	Bids     BidCollector
	Payments output.PaymentGateway
	Tasks    output.TaskRepository
	Reviews  output.ReviewRepository
	Logger   output.LoggerPort
}

// collection is one in-flight bid broadcast. Identity matters: a finished
// collection only delivers if it is still the one registered for the task.
type collection struct {
	modeID string
	cancel context.CancelFunc
}

var _ input.Marketplace = (*Service)(nil)

type Service struct {
	Deps

	mu        sync.Mutex
	providers map[string][]entity.Provider
	pending   map[string]*collection
	paying    map[string]bool
	sessions  map[string]string

	wg  sync.WaitGroup
	now func() time.Time
}

func New(deps Deps) *Service {
	return &Service{
		Deps:      deps,
		providers: make(map[string][]entity.Provider),
		pending:   make(map[string]*collection),
		paying:    make(map[string]bool),
		sessions:  make(map[string]string),
		now:       time.Now,
	}
}

func (s *Service) Submit(ctx context.Context, req input.SubmitRequest) (*input.TaskView, error) {
	analysis, err := s.Analyzer.Analyze(ctx, req.Description)
	if err != nil {
		return nil, fmt.Errorf("analyze request: %w", err)
	}

	now := s.now()
	task := &entity.Task{
		ID:               "T-" + uuid.NewString(),
		UserID:           DefaultUserID,
		Description:      analysis.Description,
		Category:         analysis.Category,
		Scenario:         analysis.Scenario,
		Status:           entity.TaskStatusModeSelection,
		DueDate:          req.DueDate,
		AIAnalysis:       analysis.Message,
		RecommendedModes: analysis.Modes,
		Steps:            analysis.Steps,
		Bids:             []entity.Quote{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if len(task.RecommendedModes) > 0 {
		task.SelectedModeID = task.RecommendedModes[0].ID
	}
	task.SetStep(0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.sessions[req.SessionID]; ok {
		if err := s.discardLocked(ctx, prev); err != nil && !errors.Is(err, ErrTaskNotFound) {
			return nil, err
		}
	}

	if err := s.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}
	s.sessions[req.SessionID] = task.ID
	s.providers[task.ID] = s.Matcher.Match(task.RecommendedModes, task.SelectedModeID)

	s.Logger.Info("Task submitted",
		"task_id", task.ID,
		"scenario", task.Scenario,
		"category", task.Category,
		"modes", len(task.RecommendedModes),
	)

	return s.viewLocked(task), nil
}

func (s *Service) Get(ctx context.Context, taskID string) (*input.TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return s.viewLocked(task), nil
}

func (s *Service) Providers(ctx context.Context, taskID string) ([]entity.Provider, error) {
	view, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return view.Providers, nil
}

func (s *Service) SelectMode(ctx context.Context, taskID, modeID string) (*input.TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case entity.TaskStatusModeSelection, entity.TaskStatusProviderSelection, entity.TaskStatusAwaitingBids:
	default:
		return nil, transitionError(task.Status, "select mode")
	}

	mode, ok := task.Mode(modeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModeNotFound, modeID)
	}

	s.cancelPendingLocked(taskID)
	task.SelectedModeID = mode.ID

	if mode.IsBidding {
		task.Status = entity.TaskStatusAwaitingBids
		task.Bids = []entity.Quote{}
		task.SetStep(1)
		s.providers[taskID] = []entity.Provider{}
	} else {
		task.Status = entity.TaskStatusProviderSelection
		task.Bids = []entity.Quote{}
		s.providers[taskID] = s.Matcher.Match(task.RecommendedModes, mode.ID)
	}

	if err := s.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if mode.IsBidding {
		s.startCollectionLocked(task)
		s.Logger.Info("Request broadcasted! Waiting for bids...", "task_id", taskID, "mode_id", mode.ID)
	} else {
		s.Logger.Info("Mode selected", "task_id", taskID, "mode_id", mode.ID)
	}

	return s.viewLocked(task), nil
}

func (s *Service) SelectProvider(ctx context.Context, taskID, providerID string) (*input.TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	switch task.Status {
	case entity.TaskStatusModeSelection, entity.TaskStatusProviderSelection:
	default:
		return nil, transitionError(task.Status, "select provider")
	}

	var (
		provider entity.Provider
		found    bool
	)
	for _, p := range s.providers[taskID] {
		if p.ID == providerID {
			provider, found = p, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}

	task.Status = entity.TaskStatusNegotiating
	task.SelectedProviderID = provider.ID
	task.SetStep(1)
	task.Quote = s.Quotes.Generate(task, provider)

	if err := s.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.Logger.Info("Provider selected", "task_id", taskID, "provider", provider.Name, "quote_total", task.Quote.Total)
	return s.viewLocked(task), nil
}

func (s *Service) SelectBid(ctx context.Context, taskID, bidID string) (*input.TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusAwaitingBids {
		return nil, transitionError(task.Status, "select bid")
	}

	bid, ok := task.Bid(bidID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBidNotFound, bidID)
	}

	accepted := bid.Clone()
	accepted.Status = entity.QuoteAccepted
	task.Status = entity.TaskStatusNegotiating
	task.SelectedProviderID = bid.ProviderID
	task.Quote = accepted
	task.SetStep(2)

	if err := s.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.Logger.Info("Bid accepted", "task_id", taskID, "provider", bid.ProviderName, "total", bid.Total)
	return s.viewLocked(task), nil
}

// Pay releases the lock while the gateway runs and revalidates the task
// afterwards, so a task cleared mid-payment is not resurrected.
func (s *Service) Pay(ctx context.Context, taskID string, method entity.PaymentMethod) (*input.PaymentResult, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	s.mu.Lock()
	task, err := s.load(ctx, taskID)
	if err == nil {
		err = checkPayable(task)
	}
	if err == nil && s.paying[taskID] {
		err = ErrPaymentInProgress
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.paying[taskID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.paying, taskID)
		s.mu.Unlock()
	}()

	receipt, err := s.Payments.Charge(ctx, output.PaymentRequest{
		Quote:  *task.Quote,
		Method: method,
		Escrow: true,
	})
	if err != nil {
		s.Logger.Warn("Payment failed", "task_id", taskID, "method", method, "error", err)
		return nil, fmt.Errorf("charge: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := checkPayable(current); err != nil {
		return nil, err
	}
	if current.Quote.ID != task.Quote.ID {
		return nil, fmt.Errorf("%w: quote changed during payment", ErrInvalidTransition)
	}

	step := 2
	if mode, ok := current.Mode(current.SelectedModeID); ok && mode.IsBidding {
		step = 3
	}
	current.Status = entity.TaskStatusInProgress
	current.Quote.Status = entity.QuotePaid
	current.IsEscrowActive = true
	current.HasInsurance = true
	current.SetStep(step)

	if err := s.Tasks.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.Logger.Info("Payment secured in Escrow. Provider notified.",
		"task_id", taskID,
		"receipt_id", receipt.ID,
		"amount", receipt.Amount,
		"method", method,
	)

	return &input.PaymentResult{Task: current, Receipt: receipt}, nil
}

func (s *Service) Complete(ctx context.Context, taskID string) (*input.TaskView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusInProgress {
		return nil, transitionError(task.Status, "complete")
	}

	task.Status = entity.TaskStatusCompleted
	if err := s.Tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	s.Logger.Info("Task completed", "task_id", taskID)
	return s.viewLocked(task), nil
}

// Review records the rating and ends the task; the task is discarded.
func (s *Service) Review(ctx context.Context, taskID string, req input.ReviewRequest) (*entity.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != entity.TaskStatusCompleted {
		return nil, transitionError(task.Status, "review")
	}

	review := entity.Review{
		TaskID:     task.ID,
		ProviderID: task.SelectedProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		CreatedAt:  s.now(),
	}
	if err := s.Reviews.Add(ctx, review); err != nil {
		return nil, fmt.Errorf("store review: %w", err)
	}

	task.Status = entity.TaskStatusReviewed
	if err := s.discardLocked(ctx, taskID); err != nil {
		return nil, err
	}

	s.Logger.Info("Thank you for your review!", "task_id", taskID, "rating", req.Rating)
	return &review, nil
}

func (s *Service) Clear(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.discardLocked(ctx, taskID); err != nil {
		return err
	}
	s.Logger.Info("Task cleared", "task_id", taskID)
	return nil
}

// Close cancels every running bid collection and waits for them to exit.
func (s *Service) Close() {
	s.mu.Lock()
	for id := range s.pending {
		s.cancelPendingLocked(id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) startCollectionLocked(task *entity.Task) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &collection{modeID: task.SelectedModeID, cancel: cancel}
	s.pending[task.ID] = c

	snapshot := task.Clone()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		bids, err := s.Bids.Collect(ctx, snapshot)
		s.deliverBids(ctx, c, snapshot.ID, bids, err)
	}()
}

func (s *Service) deliverBids(ctx context.Context, c *collection, taskID string, bids []entity.Quote, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[taskID] != c {
		s.Logger.Debug("Discarding bids of superseded collection", "task_id", taskID)
		return
	}
	delete(s.pending, taskID)

	if err != nil {
		if ctx.Err() == nil {
			s.Logger.Warn("Bid collection failed", "task_id", taskID, "error", err)
		}
		return
	}

	task, err := s.load(context.Background(), taskID)
	if err != nil {
		s.Logger.Debug("Task gone before bids arrived", "task_id", taskID)
		return
	}
	if task.Status != entity.TaskStatusAwaitingBids || task.SelectedModeID != c.modeID {
		s.Logger.Debug("Task moved on, bids discarded", "task_id", taskID, "status", task.Status)
		return
	}

	task.Bids = bids
	if err := s.Tasks.Save(context.Background(), task); err != nil {
		s.Logger.Error("Failed to store bids", "task_id", taskID, "error", err)
		return
	}
	s.Logger.Info(fmt.Sprintf("Ding! Ding! %d New Quotes Received!", len(bids)), "task_id", taskID)
}

func (s *Service) cancelPendingLocked(taskID string) {
	if c, ok := s.pending[taskID]; ok {
		c.cancel()
		delete(s.pending, taskID)
	}
}

func (s *Service) discardLocked(ctx context.Context, taskID string) error {
	s.cancelPendingLocked(taskID)
	delete(s.providers, taskID)
	for session, id := range s.sessions {
		if id == taskID {
			delete(s.sessions, session)
		}
	}
	if err := s.Tasks.Delete(ctx, taskID); err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, taskID string) (*entity.Task, error) {
	task, err := s.Tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return nil, fmt.Errorf("load task: %w", err)
	}
	return task, nil
}

func (s *Service) viewLocked(task *entity.Task) *input.TaskView {
	providers := append([]entity.Provider{}, s.providers[task.ID]...)
	return &input.TaskView{Task: task, Providers: providers}
}

func checkPayable(task *entity.Task) error {
	if task.Status != entity.TaskStatusNegotiating {
		return transitionError(task.Status, "pay")
	}
	if task.Quote == nil {
		return ErrNoQuote
	}
	return nil
}

func transitionError(from entity.TaskStatus, action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, from)
}
