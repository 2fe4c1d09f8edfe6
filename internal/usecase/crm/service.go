// Package crm serves the provider back office: the task dashboard and the
// chat-style quote builder.
package crm

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
	"goalhk/internal/domain/quoteparser"
)

const (
	Greeting     = "你好！我是您的智能報價助手。請告訴我您想加入報價單的項目 (例如：新增 防水工程 $1500)。"
	replyPattern = "已為您新增項目：「%s」金額 $%d。還有其他項目嗎？"
	recentLimit  = 3
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrEmptyDraft   = errors.New("quote draft has no items")
)

// baseline is the historical distribution shown before any live task.
var baseline = []entity.StatusSlice{
	{Name: "Completed", Value: 400},
	{Name: "In Progress", Value: 300},
	{Name: "Pending", Value: 300},
	{Name: "Cancelled", Value: 200},
}

var _ input.CRM = (*Service)(nil)

type Service struct {
	tasks  output.TaskRepository
	logger output.LoggerPort

	mu      sync.Mutex
	history []entity.ChatMessage
	draft   []entity.QuoteItem
	sent    []entity.Quote
	now     func() time.Time
}

func New(tasks output.TaskRepository, logger output.LoggerPort) *Service {
	return &Service{
		tasks:   tasks,
		logger:  logger,
		history: []entity.ChatMessage{{Sender: entity.SenderAI, Text: Greeting}},
		now:     time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*entity.DashboardStats, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	breakdown := append([]entity.StatusSlice(nil), baseline...)
	stats := &entity.DashboardStats{}
	var quotes []entity.Quote

	for _, t := range tasks {
		breakdown[bucket(t.Status)].Value++
		if t.Status != entity.TaskStatusCompleted && t.Status != entity.TaskStatusReviewed {
			stats.ActiveTasks++
		}
		if t.Quote != nil {
			quotes = append(quotes, *t.Quote)
		}
	}

	s.mu.Lock()
	quotes = append(quotes, s.sent...)
	s.mu.Unlock()

	for _, q := range quotes {
		switch q.Status {
		case entity.QuotePaid, entity.QuoteEscrowHeld:
			stats.Revenue += q.Total
		default:
			stats.PendingQuotes++
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})
	if len(quotes) > recentLimit {
		quotes = quotes[:recentLimit]
	}

	stats.StatusBreakdown = breakdown
	stats.RecentQuotes = quotes
	if stats.RecentQuotes == nil {
		stats.RecentQuotes = []entity.Quote{}
	}
	return stats, nil
}

// bucket maps a task status to its index in baseline.
func bucket(status entity.TaskStatus) int {
	switch status {
	case entity.TaskStatusCompleted, entity.TaskStatusReviewed:
		return 0
	case entity.TaskStatusInProgress:
		return 1
	default:
		return 2
	}
}

func (s *Service) BuilderState(ctx context.Context) input.QuoteBuilderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Service) SendBuilderMessage(ctx context.Context, text string) (*input.BuilderReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	item := quoteparser.Parse(text)
	reply := entity.ChatMessage{
		Sender: entity.SenderAI,
		Text:   fmt.Sprintf(replyPattern, item.Description, item.UnitPrice),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, entity.ChatMessage{Sender: entity.SenderUser, Text: text}, reply)
	s.draft = append(s.draft, item)

	s.logger.Debug("Quote item added", "description", item.Description, "price", item.UnitPrice, "category", item.Category)
	return &input.BuilderReply{Item: item, Reply: reply, State: s.stateLocked()}, nil
}

// SubmitBuilderQuote turns the draft into a SENT quote and starts a new
// builder session.
func (s *Service) SubmitBuilderQuote(ctx context.Context, taskID string) (*entity.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.draft) == 0 {
		return nil, ErrEmptyDraft
	}

	quote := entity.Quote{
		ID:        "Q-" + uuid.NewString(),
		TaskID:    taskID,
		Items:     append([]entity.QuoteItem(nil), s.draft...),
		Total:     entity.SumItems(s.draft),
		Status:    entity.QuoteSent,
		CreatedAt: s.now(),
	}
	s.sent = append(s.sent, quote)
	s.draft = nil
	s.history = []entity.ChatMessage{{Sender: entity.SenderAI, Text: Greeting}}

	s.logger.Info("Quote sent", "quote_id", quote.ID, "task_id", taskID, "total", quote.Total, "items", len(quote.Items))
	return &quote, nil
}

func (s *Service) stateLocked() input.QuoteBuilderState {
	return input.QuoteBuilderState{
		History: append([]entity.ChatMessage(nil), s.history...),
		Draft:   append([]entity.QuoteItem{}, s.draft...),
		Total:   entity.SumItems(s.draft),
	}
}
