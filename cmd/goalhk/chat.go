package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
	"goalhk/internal/infrastructure/userinteraction"
)

const bidPollInterval = 250 * time.Millisecond

var errQuit = errors.New("quit")

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Walk a request through the marketplace in the terminal",
	Long: `Chat runs the client flow interactively: describe what you need, pick a
service mode, choose a provider or a bid, pay into escrow, confirm completion
and leave a review. Type "exit" to quit.`,
	RunE: runChat,
}

var paymentOptions = []entity.PaymentMethod{entity.PaymentCard, entity.PaymentFPS, entity.PaymentPayMe}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !verbose {
		cfg.Logging.Level = "warn"
	}
	cfg.Logging.Format = "console"

	c, err := newContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	ui := userinteraction.NewConsoleUserInteraction()
	s := &chatSession{
		market:    c.Marketplace,
		ui:        ui,
		sessionID: uuid.NewString(),
		bidWait:   cfg.Sim.BidTimeout + time.Second,
	}

	hints := make([]string, 0)
	for _, sg := range c.Catalog.Suggestions() {
		hints = append(hints, sg.Query)
	}
	s.hints = strings.Join(hints, " / ")

	for {
		err := s.run(ctx)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			ui.ShowError(ctx, err)
		}
		if s.taskID != "" {
			_ = s.market.Clear(ctx, s.taskID)
			s.taskID = ""
		}
	}
}

type chatSession struct {
	market    input.Marketplace
	ui        output.UserInteractionPort
	sessionID string
	hints     string
	bidWait   time.Duration

	taskID string
}

// run carries one task from the request to the review.
func (s *chatSession) run(ctx context.Context) error {
	text, err := s.ui.AskQuestion(ctx, "有咩可以幫到你？ (例如: "+s.hints+")")
	if err != nil {
		return errQuit
	}
	switch strings.ToLower(text) {
	case "":
		return nil
	case "exit", "quit", "q":
		return errQuit
	}

	view, err := s.market.Submit(ctx, input.SubmitRequest{SessionID: s.sessionID, Description: text})
	if err != nil {
		return err
	}
	s.taskID = view.Task.ID
	s.ui.ShowTask(ctx, view.Task)

	view, err = s.chooseMode(ctx, view.Task)
	if err != nil {
		return err
	}

	if view.Task.Status == entity.TaskStatusAwaitingBids {
		view, err = s.chooseBid(ctx)
	} else {
		view, err = s.chooseProvider(ctx, view)
	}
	if err != nil {
		return err
	}

	s.ui.ShowQuote(ctx, view.Task.Quote)
	if err := s.pay(ctx); err != nil {
		return err
	}

	if _, err := s.ui.AskQuestion(ctx, "工作完成後按 Enter 確認驗收"); err != nil {
		return errQuit
	}
	view, err = s.market.Complete(ctx, s.taskID)
	if err != nil {
		return err
	}
	s.ui.ShowTask(ctx, view.Task)

	return s.review(ctx)
}

func (s *chatSession) chooseMode(ctx context.Context, task *entity.Task) (*input.TaskView, error) {
	options := make([]string, len(task.RecommendedModes))
	for i, m := range task.RecommendedModes {
		label := fmt.Sprintf("%s  %s • %s", m.Name, m.EstimatedPrice, m.EstimatedTime)
		if m.IsBidding {
			label += " (競價)"
		}
		options[i] = label
	}

	idx, err := s.ui.Choose(ctx, "請選擇服務模式", options)
	if err != nil {
		return nil, errQuit
	}
	return s.market.SelectMode(ctx, s.taskID, task.RecommendedModes[idx].ID)
}

func (s *chatSession) chooseProvider(ctx context.Context, view *input.TaskView) (*input.TaskView, error) {
	s.ui.ShowProviders(ctx, view.Providers)
	if len(view.Providers) == 0 {
		return nil, errors.New("no providers available")
	}

	options := make([]string, len(view.Providers))
	for i, p := range view.Providers {
		options[i] = fmt.Sprintf("%s ($%d)", p.Name, p.BasePrice)
	}
	idx, err := s.ui.Choose(ctx, "請選擇服務者", options)
	if err != nil {
		return nil, errQuit
	}
	return s.market.SelectProvider(ctx, s.taskID, view.Providers[idx].ID)
}

func (s *chatSession) chooseBid(ctx context.Context) (*input.TaskView, error) {
	s.ui.ShowToast(ctx, "Request broadcasted! Waiting for bids...")

	waitCtx, cancel := context.WithTimeout(ctx, s.bidWait)
	defer cancel()

	ticker := time.NewTicker(bidPollInterval)
	defer ticker.Stop()

	var bids []entity.Quote
	for len(bids) == 0 {
		select {
		case <-waitCtx.Done():
			return nil, errors.New("no bids received")
		case <-ticker.C:
		}
		view, err := s.market.Get(ctx, s.taskID)
		if err != nil {
			return nil, err
		}
		bids = view.Task.Bids
	}

	s.ui.ShowToast(ctx, fmt.Sprintf("Ding! Ding! %d New Quotes Received!", len(bids)))
	options := make([]string, len(bids))
	for i, b := range bids {
		options[i] = fmt.Sprintf("%s  $%d", b.ProviderName, b.Total)
	}
	idx, err := s.ui.Choose(ctx, "請選擇報價", options)
	if err != nil {
		return nil, errQuit
	}
	return s.market.SelectBid(ctx, s.taskID, bids[idx].ID)
}

func (s *chatSession) pay(ctx context.Context) error {
	options := make([]string, len(paymentOptions))
	for i, m := range paymentOptions {
		options[i] = string(m)
	}
	idx, err := s.ui.Choose(ctx, "請選擇付款方式 (款項由平台託管)", options)
	if err != nil {
		return errQuit
	}

	res, err := s.market.Pay(ctx, s.taskID, paymentOptions[idx])
	if err != nil {
		return err
	}
	s.ui.ShowToast(ctx, "Payment secured in Escrow. Provider notified.")
	s.ui.ShowTask(ctx, res.Task)
	return nil
}

func (s *chatSession) review(ctx context.Context) error {
	idx, err := s.ui.Choose(ctx, "請評分", []string{"★★★★★", "★★★★", "★★★", "★★", "★"})
	if err != nil {
		return errQuit
	}
	comment, err := s.ui.AskQuestion(ctx, "留個評語？ (可留空)")
	if err != nil {
		return errQuit
	}

	if _, err := s.market.Review(ctx, s.taskID, input.ReviewRequest{Rating: 5 - idx, Comment: comment}); err != nil {
		return err
	}
	// Review discards the task.
	s.taskID = ""
	s.ui.ShowToast(ctx, "Thank you for your review!")
	return nil
}
