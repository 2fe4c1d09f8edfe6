package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.PaymentGateway = (*PaymentGateway)(nil)

// PaymentGateway approves every valid charge after a processing delay.
// Nothing leaves the process.
type PaymentGateway struct {
	delay time.Duration
}

func NewPaymentGateway(delay time.Duration) *PaymentGateway {
	return &PaymentGateway{delay: delay}
}

func (g *PaymentGateway) Charge(ctx context.Context, req output.PaymentRequest) (*entity.PaymentReceipt, error) {
	if !req.Method.Valid() {
		return nil, fmt.Errorf("unsupported payment method %q", req.Method)
	}
	if req.Quote.Total <= 0 {
		return nil, fmt.Errorf("quote %s has nothing to charge", req.Quote.ID)
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("payment processing: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return &entity.PaymentReceipt{
		ID:        "PAY-" + uuid.NewString(),
		QuoteID:   req.Quote.ID,
		Amount:    req.Quote.Total,
		Method:    req.Method,
		Escrow:    req.Escrow,
		CreatedAt: time.Now(),
	}, nil
}
