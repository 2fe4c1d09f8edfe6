package output

import (
	"context"

	"goalhk/internal/domain/entity"
)

type PaymentRequest struct {
	Quote  entity.Quote
	Method entity.PaymentMethod
	Escrow bool
}

type PaymentGateway interface {
	Charge(ctx context.Context, req PaymentRequest) (*entity.PaymentReceipt, error)
}
