package entity

import "time"

type PaymentMethod string

const (
	PaymentCard  PaymentMethod = "CARD"
	PaymentFPS   PaymentMethod = "FPS"
	PaymentPayMe PaymentMethod = "PAYME"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentFPS, PaymentPayMe:
		return true
	}
	return false
}

type PaymentReceipt struct {
	ID        string        `json:"id"`
	QuoteID   string        `json:"quoteId"`
	Amount    int           `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Escrow    bool          `json:"escrow"`
	CreatedAt time.Time     `json:"createdAt"`
}
