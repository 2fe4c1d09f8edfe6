package entity

import "time"

type QuoteStatus string

const (
	QuoteDraft      QuoteStatus = "DRAFT"
	QuoteSent       QuoteStatus = "SENT"
	QuoteAccepted   QuoteStatus = "ACCEPTED"
	QuotePaid       QuoteStatus = "PAID"
	QuoteEscrowHeld QuoteStatus = "ESCROW_HELD"
)

type ItemCategory string

const (
	ItemLabor     ItemCategory = "LABOR"
	ItemMaterial  ItemCategory = "MATERIAL"
	ItemFee       ItemCategory = "FEE"
	ItemInsurance ItemCategory = "INSURANCE"
)

type QuoteItem struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Quantity    int          `json:"quantity"`
	UnitPrice   int          `json:"unitPrice"`
	Category    ItemCategory `json:"category"`
}

func (i QuoteItem) Amount() int {
	return i.Quantity * i.UnitPrice
}

type Quote struct {
	ID             string      `json:"id"`
	TaskID         string      `json:"taskId"`
	ProviderID     string      `json:"providerId"`
	ProviderName   string      `json:"providerName"`
	ProviderAvatar string      `json:"providerAvatar,omitempty"`
	ProviderRating float64     `json:"providerRating,omitempty"`
	Items          []QuoteItem `json:"items"`
	Total          int         `json:"total"`
	Status         QuoteStatus `json:"status"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// SumItems returns the sum of quantity*unit price over all items.
func SumItems(items []QuoteItem) int {
	total := 0
	for _, it := range items {
		total += it.Amount()
	}
	return total
}

func (q *Quote) Clone() *Quote {
	c := *q
	c.Items = append([]QuoteItem(nil), q.Items...)
	return &c
}
