// Package simulation stands in for the provider network and payment processor.
package simulation

import (
	"context"
	"fmt"
	"time"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

var _ output.BidSource = (*CannedBidSource)(nil)

// CannedBidSource answers every broadcast with the same fixed bid after a delay.
type CannedBidSource struct {
	bid     entity.Quote
	latency time.Duration
}

func NewCannedBidSource(bid entity.Quote, latency time.Duration) *CannedBidSource {
	return &CannedBidSource{bid: bid, latency: latency}
}

func (s *CannedBidSource) Name() string {
	return s.bid.ProviderName
}

func (s *CannedBidSource) Quote(ctx context.Context, task *entity.Task) (*entity.Quote, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", s.Name(), ctx.Err())
		case <-timer.C:
		}
	}

	q := s.bid.Clone()
	q.TaskID = task.ID
	q.Status = entity.QuoteSent
	q.CreatedAt = time.Now()
	q.Total = entity.SumItems(q.Items)
	return q, nil
}

func lumpSum(id, providerID, name, avatarSeed string, rating float64, itemID, desc string, price int) entity.Quote {
	return entity.Quote{
		ID:             id,
		ProviderID:     providerID,
		ProviderName:   name,
		ProviderAvatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=" + avatarSeed,
		ProviderRating: rating,
		Items: []entity.QuoteItem{
			{ID: itemID, Description: desc, Quantity: 1, UnitPrice: price, Category: entity.ItemLabor},
		},
	}
}

// DefaultBidSources returns the three renovation contractors that answer
// bidding requests.
func DefaultBidSources(latency time.Duration) []output.BidSource {
	return []output.BidSource{
		NewCannedBidSource(lumpSum("bid-1", "p1", "強記裝修工程", "eng1", 4.5, "i1", "全屋基本裝修套餐", 220000), latency),
		NewCannedBidSource(lumpSum("bid-2", "p2", "陳師傅 (個人)", "eng2", 4.9, "i2", "人工連料優惠價", 185000), latency),
		NewCannedBidSource(lumpSum("bid-3", "p3", "Design House Pro", "eng3", 4.2, "i3", "高端設計連施工", 280000), latency),
	}
}
