// Package bidding broadcasts a request to every bid source and gathers the
// replies that arrive before the collection deadline.
package bidding

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

const DefaultTimeout = 10 * time.Second

var ErrNoBids = errors.New("no bids received")

type Collector struct {
	sources []output.BidSource
	timeout time.Duration
	logger  output.LoggerPort
}

func NewCollector(sources []output.BidSource, timeout time.Duration, logger output.LoggerPort) *Collector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Collector{sources: sources, timeout: timeout, logger: logger}
}

// Collect asks all sources in parallel. A failing or slow source is logged
// and skipped; the returned bids are ordered by total, cheapest first. When
// ctx itself is cancelled the partial result is dropped and ctx.Err returned.
func (c *Collector) Collect(ctx context.Context, task *entity.Task) ([]entity.Quote, error) {
	if len(c.sources) == 0 {
		return nil, ErrNoBids
	}

	collectCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu   sync.Mutex
		bids []entity.Quote
	)

	eg, egCtx := errgroup.WithContext(collectCtx)
	for _, src := range c.sources {
		eg.Go(func() error {
			bid, err := src.Quote(egCtx, task)
			if err != nil {
				c.logger.Warn("Bid source failed", "source", src.Name(), "task_id", task.ID, "error", err)
				return nil
			}
			if bid == nil {
				return nil
			}
			mu.Lock()
			bids = append(bids, *bid)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(bids, func(i, j int) bool {
		if bids[i].Total != bids[j].Total {
			return bids[i].Total < bids[j].Total
		}
		return bids[i].ID < bids[j].ID
	})

	c.logger.Info("Bid collection finished",
		"task_id", task.ID,
		"received", len(bids),
		"sources", len(c.sources),
	)

	if len(bids) == 0 {
		return nil, ErrNoBids
	}
	return bids, nil
}
