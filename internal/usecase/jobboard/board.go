// Package jobboard is the provider-facing list of open community requests.
package jobboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goalhk/internal/application/port/input"
	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
	"goalhk/internal/domain/textnorm"
)

const (
	AcceptedMessage  = "Job Accepted!"
	VolunteerMessage = "You are amazing! Thanks for Volunteering!"
	bidPattern       = "Bid $%d Sent!"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrBiddingNotAllowed = errors.New("bidding is not allowed for this job")
	ErrInvalidBid        = errors.New("bid amount must not be negative")
	ErrInvalidJob        = errors.New("invalid job")
)

// SeedJobs returns the posts the board starts with.
func SeedJobs() []entity.JobItem {
	return []entity.JobItem{
		{
			ID:               "j1",
			Title:            "緊急爆水管維修",
			Description:      "廚房洗手盆底漏水嚴重，急需持牌師傅上門處理。",
			Category:         entity.JobHomeRepair,
			Location:         "旺角",
			Budget:           800,
			IsBiddingAllowed: true,
			PostedTime:       "5m",
			Distance:         "0.5km",
			RequesterName:    "Mrs. Wong",
			RequesterRating:  4.8,
			Status:           entity.JobStatusLive,
		},
		{
			ID:               "j2",
			Title:            "尋找行山拍檔",
			Description:      "星期六早上去西貢行麥理浩徑第3段。",
			Category:         entity.JobSocial,
			Location:         "西貢",
			Budget:           0,
			IsBiddingAllowed: false,
			PostedTime:       "20m",
			Distance:         "12km",
			RequesterName:    "David",
			RequesterRating:  4.5,
			Status:           entity.JobStatusLive,
		},
	}
}

var _ input.JobBoard = (*Board)(nil)

type Board struct {
	jobs   output.JobRepository
	logger output.LoggerPort
	now    func() time.Time
}

func New(jobs output.JobRepository, logger output.LoggerPort) *Board {
	return &Board{jobs: jobs, logger: logger, now: time.Now}
}

// Seed inserts the default posts that are not stored yet.
func (b *Board) Seed(ctx context.Context) error {
	base := b.now()
	for i, job := range SeedJobs() {
		if _, err := b.jobs.Get(ctx, job.ID); err == nil {
			continue
		} else if !errors.Is(err, output.ErrNotFound) {
			return fmt.Errorf("seed job %s: %w", job.ID, err)
		}
		job.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		if err := b.jobs.Save(ctx, job); err != nil {
			return fmt.Errorf("seed job %s: %w", job.ID, err)
		}
	}
	return nil
}

func (b *Board) List(ctx context.Context) ([]entity.JobItem, error) {
	jobs, err := b.jobs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []entity.JobItem{}
	}
	return jobs, nil
}

// Post publishes a customer goal as a new live job. The id is always
// assigned here; a caller-supplied id is ignored so a post never replaces
// an existing job.
func (b *Board) Post(ctx context.Context, job entity.JobItem) (*entity.JobItem, error) {
	job.Title = textnorm.Clean(job.Title)
	job.Description = strings.TrimSpace(job.Description)
	if job.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidJob)
	}
	if job.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrInvalidJob)
	}
	if job.Category == "" {
		job.Category = entity.JobOther
	}
	if !job.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidJob, job.Category)
	}

	job.ID = "job-" + uuid.NewString()
	job.Status = entity.JobStatusLive
	job.CreatedAt = b.now()
	if job.PostedTime == "" {
		job.PostedTime = "0m"
	}

	if err := b.jobs.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("save job: %w", err)
	}

	b.logger.Info("Job posted", "job_id", job.ID, "title", job.Title, "category", job.Category)
	return &job, nil
}

func (b *Board) Accept(ctx context.Context, jobID string) (*input.JobActionResult, error) {
	if _, err := b.get(ctx, jobID); err != nil {
		return nil, err
	}
	if err := b.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("delete job: %w", err)
	}

	b.logger.Info("Job accepted", "job_id", jobID)
	return &input.JobActionResult{JobID: jobID, Message: AcceptedMessage}, nil
}

// Bid with amount 0 volunteers for free and is allowed on every job.
func (b *Board) Bid(ctx context.Context, jobID string, amount int) (*input.JobActionResult, error) {
	if amount < 0 {
		return nil, ErrInvalidBid
	}
	job, err := b.get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	msg := VolunteerMessage
	if amount > 0 {
		if !job.IsBiddingAllowed {
			return nil, fmt.Errorf("%w: %s", ErrBiddingNotAllowed, jobID)
		}
		msg = fmt.Sprintf(bidPattern, amount)
	}

	b.logger.Info("Bid placed", "job_id", jobID, "amount", amount)
	return &input.JobActionResult{JobID: jobID, Message: msg}, nil
}

func (b *Board) get(ctx context.Context, jobID string) (*entity.JobItem, error) {
	job, err := b.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, output.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}
