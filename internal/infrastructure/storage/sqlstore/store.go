// Package sqlstore persists job board posts in SQLite or PostgreSQL. The
// schema and queries are shared; only placeholders differ between drivers.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"goalhk/internal/application/port/output"
	"goalhk/internal/domain/entity"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id                 TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL,
	location           TEXT NOT NULL DEFAULT '',
	budget             BIGINT NOT NULL DEFAULT 0,
	is_bidding_allowed BOOLEAN NOT NULL DEFAULT FALSE,
	posted_time        TEXT NOT NULL DEFAULT '',
	distance           TEXT NOT NULL DEFAULT '',
	requester_name     TEXT NOT NULL DEFAULT '',
	requester_rating   DOUBLE PRECISION NOT NULL DEFAULT 0,
	status             TEXT NOT NULL DEFAULT '',
	created_at         BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
`

const columns = `id, title, description, category, location, budget, is_bidding_allowed,
	posted_time, distance, requester_name, requester_rating, status, created_at`

var _ output.JobRepository = (*JobStore)(nil)

type JobStore struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*JobStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	s := &JobStore{db: db, dialect: DialectSQLite}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

// OpenPostgres connects to dsn, retrying the ping while the server starts.
func OpenPostgres(ctx context.Context, dsn string) (*JobStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &JobStore{db: db, dialect: DialectPostgres}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *JobStore) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $N for postgres.
func (s *JobStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (entity.JobItem, error) {
	var (
		j       entity.JobItem
		cat     string
		created int64
	)
	err := row.Scan(&j.ID, &j.Title, &j.Description, &cat, &j.Location, &j.Budget,
		&j.IsBiddingAllowed, &j.PostedTime, &j.Distance, &j.RequesterName,
		&j.RequesterRating, &j.Status, &created)
	if err != nil {
		return entity.JobItem{}, err
	}
	j.Category = entity.JobCategory(cat)
	if created > 0 {
		j.CreatedAt = time.UnixMilli(created)
	}
	return j, nil
}

func (s *JobStore) List(ctx context.Context) ([]entity.JobItem, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM jobs ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []entity.JobItem
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *JobStore) Get(ctx context.Context, id string) (*entity.JobItem, error) {
	row := s.db.QueryRowContext(ctx, s.rebind("SELECT "+columns+" FROM jobs WHERE id = ?"), id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, output.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return &j, nil
}

func (s *JobStore) Save(ctx context.Context, job entity.JobItem) error {
	if job.ID == "" {
		return fmt.Errorf("job id is required")
	}
	var created int64
	if !job.CreatedAt.IsZero() {
		created = job.CreatedAt.UnixMilli()
	}

	query := s.rebind(`
		INSERT INTO jobs (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			location = excluded.location,
			budget = excluded.budget,
			is_bidding_allowed = excluded.is_bidding_allowed,
			posted_time = excluded.posted_time,
			distance = excluded.distance,
			requester_name = excluded.requester_name,
			requester_rating = excluded.requester_rating,
			status = excluded.status`)

	_, err := s.db.ExecContext(ctx, query,
		job.ID, job.Title, job.Description, string(job.Category), job.Location, job.Budget,
		job.IsBiddingAllowed, job.PostedTime, job.Distance, job.RequesterName,
		job.RequesterRating, job.Status, created)
	if err != nil {
		return fmt.Errorf("save job %s: %w", job.ID, err)
	}
	return nil
}

func (s *JobStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM jobs WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s: %w", id, output.ErrNotFound)
	}
	return nil
}

func (s *JobStore) Close() error {
	return s.db.Close()
}
