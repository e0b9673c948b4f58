package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned by lookups that match no row.
	ErrNotFound = errors.New("store: job not found")
	// ErrDuplicateLink is the typed conflict for inserts that lose a race
	// on the unique link index.
	ErrDuplicateLink = errors.New("store: duplicate link")
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Job is the canonical stored record. Link is the sole identity of a job
// across ingestion runs.
type Job struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

const jobColumns = `id, title, company, location, description, link, source, fetched_at`

func scanJob(row interface{ Scan(...any) error }) (Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Link, &j.Source, &j.FetchedAt)
	return j, err
}

func collectJobs(rows *sql.Rows) ([]Job, error) {
	defer rows.Close()
	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SearchJobs returns jobs whose title contains the given substring,
// newest first. An empty title matches everything.
func (s *Store) SearchJobs(ctx context.Context, title string, limit int) ([]Job, error) {
	limit = clampLimit(limit, 50, 200)
	rows, err := s.db.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE $1 = '' OR title ILIKE '%' || $1 || '%'
ORDER BY fetched_at DESC
LIMIT $2
`, title, limit)
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (s *Store) GetJobs(ctx context.Context, limit, offset int) ([]Job, int, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
ORDER BY fetched_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	jobs, err := collectJobs(rows)
	return jobs, total, err
}

func (s *Store) GetJobByLink(ctx context.Context, link string) (Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE link = $1
`, link))
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return j, err
}

func (s *Store) GetJobsByIDs(ctx context.Context, ids []int64) ([]Job, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1)
`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

func (s *Store) GetJobsByLinks(ctx context.Context, links []string) ([]Job, error) {
	if len(links) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+jobColumns+` FROM jobs WHERE link = ANY($1)
`, pq.Array(links))
	if err != nil {
		return nil, err
	}
	return collectJobs(rows)
}

// DeleteJobsOlderThan removes records not refreshed within the retention
// window. The ingestion engine never calls this; it backs the admin tool.
func (s *Store) DeleteJobsOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `
DELETE FROM jobs WHERE GREATEST(fetched_at, updated_at) < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
