// Package jobs records crawl runs and executes them in the background.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Lumby98/web-bot/internal/crawler"
	"github.com/Lumby98/web-bot/internal/database"
	"github.com/Lumby98/web-bot/internal/events"
	"github.com/Lumby98/web-bot/internal/queue"
)

var ErrJobNotFound = errors.New("job not found")

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job is the persisted record of one crawl run. Credentials are never
// written to it; they travel only in the queued task.
type Job struct {
	ID              string     `json:"id"`
	SupplierID      string     `json:"supplier_id"`
	Status          string     `json:"status"`
	ProductsCreated int        `json:"products_created"`
	ProductsUpdated int        `json:"products_updated"`
	FailureKind     string     `json:"failure_kind,omitempty"`
	Error           string     `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

type Manager struct {
	db        *database.DB
	crawler   *crawler.Service
	publisher *events.Publisher
	queue     queue.Queue
	logger    *slog.Logger
}

func NewManager(db *database.DB, crawlerService *crawler.Service, publisher *events.Publisher, q queue.Queue, logger *slog.Logger) *Manager {
	return &Manager{
		db:        db,
		crawler:   crawlerService,
		publisher: publisher,
		queue:     q,
		logger:    logger.With("component", "job_manager"),
	}
}

// CreateJob records a pending crawl run and enqueues it for the worker.
func (m *Manager) CreateJob(ctx context.Context, supplierID, username, password string) (*Job, error) {
	job := &Job{
		ID:         uuid.New().String(),
		SupplierID: supplierID,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	err := m.db.Exec(ctx, `
		INSERT INTO crawl_jobs (id, supplier_id, status, created_at)
		VALUES ($1, $2, $3, $4)`,
		job.ID, job.SupplierID, job.Status, job.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	err = m.queue.Push(&queue.Task{
		ID:         job.ID,
		SupplierID: supplierID,
		Username:   username,
		Password:   password,
		CreatedAt:  job.CreatedAt,
	})
	if err != nil {
		m.markFailed(ctx, job.ID, "", err)
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	m.logger.Info("job created", "id", job.ID, "supplier", supplierID)
	return job, nil
}

func (m *Manager) GetJob(ctx context.Context, jobID string) (*Job, error) {
	job := &Job{}
	var failureKind, errMsg *string
	err := m.db.QueryRow(ctx, `
		SELECT id, supplier_id, status, products_created, products_updated,
		       failure_kind, error_message, created_at, started_at, completed_at
		FROM crawl_jobs
		WHERE id = $1`, jobID,
	).Scan(&job.ID, &job.SupplierID, &job.Status, &job.ProductsCreated, &job.ProductsUpdated,
		&failureKind, &errMsg, &job.CreatedAt, &job.StartedAt, &job.CompletedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if failureKind != nil {
		job.FailureKind = *failureKind
	}
	if errMsg != nil {
		job.Error = *errMsg
	}
	return job, nil
}

func (m *Manager) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	rows, err := m.db.Query(ctx, `
		SELECT id, supplier_id, status, products_created, products_updated,
		       failure_kind, error_message, created_at, started_at, completed_at
		FROM crawl_jobs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job := &Job{}
		var failureKind, errMsg *string
		if err := rows.Scan(&job.ID, &job.SupplierID, &job.Status,
			&job.ProductsCreated, &job.ProductsUpdated,
			&failureKind, &errMsg, &job.CreatedAt, &job.StartedAt, &job.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if failureKind != nil {
			job.FailureKind = *failureKind
		}
		if errMsg != nil {
			job.Error = *errMsg
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
