package jobs

import (
	"context"
	"errors"

	"github.com/Lumby98/web-bot/internal/crawler"
	"github.com/Lumby98/web-bot/internal/models"
	"github.com/Lumby98/web-bot/internal/queue"
)

// StartWorker consumes queued crawl tasks until ctx is cancelled. Tasks
// run one at a time; the crawler additionally serializes runs per
// supplier.
func (m *Manager) StartWorker(ctx context.Context) {
	m.logger.Info("job worker started")

	for {
		task, err := m.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrQueueClosed) {
				m.logger.Info("job worker stopping")
				return
			}
			m.logger.Error("failed to pop task", "error", err)
			continue
		}
		m.runTask(ctx, task)
	}
}

func (m *Manager) runTask(ctx context.Context, task *queue.Task) {
	m.logger.Info("processing job", "id", task.ID, "supplier", task.SupplierID)

	if err := m.markRunning(ctx, task.ID); err != nil {
		m.logger.Error("failed to mark job running", "id", task.ID, "error", err)
		return
	}

	reconciled, err := m.crawler.Run(ctx, task.SupplierID, task.Username, task.Password)
	if err != nil {
		kind := crawler.KindOf(err)
		m.logger.Error("job failed", "id", task.ID, "kind", kind, "error", err)
		m.markFailed(ctx, task.ID, string(kind), err)
		return
	}

	if err := m.publisher.PublishCatalogReconciled(ctx, task.SupplierID, reconciled); err != nil {
		m.logger.Error("failed to publish run event", "id", task.ID, "error", err)
	}

	if err := m.markCompleted(ctx, task.ID, reconciled); err != nil {
		m.logger.Error("failed to mark job completed", "id", task.ID, "error", err)
		return
	}
	m.logger.Info("job completed", "id", task.ID, "records", len(reconciled))
}

func (m *Manager) markRunning(ctx context.Context, jobID string) error {
	return m.db.Exec(ctx, `
		UPDATE crawl_jobs
		SET status = $2, started_at = NOW()
		WHERE id = $1`,
		jobID, StatusRunning)
}

func (m *Manager) markCompleted(ctx context.Context, jobID string, reconciled []models.ReconciledProduct) error {
	var created, updated int
	for _, rec := range reconciled {
		switch rec.Op {
		case models.OpCreated:
			created++
		case models.OpUpdated:
			updated++
		}
	}
	return m.db.Exec(ctx, `
		UPDATE crawl_jobs
		SET status = $2, products_created = $3, products_updated = $4, completed_at = NOW()
		WHERE id = $1`,
		jobID, StatusCompleted, created, updated)
}

func (m *Manager) markFailed(ctx context.Context, jobID, kind string, cause error) {
	err := m.db.Exec(ctx, `
		UPDATE crawl_jobs
		SET status = $2, failure_kind = NULLIF($3, ''), error_message = $4, completed_at = NOW()
		WHERE id = $1`,
		jobID, StatusFailed, kind, cause.Error())
	if err != nil {
		m.logger.Error("failed to mark job failed", "id", jobID, "error", err)
	}
}
