package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillhound/skillhound/internal/config"
)

// Task is a row in the task table.
type Task struct {
	ID        string
	Queue     string
	Payload   []byte
	VisibleAt time.Time
	CreatedAt time.Time
	Attempts  int
}

// Options configures a queue handle.
type Options struct {
	// Name is the logical queue name. Several queues share the task
	// table; each handle only sees its own rows.
	Name string
	// Visibility is how long a claimed task stays hidden from other
	// consumers before it is redelivered.
	Visibility time.Duration
	// PollInterval is the delay between claim attempts in Run.
	PollInterval time.Duration
	// MaxAttempts discards a task after this many deliveries.
	// 0 means redeliver forever.
	MaxAttempts int
	// Logger overrides slog.Default.
	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Visibility <= 0 {
		o.Visibility = config.DefaultQueueVisibility
	}
	if o.PollInterval <= 0 {
		o.PollInterval = config.DefaultQueuePoll
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = config.DefaultMaxAttempts
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Queue is a handle on one logical queue within the shared task table.
type Queue struct {
	db   *sql.DB
	opts Options
}

// New creates a queue handle. Call EnsureTable once at startup before
// publishing or consuming.
func New(db *sql.DB, opts Options) *Queue {
	opts.setDefaults()
	return &Queue{db: db, opts: opts}
}

// Name returns the logical queue name.
func (q *Queue) Name() string { return q.opts.Name }

// EnsureTable creates the task table and its visibility index.
// Timestamps are stored as milliseconds since the epoch so that
// visibility comparisons stay integer-only.
func (q *Queue) EnsureTable(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			queue      TEXT NOT NULL DEFAULT '',
			payload    BLOB,
			visible_at INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			attempts   INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_visible ON tasks (queue, visible_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create task table: %w", err)
	}
	return nil
}

// Publish inserts a task that is immediately visible and returns its id.
func (q *Queue) Publish(ctx context.Context, payload []byte) (string, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO tasks (id, queue, payload, visible_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, q.opts.Name, payload, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to publish task to %s: %w", q.opts.Name, err)
	}
	return id, nil
}

// Claim atomically picks the oldest visible task, hides it for the
// visibility window, and returns it. Returns (nil, nil) when nothing is
// visible.
func (q *Queue) Claim(ctx context.Context) (*Task, error) {
	now := time.Now()
	hideUntil := now.Add(q.opts.Visibility).UnixMilli()

	row := q.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET visible_at = ?, attempts = attempts + 1
		WHERE id = (
			SELECT id FROM tasks
			WHERE queue = ? AND visible_at <= ?
			ORDER BY visible_at ASC
			LIMIT 1
		)
		RETURNING id, queue, payload, visible_at, created_at, attempts`,
		hideUntil, q.opts.Name, now.UnixMilli(),
	)

	var (
		t            Task
		visAt, creAt int64
	)
	err := row.Scan(&t.ID, &t.Queue, &t.Payload, &visAt, &creAt, &t.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim task from %s: %w", q.opts.Name, err)
	}
	t.VisibleAt = time.UnixMilli(visAt)
	t.CreatedAt = time.UnixMilli(creAt)
	return &t, nil
}

// Ack deletes a successfully processed task.
func (q *Queue) Ack(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND queue = ?`, id, q.opts.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to ack task %s: %w", id, err)
	}
	return nil
}

// Nack makes a task immediately visible again.
func (q *Queue) Nack(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE tasks SET visible_at = 0 WHERE id = ? AND queue = ?`, id, q.opts.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to nack task %s: %w", id, err)
	}
	return nil
}

// Len returns the number of tasks in the queue, visible or not.
func (q *Queue) Len(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE queue = ?`, q.opts.Name,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks in %s: %w", q.opts.Name, err)
	}
	return n, nil
}

// Handler processes a claimed task. A nil return acks the task; an
// error nacks it for redelivery.
type Handler func(ctx context.Context, task *Task) error

// Run polls the queue and dispatches visible tasks to handler with at
// most workers handlers in flight. It blocks until ctx is cancelled and
// drains in-flight handlers before returning.
func (q *Queue) Run(ctx context.Context, workers int, handler Handler) {
	log := q.opts.Logger
	log.Info("queue consumer started",
		"queue", q.opts.Name, "workers", workers,
		"visibility", q.opts.Visibility, "poll", q.opts.PollInterval)

	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	ticker := time.NewTicker(q.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			log.Info("queue consumer stopped", "queue", q.opts.Name)
			return
		case <-ticker.C:
			if !q.dispatch(ctx, sem, &wg, handler) {
				wg.Wait()
				return
			}
		}
	}
}

// dispatch claims and hands off tasks until the queue runs dry. It
// returns false when ctx was cancelled mid-claim.
func (q *Queue) dispatch(ctx context.Context, sem chan struct{}, wg *sync.WaitGroup, handler Handler) bool {
	log := q.opts.Logger
	for {
		task, err := q.Claim(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			log.Warn("failed to claim task", "queue", q.opts.Name, "error", err)
			return true
		}
		if task == nil {
			return true
		}

		if q.opts.MaxAttempts > 0 && task.Attempts > q.opts.MaxAttempts {
			log.Warn("task exceeded max attempts, discarding",
				"queue", q.opts.Name, "id", task.ID, "attempts", task.Attempts)
			_ = q.Ack(ctx, task.ID)
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			_ = q.Nack(context.Background(), task.ID)
			return false
		}

		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := handler(ctx, t); err != nil {
				log.Warn("task handler failed, redelivering",
					"queue", q.opts.Name, "id", t.ID, "error", err)
				// The ack/nack must land even when ctx is already done.
				_ = q.Nack(context.Background(), t.ID)
				return
			}
			_ = q.Ack(context.Background(), t.ID)
		}(task)
	}
}
