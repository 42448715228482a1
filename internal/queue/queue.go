package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Entry is one pending social post.
type Entry struct {
	ID         string
	ProductID  string
	Platform   string
	Body       string
	EnqueuedAt time.Time
}

// PostQueue is a durable FIFO of posts waiting for the scheduler. Rows
// move from status 'Q' (queued) to 'P' (posted); Dequeue claims the oldest
// queued row atomically so concurrent consumers never publish the same
// entry twice.
type PostQueue struct {
	DB *sql.DB
}

func Open(databaseURL string) (*PostQueue, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	return &PostQueue{DB: db}, nil
}

func (q *PostQueue) Init(ctx context.Context) error {
	_, err := q.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS post_queue (
			id          TEXT PRIMARY KEY,
			product_id  TEXT NOT NULL,
			platform    TEXT NOT NULL,
			body        TEXT NOT NULL,
			status      TEXT NOT NULL DEFAULT 'Q',
			enqueued_at TIMESTAMPTZ NOT NULL,
			posted_at   TIMESTAMPTZ
		)`)
	if err != nil {
		return fmt.Errorf("create post_queue table: %w", err)
	}
	return nil
}

func (q *PostQueue) Enqueue(ctx context.Context, productID, platform, body string) error {
	_, err := q.DB.ExecContext(ctx, `
		INSERT INTO post_queue (id, product_id, platform, body, status, enqueued_at)
		VALUES ($1, $2, $3, $4, 'Q', $5)
	`, uuid.New().String(), productID, platform, body, time.Now())
	if err != nil {
		return fmt.Errorf("enqueue post for %s/%s: %w", platform, productID, err)
	}
	return nil
}

// Dequeue claims the oldest queued entry and marks it posted. Returns
// (nil, nil) when the queue is empty.
func (q *PostQueue) Dequeue(ctx context.Context) (*Entry, error) {
	tx, err := q.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("dequeue post: %w", err)
	}
	defer tx.Rollback()

	var e Entry
	err = tx.QueryRowContext(ctx, `
		SELECT id, product_id, platform, body, enqueued_at
		FROM post_queue
		WHERE status = 'Q'
		ORDER BY enqueued_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`).Scan(&e.ID, &e.ProductID, &e.Platform, &e.Body, &e.EnqueuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue post: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE post_queue SET status = 'P', posted_at = $1 WHERE id = $2
	`, time.Now(), e.ID); err != nil {
		return nil, fmt.Errorf("dequeue post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("dequeue post: %w", err)
	}
	return &e, nil
}

// Pending reports how many entries are still queued.
func (q *PostQueue) Pending(ctx context.Context) (int, error) {
	var n int
	err := q.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM post_queue WHERE status = 'Q'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending posts: %w", err)
	}
	return n, nil
}

func (q *PostQueue) Close() error {
	return q.DB.Close()
}
