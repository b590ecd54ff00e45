package notify

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalBackend is a Backend that persists pending requests in the
// engine's SQLite database and "delivers" due notifications to the log
// and a delivery table. It stands in for the host platform's
// notification center in the CLI deployment.
type LocalBackend struct {
	db  *sql.DB
	log *zap.Logger
}

// NewLocalBackend wires a backend over the store's database. The
// notifications and deliveries tables are created by the store schema.
func NewLocalBackend(db *sql.DB, log *zap.Logger) *LocalBackend {
	return &LocalBackend{db: db, log: log}
}

func (b *LocalBackend) Enqueue(ctx context.Context, req Request) error {
	var fireAt any
	if !req.FireAt.IsZero() {
		fireAt = req.FireAt.Unix()
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notifications
			(id, category, title, body, fire_at, fire_hour, fire_minute, repeats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, string(req.Category), req.Title, req.Body,
		fireAt, req.FireTime.Hour, req.FireTime.Minute, req.Repeats,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", req.ID, err)
	}
	return nil
}

func (b *LocalBackend) Cancel(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := b.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	return nil
}

func (b *LocalBackend) ListPending(ctx context.Context) (map[string]struct{}, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT id FROM notifications`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

// Deliver fires every notification due at or before now. One-shots are
// removed once delivered; repeating requests fire when their
// time-of-day has passed today and they have not been delivered today.
// Returns the number of notifications delivered.
func (b *LocalBackend) Deliver(ctx context.Context, now time.Time) (int, error) {
	delivered := 0

	n, err := b.deliverOneShots(ctx, now)
	if err != nil {
		return delivered, err
	}
	delivered += n

	n, err = b.deliverRepeating(ctx, now)
	if err != nil {
		return delivered, err
	}
	return delivered + n, nil
}

func (b *LocalBackend) deliverOneShots(ctx context.Context, now time.Time) (int, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, title, body FROM notifications
		WHERE repeats = 0 AND fire_at IS NOT NULL AND fire_at <= ?`,
		now.Unix())
	if err != nil {
		return 0, fmt.Errorf("query due one-shots: %w", err)
	}
	due, err := scanDue(rows)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range due {
		if err := b.recordDelivery(ctx, d, now); err != nil {
			b.log.Warn("record delivery failed", zap.String("id", d.id), zap.Error(err))
			continue
		}
		if _, err := b.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, d.id); err != nil {
			b.log.Warn("remove delivered one-shot failed", zap.String("id", d.id), zap.Error(err))
		}
		count++
	}
	return count, nil
}

func (b *LocalBackend) deliverRepeating(ctx context.Context, now time.Time) (int, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	minutes := now.Hour()*60 + now.Minute()

	rows, err := b.db.QueryContext(ctx, `
		SELECT id, title, body FROM notifications
		WHERE repeats = 1 AND (fire_hour * 60 + fire_minute) <= ?
		  AND id NOT IN (
			SELECT notification_id FROM deliveries WHERE delivered_at >= ?
		  )`,
		minutes, startOfDay.Unix())
	if err != nil {
		return 0, fmt.Errorf("query due repeating: %w", err)
	}
	due, err := scanDue(rows)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, d := range due {
		if err := b.recordDelivery(ctx, d, now); err != nil {
			b.log.Warn("record delivery failed", zap.String("id", d.id), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}

type dueNotification struct {
	id    string
	title string
	body  string
}

func scanDue(rows *sql.Rows) ([]dueNotification, error) {
	defer rows.Close()
	var due []dueNotification
	for rows.Next() {
		var d dueNotification
		if err := rows.Scan(&d.id, &d.title, &d.body); err != nil {
			return nil, fmt.Errorf("scan due notification: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func (b *LocalBackend) recordDelivery(ctx context.Context, d dueNotification, now time.Time) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO deliveries (id, notification_id, title, body, delivered_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), d.id, d.title, d.body, now.Unix())
	if err != nil {
		return err
	}
	b.log.Info("notification delivered",
		zap.String("id", d.id),
		zap.String("title", d.title),
		zap.String("body", d.body),
	)
	return nil
}

// RunLoop delivers due notifications every interval until ctx is
// cancelled. One pass runs immediately on entry.
func (b *LocalBackend) RunLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := b.Deliver(ctx, time.Now()); err != nil {
			b.log.Warn("delivery pass failed", zap.Error(err))
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
