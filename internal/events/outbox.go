package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/db"
)

// Record is one row of event_logs waiting to be relayed.
type Record struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// FetchUnpublished locks up to limit unpublished rows for the current
// transaction. Concurrent relays skip each other's rows.
func FetchUnpublished(ctx context.Context, q db.Querier, limit int) ([]Record, error) {
	rows, err := q.Query(ctx, `
		SELECT id, event_type, appointment_id, payload, created_at
		FROM event_logs
		WHERE published_at IS NULL
		ORDER BY id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.EventType, &r.AppointmentID, &r.Payload, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func MarkPublished(ctx context.Context, q db.Querier, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := q.Exec(ctx, `UPDATE event_logs SET published_at = now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark events published: %w", err)
	}
	return nil
}
