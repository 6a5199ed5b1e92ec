// Package repository holds the SQL access for the booking audit trail.
package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/seat-arbiter/internal/model"
)

// OutcomeRecord mirrors a row of the booking_outcomes table.
type OutcomeRecord struct {
    ID          uint64    // booking_outcomes.id
    SeatNumber  int       // booking_outcomes.seat_number
    RequesterID string    // booking_outcomes.requester_id
    Priority    string    // booking_outcomes.priority
    Outcome     string    // booking_outcomes.outcome
    HolderID    *string   // booking_outcomes.holder_id (nullable)
    Sequence    uint64    // booking_outcomes.sequence
    CreatedAt   time.Time // booking_outcomes.created_at
}

// OutcomeRepo appends booking outcomes to an audit table.  It is write
// history only; nothing reads it back into the seat pool.
type OutcomeRepo struct {
    db  *sql.DB
    now func() time.Time
}

// NewOutcomeRepo returns a new OutcomeRepo bound to the given database.
func NewOutcomeRepo(db *sql.DB) *OutcomeRepo {
    return &OutcomeRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Record inserts one outcome.  The holder column is NULL for invalid
// seat outcomes.
func (r *OutcomeRepo) Record(ctx context.Context, o model.Outcome) error {
    const q = `INSERT INTO booking_outcomes (seat_number, requester_id, priority, outcome, holder_id, sequence, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    var holder sql.NullString
    if o.HolderID != "" {
        holder = sql.NullString{String: o.HolderID, Valid: true}
    }
    _, err := r.db.ExecContext(ctx, q,
        o.SeatNumber, o.RequesterID, string(o.Priority), string(o.Kind), holder, o.Sequence, r.now(),
    )
    return err
}

// ListBySeat returns every recorded outcome for a seat, oldest first.
// Out-of-range seat numbers are stored too, so operators can audit
// invalid requests the same way.
func (r *OutcomeRepo) ListBySeat(ctx context.Context, seatNumber int) ([]OutcomeRecord, error) {
    const q = `SELECT id, seat_number, requester_id, priority, outcome, holder_id, sequence, created_at
               FROM booking_outcomes WHERE seat_number = ? ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, seatNumber)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []OutcomeRecord
    for rows.Next() {
        var rec OutcomeRecord
        var holder sql.NullString
        if err := rows.Scan(&rec.ID, &rec.SeatNumber, &rec.RequesterID, &rec.Priority,
            &rec.Outcome, &holder, &rec.Sequence, &rec.CreatedAt); err != nil {
            return nil, err
        }
        if holder.Valid {
            h := holder.String
            rec.HolderID = &h
        }
        out = append(out, rec)
    }
    return out, rows.Err()
}
