// README: Session ledger backed by PostgreSQL.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"snabbdeal/internal/types"
)

// PGLedger stores session records in the payment_sessions table, keyed
// uniquely by order id.
type PGLedger struct {
	db *pgxpool.Pool
}

func NewPGLedger(db *pgxpool.Pool) *PGLedger {
	return &PGLedger{db: db}
}

// Upsert replaces the order's record in a single statement, so the
// at-most-one invariant holds at every observable point even under
// concurrent checkouts for the same order.
func (l *PGLedger) Upsert(ctx context.Context, orderID types.ID, sessionID string) error {
	_, err := l.db.Exec(ctx, `
        INSERT INTO payment_sessions (order_id, session_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (order_id)
        DO UPDATE SET session_id = EXCLUDED.session_id, created_at = EXCLUDED.created_at`,
		string(orderID), sessionID,
	)
	if err != nil {
		return fmt.Errorf("upsert session for order %s: %w", orderID, err)
	}
	return nil
}

func (l *PGLedger) Find(ctx context.Context, orderID types.ID) (SessionRecord, error) {
	row := l.db.QueryRow(ctx, `
        SELECT order_id, session_id, created_at
        FROM payment_sessions
        WHERE order_id = $1`, string(orderID),
	)

	var rec SessionRecord
	err := row.Scan(&rec.OrderID, &rec.SessionID, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRecord{}, ErrNotFound
	}
	if err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}
