// README: Pickup store backed by PostgreSQL.
package pickup

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"snabbdeal/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

var _ Store = (*PGStore)(nil)

// CreateOrGet relies on the unique index on buy_intent: the insert is a
// no-op when a pickup already exists, and the follow-up select returns
// whichever record won.
func (s *PGStore) CreateOrGet(ctx context.Context, p *Pickup) (*Pickup, error) {
	id := types.ID(uuid.NewString())
	_, err := s.db.Exec(ctx, `
        INSERT INTO pickups (id, buy_intent, sell_intent, partner_id, status, created_at)
        VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
        ON CONFLICT (buy_intent) DO NOTHING`,
		string(id), string(p.BuyIntent), string(p.SellIntent), string(p.PartnerID),
		string(p.Status), time.Now(),
	)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx, selectPickup+` WHERE buy_intent = $1`, string(p.BuyIntent))
	return scanPickup(row)
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Pickup, error) {
	row := s.db.QueryRow(ctx, selectPickup+` WHERE id = $1`, string(id))
	p, err := scanPickup(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *PGStore) List(ctx context.Context) ([]Pickup, error) {
	rows, err := s.db.Query(ctx, selectPickup+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pickup
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PGStore) SetStatus(ctx context.Context, id types.ID, status Status) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE pickups SET status = $1 WHERE id = $2`, string(status), string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectPickup = `
        SELECT id, buy_intent, COALESCE(sell_intent, ''), COALESCE(partner_id, ''), status, created_at
        FROM pickups`

func scanPickup(row interface{ Scan(dest ...any) error }) (*Pickup, error) {
	var p Pickup
	if err := row.Scan(&p.ID, &p.BuyIntent, &p.SellIntent, &p.PartnerID, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
