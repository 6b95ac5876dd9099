// README: Partner store backed by PostgreSQL.
package partner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

func (s *PGStore) Create(ctx context.Context, p *Partner) error {
	docs, err := json.Marshal(p.Documents)
	if err != nil {
		return fmt.Errorf("marshal documents: %w", err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO partners (
            id, email, name, phone, item_type, business, platforms,
            location, lat, lng, pickup_from, pickup_to,
            documents, payment_method, verified, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12,
            $13, $14, $15, $16
        )`,
		string(p.ID), p.Email, p.Name, p.Phone, p.ItemType, p.Business, p.Platforms,
		p.Address.Location, p.Address.Lat, p.Address.Lng, p.PickupFrom, p.PickupTo,
		docs, p.PaymentMethod, p.Verified, p.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Partner, error) {
	return s.scanOne(s.db.QueryRow(ctx, selectPartner+` WHERE id = $1`, string(id)))
}

func (s *PGStore) GetByEmail(ctx context.Context, email string) (*Partner, error) {
	return s.scanOne(s.db.QueryRow(ctx, selectPartner+` WHERE email = $1`, email))
}

func (s *PGStore) List(ctx context.Context) ([]Partner, error) {
	rows, err := s.db.Query(ctx, selectPartner+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *PGStore) SetVerified(ctx context.Context, id types.ID, verified bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE partners SET verified = $1 WHERE id = $2`, verified, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectPartner = `
        SELECT id, email, name, phone, item_type, business, platforms,
               location, lat, lng, pickup_from, pickup_to,
               documents, payment_method, verified, created_at
        FROM partners`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PGStore) scanOne(row pgx.Row) (*Partner, error) {
	p, err := scanPartner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPartner(row rowScanner) (*Partner, error) {
	var p Partner
	var docs []byte
	err := row.Scan(
		&p.ID, &p.Email, &p.Name, &p.Phone, &p.ItemType, &p.Business, &p.Platforms,
		&p.Address.Location, &p.Address.Lat, &p.Address.Lng, &p.PickupFrom, &p.PickupTo,
		&docs, &p.PaymentMethod, &p.Verified, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &p.Documents); err != nil {
			return nil, fmt.Errorf("unmarshal documents: %w", err)
		}
	}
	return &p, nil
}
