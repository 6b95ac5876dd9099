// README: Sale store backed by PostgreSQL.
package sale

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

func (s *PGStore) Create(ctx context.Context, sale *Sale) error {
	items, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO sales (
            id, type, name, phone, location, lat, lng,
            date, payment_method, poster_image, items, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(sale.ID), sale.Type, sale.Name, sale.Phone,
		sale.Address.Location, sale.Address.Lat, sale.Address.Lng,
		sale.Date, sale.PaymentMethod, sale.PosterImage, items, sale.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Sale, error) {
	row := s.db.QueryRow(ctx, selectSale+` WHERE id = $1`, string(id))
	sale, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sale, err
}

func (s *PGStore) List(ctx context.Context) ([]Sale, error) {
	rows, err := s.db.Query(ctx, selectSale+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sale)
	}
	return out, rows.Err()
}

const selectSale = `
        SELECT id, type, name, phone, location, lat, lng,
               date, payment_method, poster_image, items, created_at
        FROM sales`

func scanSale(row interface{ Scan(dest ...any) error }) (*Sale, error) {
	var sale Sale
	var items []byte
	err := row.Scan(
		&sale.ID, &sale.Type, &sale.Name, &sale.Phone,
		&sale.Address.Location, &sale.Address.Lat, &sale.Address.Lng,
		&sale.Date, &sale.PaymentMethod, &sale.PosterImage, &items, &sale.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &sale.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &sale, nil
}
