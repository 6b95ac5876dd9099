// README: Intent store backed by PostgreSQL.
package intent

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"snabbdeal/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

var _ Store = (*PGStore)(nil)

func (s *PGStore) CreateBuyer(ctx context.Context, b *BuyerIntent) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO buyer_intents (
            id, email, name, message, phone,
            location, lat, lng,
            item_tag, item_link, item_price,
            acknowledged, paid, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		string(b.ID), b.Email, b.Name, b.Message, b.Phone,
		b.Address.Location, b.Address.Lat, b.Address.Lng,
		b.Item.Tag, b.Item.Link, b.Item.Price.String(),
		b.Acknowledged, b.Paid, b.CreatedAt,
	)
	return err
}

func (s *PGStore) GetBuyer(ctx context.Context, id types.ID) (*BuyerIntent, error) {
	row := s.db.QueryRow(ctx, selectBuyer+` WHERE id = $1`, string(id))
	b, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *PGStore) MarkBuyerPaid(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE buyer_intents SET paid = TRUE
        WHERE id = $1 AND paid = FALSE`, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) AcknowledgeBuyer(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE buyer_intents SET acknowledged = TRUE WHERE id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ListUnscheduledBuyers(ctx context.Context) ([]BuyerIntent, error) {
	rows, err := s.db.Query(ctx, selectBuyer+`
        WHERE acknowledged = TRUE
          AND id NOT IN (SELECT buy_intent FROM pickups)
        ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BuyerIntent
	for rows.Next() {
		b, err := scanBuyer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *PGStore) CreateSeller(ctx context.Context, sell *SellerIntent) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO seller_intents (
            id, email, name, phone,
            location, lat, lng,
            pickup_time, payment_method, buy_intent, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		string(sell.ID), sell.Email, sell.Name, sell.Phone,
		sell.Address.Location, sell.Address.Lat, sell.Address.Lng,
		sell.PickupTime, sell.PaymentMethod, string(sell.BuyIntent), sell.CreatedAt,
	)
	return err
}

func (s *PGStore) GetSeller(ctx context.Context, id types.ID) (*SellerIntent, error) {
	row := s.db.QueryRow(ctx, selectSeller+` WHERE id = $1`, string(id))
	return scanSellerRow(row)
}

func (s *PGStore) GetSellerByBuyIntent(ctx context.Context, buyIntent types.ID) (*SellerIntent, error) {
	row := s.db.QueryRow(ctx, selectSeller+` WHERE buy_intent = $1`, string(buyIntent))
	return scanSellerRow(row)
}

const selectBuyer = `
        SELECT id, email, name, message, phone,
               location, lat, lng,
               item_tag, item_link, item_price,
               acknowledged, paid, created_at
        FROM buyer_intents`

const selectSeller = `
        SELECT id, email, name, phone,
               location, lat, lng,
               pickup_time, payment_method, buy_intent, created_at
        FROM seller_intents`

func scanBuyer(row interface{ Scan(dest ...any) error }) (*BuyerIntent, error) {
	var b BuyerIntent
	var price string
	err := row.Scan(
		&b.ID, &b.Email, &b.Name, &b.Message, &b.Phone,
		&b.Address.Location, &b.Address.Lat, &b.Address.Lng,
		&b.Item.Tag, &b.Item.Link, &price,
		&b.Acknowledged, &b.Paid, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanSellerRow(row pgx.Row) (*SellerIntent, error) {
	var sell SellerIntent
	err := row.Scan(
		&sell.ID, &sell.Email, &sell.Name, &sell.Phone,
		&sell.Address.Location, &sell.Address.Lat, &sell.Address.Lng,
		&sell.PickupTime, &sell.PaymentMethod, &sell.BuyIntent, &sell.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSellerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sell, nil
}
