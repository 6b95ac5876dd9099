// README: Delivery store backed by PostgreSQL.
package delivery

import (
	"context"
	"encoding/json"
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

func (s *PGStore) Create(ctx context.Context, d *Delivery) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO deliveries (
            id, kind, status, paid,
            buyer_name, buyer_email, buyer_phone,
            buyer_location, buyer_lat, buyer_lng, buyer_comment,
            seller_date, seller_time, seller_phone,
            seller_location, seller_lat, seller_lng, seller_payment_method,
            item_note, item_price, item_link,
            sale_id, sale_items, contact_name, contact_phone,
            contact_location, contact_lat, contact_lng, delivery_time,
            created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
                  $15, $16, $17, $18, $19, $20, $21, NULLIF($22, ''), $23, $24,
                  $25, $26, $27, $28, $29, $30)`,
		string(d.ID), string(d.Kind), string(d.Status), d.Paid,
		d.Buyer.Name, d.Buyer.Email, d.Buyer.Phone,
		d.Buyer.Address.Location, d.Buyer.Address.Lat, d.Buyer.Address.Lng, d.Buyer.Comment,
		d.Seller.Date, d.Seller.Time, d.Seller.Phone,
		d.Seller.Address.Location, d.Seller.Address.Lat, d.Seller.Address.Lng, d.Seller.PaymentMethod,
		d.Item.Note, d.Item.Price.String(), d.Item.Link,
		string(d.SaleID), items, d.Name, d.Phone,
		d.Address.Location, d.Address.Lat, d.Address.Lng, d.Time,
		d.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id types.ID) (*Delivery, error) {
	row := s.db.QueryRow(ctx, selectDelivery+` WHERE id = $1`, string(id))
	d, err := scanDelivery(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (s *PGStore) List(ctx context.Context, kind Kind) ([]Delivery, error) {
	rows, err := s.db.Query(ctx, selectDelivery+`
        WHERE kind = $1 ORDER BY created_at DESC`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *PGStore) MarkPaid(ctx context.Context, id types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE deliveries SET paid = TRUE
        WHERE id = $1 AND paid = FALSE`, string(id))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, img *types.Image) (bool, error) {
	var (
		url string
		key string
	)
	if img != nil {
		url, key = img.URL, img.Key
	}
	tag, err := s.db.Exec(ctx, `
        UPDATE deliveries
        SET status = $1,
            image_url = COALESCE(NULLIF($2, ''), image_url),
            image_key = COALESCE(NULLIF($3, ''), image_key)
        WHERE id = $4 AND status = $5`,
		string(to), url, key, string(id), string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

const selectDelivery = `
        SELECT id, kind, status, paid,
               buyer_name, buyer_email, buyer_phone,
               buyer_location, buyer_lat, buyer_lng, buyer_comment,
               seller_date, seller_time, seller_phone,
               seller_location, seller_lat, seller_lng, seller_payment_method,
               item_note, item_price, item_link,
               COALESCE(sale_id, ''), sale_items, contact_name, contact_phone,
               contact_location, contact_lat, contact_lng, delivery_time,
               COALESCE(image_url, ''), COALESCE(image_key, ''),
               created_at
        FROM deliveries`

func scanDelivery(row interface{ Scan(dest ...any) error }) (*Delivery, error) {
	var (
		d        Delivery
		price    string
		items    []byte
		imageURL string
		imageKey string
	)
	err := row.Scan(
		&d.ID, &d.Kind, &d.Status, &d.Paid,
		&d.Buyer.Name, &d.Buyer.Email, &d.Buyer.Phone,
		&d.Buyer.Address.Location, &d.Buyer.Address.Lat, &d.Buyer.Address.Lng, &d.Buyer.Comment,
		&d.Seller.Date, &d.Seller.Time, &d.Seller.Phone,
		&d.Seller.Address.Location, &d.Seller.Address.Lat, &d.Seller.Address.Lng, &d.Seller.PaymentMethod,
		&d.Item.Note, &price, &d.Item.Link,
		&d.SaleID, &items, &d.Name, &d.Phone,
		&d.Address.Location, &d.Address.Lat, &d.Address.Lng, &d.Time,
		&imageURL, &imageKey,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &d.Items); err != nil {
			return nil, err
		}
	}
	if imageURL != "" || imageKey != "" {
		d.Image = &types.Image{URL: imageURL, Key: imageKey}
	}
	return &d, nil
}
