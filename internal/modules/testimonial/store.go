// README: Testimonial store backed by PostgreSQL.
package testimonial

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

var _ Store = (*PGStore)(nil)

func (s *PGStore) Create(ctx context.Context, t *Testimonial) error {
	tag, err := s.db.Exec(ctx, `
        INSERT INTO testimonials (id, delivery_id, name, email, message, feedback, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (delivery_id) DO NOTHING`,
		string(t.ID), string(t.DeliveryID), t.Name, t.Email, t.Message, t.Feedback, t.CreatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyReviewed
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]Testimonial, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, delivery_id, name, email, message, feedback, created_at
        FROM testimonials ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.DeliveryID, &t.Name, &t.Email, &t.Message, &t.Feedback, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
