// README: Pickup scheduling and tracking.
package pickup

import (
	"context"
	"errors"

	"snabbdeal/internal/types"
)

var (
	ErrNotFound      = errors.New("pickup not found")
	ErrInvalidStatus = errors.New("invalid pickup status")
)

type Store interface {
	// CreateOrGet inserts the pickup unless one already exists for its buyer
	// intent, and returns the live record either way.
	CreateOrGet(ctx context.Context, p *Pickup) (*Pickup, error)
	Get(ctx context.Context, id types.ID) (*Pickup, error)
	List(ctx context.Context) ([]Pickup, error)
	SetStatus(ctx context.Context, id types.ID, status Status) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Schedule creates the pickup for a settled buyer intent. Calling it again
// for the same intent returns the existing pickup's id, so confirmation
// retries can always recover the tracking id.
func (s *Service) Schedule(ctx context.Context, buyIntent, sellIntent, partnerID types.ID) (types.ID, error) {
	p, err := s.store.CreateOrGet(ctx, &Pickup{
		BuyIntent:  buyIntent,
		SellIntent: sellIntent,
		PartnerID:  partnerID,
		Status:     StatusAcknowledged,
	})
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Pickup, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pickup, error) {
	return s.store.List(ctx)
}

func (s *Service) SetStatus(ctx context.Context, id types.ID, status Status) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return s.store.SetStatus(ctx, id, status)
}
