// README: Testimonial service: one review per delivery.
package testimonial

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"snabbdeal/internal/types"
)

var (
	ErrBadRequest      = errors.New("bad request")
	ErrDeliveryMissing = errors.New("delivery not found")
	ErrAlreadyReviewed = errors.New("delivery already reviewed")
)

type Store interface {
	// Create persists the review; duplicates per delivery report
	// ErrAlreadyReviewed.
	Create(ctx context.Context, t *Testimonial) error
	List(ctx context.Context) ([]Testimonial, error)
}

// DeliveryDirectory is the slice of the delivery module this service needs.
type DeliveryDirectory interface {
	Exists(ctx context.Context, id types.ID) (bool, error)
}

type Service struct {
	store      Store
	deliveries DeliveryDirectory
}

func NewService(store Store, deliveries DeliveryDirectory) *Service {
	return &Service{store: store, deliveries: deliveries}
}

type CreateCommand struct {
	DeliveryID types.ID
	Name       string
	Email      string
	Message    string
	Feedback   string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Testimonial, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Message == "" {
		return nil, ErrBadRequest
	}

	ok, err := s.deliveries.Exists(ctx, cmd.DeliveryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDeliveryMissing
	}

	t := &Testimonial{
		ID:         types.ID(uuid.NewString()),
		DeliveryID: cmd.DeliveryID,
		Name:       cmd.Name,
		Email:      cmd.Email,
		Message:    cmd.Message,
		Feedback:   cmd.Feedback,
		CreatedAt:  time.Now(),
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]Testimonial, error) {
	return s.store.List(ctx)
}
