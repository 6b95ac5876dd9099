// README: Sale listing operations.
package sale

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"snabbdeal/internal/types"
)

var (
	ErrNotFound   = errors.New("sale not found")
	ErrBadRequest = errors.New("bad request")
)

type Store interface {
	Create(ctx context.Context, s *Sale) error
	Get(ctx context.Context, id types.ID) (*Sale, error)
	List(ctx context.Context) ([]Sale, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	Type          string
	Name          string
	Phone         string
	Address       types.Address
	Date          time.Time
	PaymentMethod string
	PosterImage   string
	Items         []Item
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.Name == "" || cmd.Phone == "" || len(cmd.Items) == 0 {
		return "", ErrBadRequest
	}

	sale := &Sale{
		ID:            types.ID(uuid.NewString()),
		Type:          cmd.Type,
		Name:          cmd.Name,
		Phone:         cmd.Phone,
		Address:       cmd.Address,
		Date:          cmd.Date,
		PaymentMethod: cmd.PaymentMethod,
		PosterImage:   cmd.PosterImage,
		Items:         cmd.Items,
		CreatedAt:     time.Now(),
	}
	for i := range sale.Items {
		if sale.Items[i].ID == "" {
			sale.Items[i].ID = types.ID(uuid.NewString())
		}
	}

	if err := s.store.Create(ctx, sale); err != nil {
		return "", err
	}
	return sale.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Sale, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.store.List(ctx)
}
