package testimonial

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snabbdeal/internal/types"
)

type memStore struct {
	byDelivery map[types.ID]Testimonial
}

func newMemStore() *memStore {
	return &memStore{byDelivery: make(map[types.ID]Testimonial)}
}

func (m *memStore) Create(_ context.Context, t *Testimonial) error {
	if _, ok := m.byDelivery[t.DeliveryID]; ok {
		return ErrAlreadyReviewed
	}
	m.byDelivery[t.DeliveryID] = *t
	return nil
}

func (m *memStore) List(context.Context) ([]Testimonial, error) {
	var out []Testimonial
	for _, t := range m.byDelivery {
		out = append(out, t)
	}
	return out, nil
}

type fakeDeliveries map[types.ID]bool

func (f fakeDeliveries) Exists(_ context.Context, id types.ID) (bool, error) {
	return f[id], nil
}

func validCmd() CreateCommand {
	return CreateCommand{
		DeliveryID: "d-1",
		Name:       "Alice",
		Email:      "alice@example.com",
		Message:    "Fast and careful.",
		Feedback:   "positive",
	}
}

func TestCreateStoresReview(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, fakeDeliveries{"d-1": true})

	got, err := svc.Create(context.Background(), validCmd())
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, types.ID("d-1"), got.DeliveryID)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateUnknownDelivery(t *testing.T) {
	svc := NewService(newMemStore(), fakeDeliveries{})

	_, err := svc.Create(context.Background(), validCmd())
	assert.ErrorIs(t, err, ErrDeliveryMissing)
}

func TestCreateOncePerDelivery(t *testing.T) {
	svc := NewService(newMemStore(), fakeDeliveries{"d-1": true})

	_, err := svc.Create(context.Background(), validCmd())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCmd())
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemStore(), fakeDeliveries{"d-1": true})

	cmd := validCmd()
	cmd.Email = ""
	_, err := svc.Create(context.Background(), cmd)
	assert.ErrorIs(t, err, ErrBadRequest)
}
