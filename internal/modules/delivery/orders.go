// README: payment.OrderStore adapter over deliveries.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/types"
)

// OrderAdapter exposes deliveries to the payment confirmer as payable
// orders.
type OrderAdapter struct {
	store Store
}

func NewOrderAdapter(store Store) *OrderAdapter {
	return &OrderAdapter{store: store}
}

var _ payment.OrderStore = (*OrderAdapter)(nil)

func (a *OrderAdapter) GetOrder(ctx context.Context, id types.ID) (payment.Order, error) {
	d, err := a.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return payment.Order{}, fmt.Errorf("%w: delivery %s", payment.ErrOrderNotFound, id)
	}
	if err != nil {
		return payment.Order{}, err
	}
	return payment.Order{ID: d.ID, Paid: d.Paid}, nil
}

func (a *OrderAdapter) MarkPaid(ctx context.Context, id types.ID) (bool, error) {
	return a.store.MarkPaid(ctx, id)
}
