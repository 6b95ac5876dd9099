// README: payment.OrderStore adapter over buyer intents.
package intent

import (
	"context"
	"errors"
	"fmt"

	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/types"
)

// OrderAdapter exposes buyer intents to the payment confirmer as payable
// orders.
type OrderAdapter struct {
	store Store
}

func NewOrderAdapter(store Store) *OrderAdapter {
	return &OrderAdapter{store: store}
}

var _ payment.OrderStore = (*OrderAdapter)(nil)

func (a *OrderAdapter) GetOrder(ctx context.Context, id types.ID) (payment.Order, error) {
	b, err := a.store.GetBuyer(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return payment.Order{}, fmt.Errorf("%w: buyer intent %s", payment.ErrOrderNotFound, id)
	}
	if err != nil {
		return payment.Order{}, err
	}
	return payment.Order{ID: b.ID, Paid: b.Paid}, nil
}

func (a *OrderAdapter) MarkPaid(ctx context.Context, id types.ID) (bool, error) {
	return a.store.MarkBuyerPaid(ctx, id)
}
