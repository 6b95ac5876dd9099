// README: Payment confirmation: poll the provider, settle the order once.
package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"snabbdeal/internal/types"
)

// ConfirmResult reports the poll outcome. Transitioned is true only for the
// caller whose MarkPaid actually flipped the flag; follow-up side effects
// (scheduling a pickup, notifying the seller) belong to that caller alone.
type ConfirmResult struct {
	Settled      bool
	Transitioned bool
}

// Confirmer resolves an order's checkout session against the provider's
// settlement status. Safe to invoke concurrently for the same order.
type Confirmer struct {
	ledger   Ledger
	provider Provider
	orders   OrderStore
	log      *zap.Logger
}

func NewConfirmer(ledger Ledger, provider Provider, orders OrderStore, log *zap.Logger) *Confirmer {
	return &Confirmer{ledger: ledger, provider: provider, orders: orders, log: log}
}

func (c *Confirmer) Confirm(ctx context.Context, orderID types.ID) (ConfirmResult, error) {
	order, err := c.orders.GetOrder(ctx, orderID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if order.Paid {
		// Duplicate confirmation callback; nothing left to do.
		return ConfirmResult{Settled: true}, nil
	}

	rec, err := c.ledger.Find(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return ConfirmResult{}, fmt.Errorf("%w: order %s", ErrNoCheckoutInProgress, orderID)
	}
	if err != nil {
		return ConfirmResult{}, err
	}

	status, err := c.provider.SessionStatus(ctx, rec.SessionID)
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("%w: session %s: %v", ErrProvider, rec.SessionID, err)
	}
	if status != StatusPaid {
		// Pending, failed, or expired is a valid poll result, not an error.
		return ConfirmResult{Settled: false}, nil
	}

	transitioned, err := c.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return ConfirmResult{}, err
	}
	if transitioned {
		c.log.Info("order settled",
			zap.String("order_id", string(orderID)),
			zap.String("session_id", rec.SessionID))
	}
	return ConfirmResult{Settled: true, Transitioned: transitioned}, nil
}
