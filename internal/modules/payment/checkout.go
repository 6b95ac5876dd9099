// README: Checkout orchestration: quote, create provider session, record it.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"snabbdeal/internal/modules/pricing"
	"snabbdeal/internal/types"
)

// Checkout prices an order and opens a provider checkout session for it,
// superseding any previous session for the same order. One Checkout is
// built per flow, since the flows run different distance thresholds.
type Checkout struct {
	policy      pricing.Policy
	ledger      Ledger
	provider    Provider
	keys        KeyStore // optional; a fresh key is minted when absent
	currency    string
	frontendURL string
	log         *zap.Logger
}

func NewCheckout(policy pricing.Policy, ledger Ledger, provider Provider, keys KeyStore, currency, frontendURL string, log *zap.Logger) *Checkout {
	return &Checkout{
		policy:      policy,
		ledger:      ledger,
		provider:    provider,
		keys:        keys,
		currency:    currency,
		frontendURL: frontendURL,
		log:         log,
	}
}

type StartCommand struct {
	OrderID     types.ID
	Base        decimal.Decimal // major units; zero for fee-only checkouts
	Origin      types.Point
	Destination types.Point
	Label       string
	Extra       []LineItem // additional item lines, already in cents
}

// Start returns the provider-hosted checkout URL for the order. Ledger
// state is only touched after the provider call succeeds, so a failed
// retry never invalidates a previous in-flight session.
func (c *Checkout) Start(ctx context.Context, cmd StartCommand) (string, error) {
	quote, err := c.policy.Quote(cmd.Base, cmd.Origin, cmd.Destination)
	if err != nil {
		return "", err
	}

	items := make([]LineItem, 0, 1+len(cmd.Extra))
	items = append(items, LineItem{Name: cmd.Label, AmountCents: quote.TotalCents, Quantity: 1})
	items = append(items, cmd.Extra...)

	sess, err := c.provider.CreateSession(ctx, CreateSessionInput{
		Items:          items,
		Currency:       c.currency,
		SuccessURL:     fmt.Sprintf("%s/confirmation/%s", c.frontendURL, cmd.OrderID),
		CancelURL:      c.frontendURL + "/",
		IdempotencyKey: c.idempotencyKey(ctx, cmd.OrderID),
	})
	if err != nil {
		return "", fmt.Errorf("%w: create session for order %s: %v", ErrProvider, cmd.OrderID, err)
	}

	if err := c.ledger.Upsert(ctx, cmd.OrderID, sess.ID); err != nil {
		// The provider session exists but we lost track of it. Retrying the
		// provider call here would risk a double charge, so surface the id
		// for manual reconciliation instead.
		c.log.Error("orphaned provider session",
			zap.String("order_id", string(cmd.OrderID)),
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return "", fmt.Errorf("%w: order %s, session %s", ErrLedgerInconsistency, cmd.OrderID, sess.ID)
	}

	c.log.Info("checkout session created",
		zap.String("order_id", string(cmd.OrderID)),
		zap.String("session_id", sess.ID),
		zap.Float64("distance_km", quote.DistanceKm),
		zap.String("tier", string(quote.Tier)),
		zap.Int64("total_cents", quote.TotalCents))
	return sess.URL, nil
}

func (c *Checkout) idempotencyKey(ctx context.Context, orderID types.ID) string {
	if c.keys == nil {
		return uuid.NewString()
	}
	key, err := c.keys.CheckoutKey(ctx, orderID)
	if err != nil {
		// Key reuse is an optimization against lost responses; losing it
		// must not block checkout.
		c.log.Warn("idempotency key store unavailable",
			zap.String("order_id", string(orderID)), zap.Error(err))
		return uuid.NewString()
	}
	return key
}
