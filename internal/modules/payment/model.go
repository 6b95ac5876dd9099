// README: Payment session ledger contract, provider contract, and error taxonomy.
package payment

import (
	"context"
	"errors"
	"time"

	"snabbdeal/internal/types"
)

var (
	// ErrProvider covers any failed call to the external payment provider,
	// including timeouts. The core never retries these itself.
	ErrProvider = errors.New("payment: provider request failed")
	// ErrLedgerInconsistency means a provider session was created but could
	// not be recorded; the session id is logged for manual reconciliation.
	ErrLedgerInconsistency = errors.New("payment: session ledger inconsistent")
	ErrNotFound             = errors.New("payment: session record not found")
	ErrNoCheckoutInProgress = errors.New("payment: no checkout in progress")
	ErrOrderNotFound        = errors.New("payment: order not found")
)

// SessionRecord binds an order to its current provider checkout session.
// The ledger keeps at most one record per order.
type SessionRecord struct {
	OrderID   types.ID
	SessionID string
	CreatedAt time.Time
}

// Ledger is the one-to-one order -> active session mapping. Upsert replaces
// any prior record for the order atomically; no state where both or neither
// record exists is observable.
type Ledger interface {
	Upsert(ctx context.Context, orderID types.ID, sessionID string) error
	Find(ctx context.Context, orderID types.ID) (SessionRecord, error)
}

// SessionStatus is the settlement state reported by the provider.
type SessionStatus string

const (
	StatusPaid    SessionStatus = "paid"
	StatusPending SessionStatus = "pending"
	StatusFailed  SessionStatus = "failed"
	StatusExpired SessionStatus = "expired"
)

// LineItem is one chargeable row on a checkout page, in minor units.
type LineItem struct {
	Name        string
	AmountCents int64
	Quantity    int64
	ImageURL    string
}

type CreateSessionInput struct {
	Items          []LineItem
	Currency       string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

type Session struct {
	ID  string
	URL string
}

// Provider is the external checkout-session host (Stripe in production).
type Provider interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (Session, error)
	SessionStatus(ctx context.Context, sessionID string) (SessionStatus, error)
}

// Order is the slice of an order the confirmation flow needs.
type Order struct {
	ID   types.ID
	Paid bool
}

// OrderStore is implemented by each payable module (intents, deliveries).
// MarkPaid must be conditional on paid=false and report whether this call
// performed the transition, so concurrent confirmations stay idempotent.
type OrderStore interface {
	GetOrder(ctx context.Context, id types.ID) (Order, error)
	MarkPaid(ctx context.Context, id types.ID) (bool, error)
}
