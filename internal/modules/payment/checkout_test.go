// README: Checkout orchestration tests (session idempotency + failure paths).
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snabbdeal/internal/modules/pricing"
	"snabbdeal/internal/types"
)

type fakeProvider struct {
	mu        sync.Mutex
	created   int
	createErr error
	status    SessionStatus
	statusErr error
	lastInput CreateSessionInput
}

func (p *fakeProvider) CreateSession(_ context.Context, in CreateSessionInput) (Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return Session{}, p.createErr
	}
	p.created++
	p.lastInput = in
	id := fmt.Sprintf("cs_test_%d", p.created)
	return Session{ID: id, URL: "https://checkout.example.com/" + id}, nil
}

func (p *fakeProvider) SessionStatus(_ context.Context, _ string) (SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.statusErr != nil {
		return "", p.statusErr
	}
	return p.status, nil
}

type failingLedger struct{}

func (failingLedger) Upsert(context.Context, types.ID, string) error {
	return errors.New("connection reset")
}

func (failingLedger) Find(context.Context, types.ID) (SessionRecord, error) {
	return SessionRecord{}, ErrNotFound
}

func newTestCheckout(ledger Ledger, provider Provider) *Checkout {
	policy := pricing.NewPolicy(pricing.DeliveryThresholdKm)
	return NewCheckout(policy, ledger, provider, nil, "usd", "https://snabbdeal.example.com", zap.NewNop())
}

func TestStartCheckoutRecordsSession(t *testing.T) {
	ledger := NewMemoryLedger()
	provider := &fakeProvider{}
	checkout := newTestCheckout(ledger, provider)
	ctx := context.Background()

	url, err := checkout.Start(ctx, StartCommand{
		OrderID:     "order-1",
		Base:        decimal.NewFromInt(19),
		Origin:      types.Point{Lat: 19.0002, Lng: 20.0001},
		Destination: types.Point{Lat: 19.0002, Lng: 20.0001},
		Label:       "SnabbDeal delivery fees",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/cs_test_1", url)

	rec, err := ledger.Find(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", rec.SessionID)

	// zero distance -> near tier -> (19 + 5) * 100
	require.Len(t, provider.lastInput.Items, 1)
	assert.Equal(t, int64(2400), provider.lastInput.Items[0].AmountCents)
	assert.Equal(t, "https://snabbdeal.example.com/confirmation/order-1", provider.lastInput.SuccessURL)
	assert.NotEmpty(t, provider.lastInput.IdempotencyKey)
}

func TestStartCheckoutTwiceKeepsOneRecord(t *testing.T) {
	ledger := NewMemoryLedger()
	provider := &fakeProvider{}
	checkout := newTestCheckout(ledger, provider)
	ctx := context.Background()

	cmd := StartCommand{
		OrderID:     "order-retry",
		Base:        decimal.NewFromInt(10),
		Origin:      types.Point{Lat: 1, Lng: 1},
		Destination: types.Point{Lat: 1.01, Lng: 1.01},
		Label:       "item",
	}
	_, err := checkout.Start(ctx, cmd)
	require.NoError(t, err)
	_, err = checkout.Start(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, 1, ledger.Len())
	rec, err := ledger.Find(ctx, "order-retry")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_2", rec.SessionID, "the retry's session supersedes the first")
}

func TestStartCheckoutProviderFailureLeavesLedgerUntouched(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()
	require.NoError(t, ledger.Upsert(ctx, "order-x", "cs_previous"))

	provider := &fakeProvider{createErr: errors.New("502 bad gateway")}
	checkout := newTestCheckout(ledger, provider)

	_, err := checkout.Start(ctx, StartCommand{
		OrderID:     "order-x",
		Base:        decimal.NewFromInt(5),
		Origin:      types.Point{Lat: 1, Lng: 1},
		Destination: types.Point{Lat: 2, Lng: 2},
		Label:       "item",
	})
	assert.ErrorIs(t, err, ErrProvider)

	rec, err := ledger.Find(ctx, "order-x")
	require.NoError(t, err)
	assert.Equal(t, "cs_previous", rec.SessionID, "in-flight session must survive a failed retry")
}

func TestStartCheckoutLedgerFailureSignalsInconsistency(t *testing.T) {
	provider := &fakeProvider{}
	checkout := newTestCheckout(failingLedger{}, provider)

	_, err := checkout.Start(context.Background(), StartCommand{
		OrderID:     "order-y",
		Base:        decimal.NewFromInt(5),
		Origin:      types.Point{Lat: 1, Lng: 1},
		Destination: types.Point{Lat: 2, Lng: 2},
		Label:       "item",
	})
	assert.ErrorIs(t, err, ErrLedgerInconsistency)
	assert.Equal(t, 1, provider.created, "the provider session was already created")
}

func TestStartCheckoutRejectsNegativeBase(t *testing.T) {
	checkout := newTestCheckout(NewMemoryLedger(), &fakeProvider{})

	_, err := checkout.Start(context.Background(), StartCommand{
		OrderID: "order-neg",
		Base:    decimal.NewFromInt(-3),
		Label:   "item",
	})
	assert.ErrorIs(t, err, pricing.ErrInvalidArgument)
}

func TestStartCheckoutAppendsExtraLineItems(t *testing.T) {
	provider := &fakeProvider{}
	checkout := newTestCheckout(NewMemoryLedger(), provider)

	_, err := checkout.Start(context.Background(), StartCommand{
		OrderID:     "order-sale",
		Base:        decimal.Zero,
		Origin:      types.Point{Lat: 1, Lng: 1},
		Destination: types.Point{Lat: 1, Lng: 1},
		Label:       "SnabbDeal delivery fees",
		Extra: []LineItem{
			{Name: "lamp", AmountCents: 1500, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, provider.lastInput.Items, 2)
	assert.Equal(t, int64(500), provider.lastInput.Items[0].AmountCents, "fee-only quote")
	assert.Equal(t, "lamp", provider.lastInput.Items[1].Name)
}
