// README: Confirmation flow tests (settle-once guarantees).
package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snabbdeal/internal/types"
)

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[types.ID]*Order
	markCalls int
}

func newFakeOrders(ids ...types.ID) *fakeOrders {
	f := &fakeOrders{orders: make(map[types.ID]*Order)}
	for _, id := range ids {
		f.orders[id] = &Order{ID: id}
	}
	return f
}

func (f *fakeOrders) GetOrder(_ context.Context, id types.ID) (Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return *o, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id types.ID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	f.markCalls++
	if o.Paid {
		return false, nil
	}
	o.Paid = true
	return true, nil
}

func TestConfirmWithoutCheckout(t *testing.T) {
	confirmer := NewConfirmer(NewMemoryLedger(), &fakeProvider{}, newFakeOrders("order-1"), zap.NewNop())

	_, err := confirmer.Confirm(context.Background(), "order-1")
	assert.ErrorIs(t, err, ErrNoCheckoutInProgress)
}

func TestConfirmUnknownOrder(t *testing.T) {
	confirmer := NewConfirmer(NewMemoryLedger(), &fakeProvider{}, newFakeOrders(), zap.NewNop())

	_, err := confirmer.Confirm(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirmSettlesOnce(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.Upsert(ctx, "order-1", "cs_1"))
	orders := newFakeOrders("order-1")
	confirmer := NewConfirmer(ledger, &fakeProvider{status: StatusPaid}, orders, zap.NewNop())

	first, err := confirmer.Confirm(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, first.Settled)
	assert.True(t, first.Transitioned)

	second, err := confirmer.Confirm(ctx, "order-1")
	require.NoError(t, err)
	assert.True(t, second.Settled)
	assert.False(t, second.Transitioned)

	assert.Equal(t, 1, orders.markCalls, "the already-paid order short-circuits before MarkPaid")
}

func TestConfirmPendingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.Upsert(ctx, "order-1", "cs_1"))
	orders := newFakeOrders("order-1")

	for _, status := range []SessionStatus{StatusPending, StatusFailed, StatusExpired} {
		confirmer := NewConfirmer(ledger, &fakeProvider{status: status}, orders, zap.NewNop())
		res, err := confirmer.Confirm(ctx, "order-1")
		require.NoError(t, err, "status %s", status)
		assert.False(t, res.Settled, "status %s", status)
	}
	assert.Equal(t, 0, orders.markCalls)
}

func TestConfirmProviderFailure(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.Upsert(ctx, "order-1", "cs_1"))
	confirmer := NewConfirmer(ledger, &fakeProvider{statusErr: errors.New("timeout")}, newFakeOrders("order-1"), zap.NewNop())

	_, err := confirmer.Confirm(ctx, "order-1")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestConfirmConcurrentCallersTransitionOnce(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger()
	require.NoError(t, ledger.Upsert(ctx, "order-1", "cs_1"))
	orders := newFakeOrders("order-1")
	confirmer := NewConfirmer(ledger, &fakeProvider{status: StatusPaid}, orders, zap.NewNop())

	const callers = 8
	results := make(chan ConfirmResult, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := confirmer.Confirm(ctx, "order-1")
			if err != nil {
				t.Errorf("confirm: %v", err)
				return
			}
			results <- res
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	transitions := 0
	for res := range results {
		assert.True(t, res.Settled)
		if res.Transitioned {
			transitions++
		}
	}
	assert.Equal(t, 1, transitions, "exactly one caller performs the settle transition")
}
