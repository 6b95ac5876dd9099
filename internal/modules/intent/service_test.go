package intent

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snabbdeal/internal/modules/partner"
	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/types"
)

type memStore struct {
	mu      sync.Mutex
	buyers  map[types.ID]*BuyerIntent
	sellers map[types.ID]*SellerIntent
}

func newMemStore() *memStore {
	return &memStore{
		buyers:  make(map[types.ID]*BuyerIntent),
		sellers: make(map[types.ID]*SellerIntent),
	}
}

func (m *memStore) CreateBuyer(_ context.Context, b *BuyerIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.buyers[b.ID] = &cp
	return nil
}

func (m *memStore) GetBuyer(_ context.Context, id types.ID) (*BuyerIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buyers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) MarkBuyerPaid(_ context.Context, id types.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buyers[id]
	if !ok || b.Paid {
		return false, nil
	}
	b.Paid = true
	return true, nil
}

func (m *memStore) AcknowledgeBuyer(_ context.Context, id types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buyers[id]
	if !ok {
		return ErrNotFound
	}
	b.Acknowledged = true
	return nil
}

func (m *memStore) ListUnscheduledBuyers(context.Context) ([]BuyerIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []BuyerIntent
	for _, b := range m.buyers {
		if b.Acknowledged {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) CreateSeller(_ context.Context, s *SellerIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sellers[s.ID] = &cp
	return nil
}

func (m *memStore) GetSeller(_ context.Context, id types.ID) (*SellerIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sellers[id]
	if !ok {
		return nil, ErrSellerNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) GetSellerByBuyIntent(_ context.Context, buyIntent types.ID) (*SellerIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sellers {
		if s.BuyIntent == buyIntent {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrSellerNotFound
}

type fakePartners map[types.ID]*partner.Partner

func (f fakePartners) Get(_ context.Context, id types.ID) (*partner.Partner, error) {
	p, ok := f[id]
	if !ok {
		return nil, partner.ErrNotFound
	}
	return p, nil
}

type fakeCheckout struct {
	lastCmd payment.StartCommand
	calls   int
}

func (f *fakeCheckout) Start(_ context.Context, cmd payment.StartCommand) (string, error) {
	f.lastCmd = cmd
	f.calls++
	return "https://checkout.example/" + string(cmd.OrderID), nil
}

type fakeConfirmer struct {
	result payment.ConfirmResult
	err    error
}

func (f *fakeConfirmer) Confirm(context.Context, types.ID) (payment.ConfirmResult, error) {
	return f.result, f.err
}

type fakePickups struct {
	byIntent map[types.ID]types.ID
	next     int
}

func (f *fakePickups) Schedule(_ context.Context, buyIntent, _, _ types.ID) (types.ID, error) {
	if f.byIntent == nil {
		f.byIntent = make(map[types.ID]types.ID)
	}
	if id, ok := f.byIntent[buyIntent]; ok {
		return id, nil
	}
	f.next++
	id := types.ID("track-" + string(rune('0'+f.next)))
	f.byIntent[buyIntent] = id
	return id, nil
}

type fakeGeocoder struct {
	point types.Point
	calls int
}

func (f *fakeGeocoder) Geocode(context.Context, string) (types.Point, error) {
	f.calls++
	return f.point, nil
}

func buyerCmd() CreateBuyerCommand {
	return CreateBuyerCommand{
		Email:   "buyer@example.com",
		Name:    "Alice",
		Phone:   "+46700000001",
		Address: types.Address{Location: "Kungsgatan 1", Lat: 59.33, Lng: 18.06},
		Item: Item{
			Tag:   "Blue armchair",
			Link:  "https://marketplace.example/123",
			Price: decimal.NewFromInt(45),
		},
	}
}

func TestCreateBuyerWaitsForSeller(t *testing.T) {
	store := newMemStore()
	checkout := &fakeCheckout{}
	svc := NewService(store, fakePartners{}, checkout, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	id, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)

	b, err := store.GetBuyer(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, b.Acknowledged)
	assert.Zero(t, checkout.calls, "no checkout until the seller responds")
}

func TestCreateBuyerWithVerifiedPartner(t *testing.T) {
	partnerAddr := types.Address{Location: "Store 1", Lat: 59.40, Lng: 18.10}
	partners := fakePartners{
		"p-1": {ID: "p-1", Business: "Second Hand AB", Verified: true, Address: partnerAddr},
	}
	store := newMemStore()
	checkout := &fakeCheckout{}
	svc := NewService(store, partners, checkout, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	cmd := buyerCmd()
	cmd.PartnerID = "p-1"
	id, err := svc.CreateBuyer(context.Background(), cmd)
	require.NoError(t, err)

	b, _ := store.GetBuyer(context.Background(), id)
	assert.True(t, b.Acknowledged, "partner pickup needs no seller response")

	require.Equal(t, 1, checkout.calls)
	assert.Equal(t, id, checkout.lastCmd.OrderID)
	assert.True(t, checkout.lastCmd.Base.Equal(decimal.NewFromInt(45)))
	assert.Equal(t, partnerAddr.Point(), checkout.lastCmd.Origin)
}

func TestCreateBuyerRejectsUnverifiedPartner(t *testing.T) {
	partners := fakePartners{"p-1": {ID: "p-1", Verified: false}}
	svc := NewService(newMemStore(), partners, &fakeCheckout{}, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	cmd := buyerCmd()
	cmd.PartnerID = "p-1"
	_, err := svc.CreateBuyer(context.Background(), cmd)
	assert.ErrorIs(t, err, partner.ErrNotVerified)
}

func TestCreateBuyerGeocodesMissingCoordinates(t *testing.T) {
	geo := &fakeGeocoder{point: types.Point{Lat: 59.33, Lng: 18.06}}
	store := newMemStore()
	svc := NewService(store, fakePartners{}, &fakeCheckout{}, &fakeConfirmer{}, &fakePickups{}, geo, nil, zap.NewNop())

	cmd := buyerCmd()
	cmd.Address = types.Address{Location: "Kungsgatan 1"}
	id, err := svc.CreateBuyer(context.Background(), cmd)
	require.NoError(t, err)

	b, _ := store.GetBuyer(context.Background(), id)
	assert.Equal(t, 1, geo.calls)
	assert.Equal(t, 59.33, b.Address.Lat)
	assert.Equal(t, 18.06, b.Address.Lng)
}

func TestGetBuyerRejectsAcknowledged(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, fakePartners{}, &fakeCheckout{}, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	id, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)
	require.NoError(t, store.AcknowledgeBuyer(context.Background(), id))

	_, err = svc.GetBuyer(context.Background(), id)
	assert.ErrorIs(t, err, ErrAcknowledged)
}

func sellerCmd(buyIntent types.ID) CreateSellerCommand {
	return CreateSellerCommand{
		Email:         "seller@example.com",
		Name:          "Sven",
		Phone:         "+46700000002",
		Address:       types.Address{Location: "Odengatan 2", Lat: 59.34, Lng: 18.05},
		PickupTime:    time.Now().Add(24 * time.Hour),
		PaymentMethod: "swish",
		BuyIntent:     buyIntent,
	}
}

func TestCreateSellerAcknowledgesAndStartsCheckout(t *testing.T) {
	store := newMemStore()
	checkout := &fakeCheckout{}
	svc := NewService(store, fakePartners{}, checkout, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	buyID, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)

	sellID, err := svc.CreateSeller(context.Background(), sellerCmd(buyID))
	require.NoError(t, err)
	assert.NotEmpty(t, sellID)

	b, _ := store.GetBuyer(context.Background(), buyID)
	assert.True(t, b.Acknowledged)

	require.Equal(t, 1, checkout.calls)
	assert.Equal(t, buyID, checkout.lastCmd.OrderID, "checkout settles the buyer intent")
	assert.Equal(t, 59.34, checkout.lastCmd.Origin.Lat)
}

func TestCreateSellerLinkIsSingleUse(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, fakePartners{}, &fakeCheckout{}, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	buyID, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)

	_, err = svc.CreateSeller(context.Background(), sellerCmd(buyID))
	require.NoError(t, err)

	_, err = svc.CreateSeller(context.Background(), sellerCmd(buyID))
	assert.ErrorIs(t, err, ErrAcknowledged)
}

func TestConfirmPaymentWithoutSeller(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, fakePartners{}, &fakeCheckout{}, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	buyID, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), buyID, "")
	assert.ErrorIs(t, err, ErrSellerNotResponded)
}

func TestConfirmPaymentIncomplete(t *testing.T) {
	store := newMemStore()
	confirmer := &fakeConfirmer{result: payment.ConfirmResult{Settled: false}}
	svc := NewService(store, fakePartners{}, &fakeCheckout{}, confirmer, &fakePickups{}, nil, nil, zap.NewNop())

	buyID, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)
	_, err = svc.CreateSeller(context.Background(), sellerCmd(buyID))
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), buyID, "")
	assert.ErrorIs(t, err, ErrPaymentIncomplete)
}

func TestConfirmPaymentSchedulesOnce(t *testing.T) {
	store := newMemStore()
	confirmer := &fakeConfirmer{result: payment.ConfirmResult{Settled: true, Transitioned: true}}
	pickups := &fakePickups{}
	svc := NewService(store, fakePartners{}, &fakeCheckout{}, confirmer, pickups, nil, nil, zap.NewNop())

	buyID, err := svc.CreateBuyer(context.Background(), buyerCmd())
	require.NoError(t, err)
	_, err = svc.CreateSeller(context.Background(), sellerCmd(buyID))
	require.NoError(t, err)

	first, err := svc.ConfirmPayment(context.Background(), buyID, "")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	confirmer.result.Transitioned = false
	second, err := svc.ConfirmPayment(context.Background(), buyID, "")
	require.NoError(t, err)
	assert.Equal(t, first, second, "retried confirmation recovers the tracking id")
}

func TestConfirmPaymentUnknownPartner(t *testing.T) {
	svc := NewService(newMemStore(), fakePartners{}, &fakeCheckout{}, &fakeConfirmer{}, &fakePickups{}, nil, nil, zap.NewNop())

	_, err := svc.ConfirmPayment(context.Background(), "b-1", "p-missing")
	assert.ErrorIs(t, err, partner.ErrNotFound)
}
