// README: Intent lifecycle: create, respond, checkout, confirm, schedule.
package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snabbdeal/internal/modules/partner"
	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/notify"
	"snabbdeal/internal/types"
)

var (
	ErrNotFound           = errors.New("buyer intent not found")
	ErrSellerNotFound     = errors.New("seller intent not found")
	ErrAcknowledged       = errors.New("buyer intent already acknowledged")
	ErrSellerNotResponded = errors.New("seller has not responded to buyer intent")
	ErrPaymentIncomplete  = errors.New("payment not completed")
	ErrBadRequest         = errors.New("bad request")
)

type Store interface {
	CreateBuyer(ctx context.Context, b *BuyerIntent) error
	GetBuyer(ctx context.Context, id types.ID) (*BuyerIntent, error)
	// MarkBuyerPaid is a compare-and-swap on the paid flag; it reports
	// whether this call performed the flip.
	MarkBuyerPaid(ctx context.Context, id types.ID) (bool, error)
	AcknowledgeBuyer(ctx context.Context, id types.ID) error
	ListUnscheduledBuyers(ctx context.Context) ([]BuyerIntent, error)
	CreateSeller(ctx context.Context, s *SellerIntent) error
	GetSeller(ctx context.Context, id types.ID) (*SellerIntent, error)
	GetSellerByBuyIntent(ctx context.Context, buyIntent types.ID) (*SellerIntent, error)
}

// CheckoutStarter is satisfied by *payment.Checkout.
type CheckoutStarter interface {
	Start(ctx context.Context, cmd payment.StartCommand) (string, error)
}

// Confirmer is satisfied by *payment.Confirmer.
type Confirmer interface {
	Confirm(ctx context.Context, orderID types.ID) (payment.ConfirmResult, error)
}

// PartnerDirectory is the slice of the partner module this flow needs.
type PartnerDirectory interface {
	Get(ctx context.Context, id types.ID) (*partner.Partner, error)
}

// PickupScheduler is satisfied by *pickup.Service.
type PickupScheduler interface {
	Schedule(ctx context.Context, buyIntent, sellIntent, partnerID types.ID) (types.ID, error)
}

// Geocoder resolves a street address to coordinates. Satisfied by
// *maps.GeocodeService; nil disables backfill.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (types.Point, error)
}

type Service struct {
	store     Store
	partners  PartnerDirectory
	checkout  CheckoutStarter
	confirmer Confirmer
	pickups   PickupScheduler
	geocoder  Geocoder
	sms       *notify.Dispatcher
	log       *zap.Logger
}

func NewService(store Store, partners PartnerDirectory, checkout CheckoutStarter, confirmer Confirmer, pickups PickupScheduler, geocoder Geocoder, sms *notify.Dispatcher, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		partners:  partners,
		checkout:  checkout,
		confirmer: confirmer,
		pickups:   pickups,
		geocoder:  geocoder,
		sms:       sms,
		log:       log,
	}
}

// resolveAddress backfills coordinates for clients that only sent a street
// address. Distance pricing needs real coordinates on both ends.
func (s *Service) resolveAddress(ctx context.Context, a types.Address) (types.Address, error) {
	if a.Lat != 0 || a.Lng != 0 || s.geocoder == nil {
		return a, nil
	}
	pt, err := s.geocoder.Geocode(ctx, a.Location)
	if err != nil {
		return a, fmt.Errorf("%w: could not locate %q", ErrBadRequest, a.Location)
	}
	a.Lat, a.Lng = pt.Lat, pt.Lng
	return a, nil
}

type CreateBuyerCommand struct {
	Email     string
	Name      string
	Message   string
	Phone     string
	Address   types.Address
	Item      Item
	PartnerID types.ID // optional: partner-mediated pickup
}

// CreateBuyer records a buyer intent. Without a partner the intent waits
// for the seller to respond via the shared link. With a verified partner
// the pickup side is already settled, so the intent is acknowledged
// immediately and the buyer gets their checkout link by SMS.
func (s *Service) CreateBuyer(ctx context.Context, cmd CreateBuyerCommand) (types.ID, error) {
	if cmd.Email == "" || cmd.Name == "" || cmd.Phone == "" {
		return "", ErrBadRequest
	}

	addr, err := s.resolveAddress(ctx, cmd.Address)
	if err != nil {
		return "", err
	}
	cmd.Address = addr

	b := &BuyerIntent{
		ID:        types.ID(uuid.NewString()),
		Email:     cmd.Email,
		Name:      cmd.Name,
		Message:   cmd.Message,
		Phone:     cmd.Phone,
		Address:   cmd.Address,
		Item:      cmd.Item,
		CreatedAt: time.Now(),
	}

	if cmd.PartnerID == "" {
		if err := s.store.CreateBuyer(ctx, b); err != nil {
			return "", err
		}
		return b.ID, nil
	}

	p, err := s.partners.Get(ctx, cmd.PartnerID)
	if err != nil {
		return "", err
	}
	if !p.Verified {
		return "", partner.ErrNotVerified
	}

	b.Acknowledged = true
	if err := s.store.CreateBuyer(ctx, b); err != nil {
		return "", err
	}

	url, err := s.checkout.Start(ctx, payment.StartCommand{
		OrderID:     b.ID,
		Base:        b.Item.Price,
		Origin:      p.Address.Point(),
		Destination: b.Address.Point(),
		Label:       b.Item.Tag,
	})
	if err != nil {
		return "", err
	}

	s.sms.Dispatch(b.Phone, fmt.Sprintf(
		"Hi %s,\nYour SnabbDeal pickup from %s is ready to schedule. Complete your payment here: %s\nThank you for using SnabbDeal!",
		b.Name, p.Business, url))
	return b.ID, nil
}

// GetBuyer resolves a public intent link. Acknowledged intents are treated
// as dead links.
func (s *Service) GetBuyer(ctx context.Context, id types.ID) (*BuyerIntent, error) {
	b, err := s.store.GetBuyer(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Acknowledged {
		return nil, ErrAcknowledged
	}
	return b, nil
}

// ListUnscheduled returns acknowledged buyer intents with no pickup yet.
func (s *Service) ListUnscheduled(ctx context.Context) ([]BuyerIntent, error) {
	return s.store.ListUnscheduledBuyers(ctx)
}

type CreateSellerCommand struct {
	Email         string
	Name          string
	Phone         string
	Address       types.Address
	PickupTime    time.Time
	PaymentMethod string
	BuyIntent     types.ID
}

// CreateSeller records the seller's response, acknowledges the buyer
// intent (the link is single-use), and sends the buyer their checkout
// link priced seller -> buyer.
func (s *Service) CreateSeller(ctx context.Context, cmd CreateSellerCommand) (types.ID, error) {
	b, err := s.store.GetBuyer(ctx, cmd.BuyIntent)
	if err != nil {
		return "", err
	}
	if b.Acknowledged {
		return "", ErrAcknowledged
	}

	addr, err := s.resolveAddress(ctx, cmd.Address)
	if err != nil {
		return "", err
	}
	cmd.Address = addr

	sell := &SellerIntent{
		ID:            types.ID(uuid.NewString()),
		Email:         cmd.Email,
		Name:          cmd.Name,
		Phone:         cmd.Phone,
		Address:       cmd.Address,
		PickupTime:    cmd.PickupTime,
		PaymentMethod: cmd.PaymentMethod,
		BuyIntent:     cmd.BuyIntent,
		CreatedAt:     time.Now(),
	}
	if err := s.store.CreateSeller(ctx, sell); err != nil {
		return "", err
	}
	if err := s.store.AcknowledgeBuyer(ctx, b.ID); err != nil {
		return "", err
	}

	url, err := s.checkout.Start(ctx, payment.StartCommand{
		OrderID:     b.ID,
		Base:        b.Item.Price,
		Origin:      cmd.Address.Point(),
		Destination: b.Address.Point(),
		Label:       b.Item.Tag,
	})
	if err != nil {
		return "", err
	}

	s.sms.Dispatch(b.Phone, fmt.Sprintf(
		"Hi %s,\nGood news! The seller has agreed to your SnabbDeal pickup for %s. Complete your payment here: %s\nThank you for using SnabbDeal!",
		b.Name, b.Item.Tag, url))
	return sell.ID, nil
}

func (s *Service) GetSeller(ctx context.Context, id types.ID) (*SellerIntent, error) {
	return s.store.GetSeller(ctx, id)
}

func (s *Service) GetSellerForBuyer(ctx context.Context, buyIntent types.ID) (*SellerIntent, error) {
	return s.store.GetSellerByBuyIntent(ctx, buyIntent)
}

// ConfirmPayment polls the checkout session for a buyer intent and, once
// settled, schedules the pickup. Scheduling is idempotent per intent, so a
// repeated confirmation returns the same tracking id.
func (s *Service) ConfirmPayment(ctx context.Context, buyIntent, partnerID types.ID) (types.ID, error) {
	if partnerID != "" {
		if _, err := s.partners.Get(ctx, partnerID); err != nil {
			return "", err
		}
	}

	var sellIntent types.ID
	if partnerID == "" {
		sell, err := s.store.GetSellerByBuyIntent(ctx, buyIntent)
		if errors.Is(err, ErrSellerNotFound) {
			return "", ErrSellerNotResponded
		}
		if err != nil {
			return "", err
		}
		sellIntent = sell.ID
	}

	res, err := s.confirmer.Confirm(ctx, buyIntent)
	if err != nil {
		return "", err
	}
	if !res.Settled {
		return "", ErrPaymentIncomplete
	}

	trackingID, err := s.pickups.Schedule(ctx, buyIntent, sellIntent, partnerID)
	if err != nil {
		return "", err
	}

	if res.Transitioned {
		s.log.Info("pickup scheduled",
			zap.String("buy_intent", string(buyIntent)),
			zap.String("tracking_id", string(trackingID)))
	}
	return trackingID, nil
}
