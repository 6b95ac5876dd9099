// README: Delivery lifecycle: create, checkout, confirm, track, prove.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"snabbdeal/internal/media"
	"snabbdeal/internal/modules/payment"
	"snabbdeal/internal/modules/sale"
	"snabbdeal/internal/notify"
	"snabbdeal/internal/types"
)

var (
	ErrNotFound      = errors.New("delivery not found")
	ErrInvalidStatus = errors.New("invalid delivery status")
	ErrInvalidState  = errors.New("invalid status transition")
	ErrProofRequired = errors.New("delivered status requires a proof image")
	ErrAlreadyPaid   = errors.New("payment already made")
	ErrBadRequest    = errors.New("bad request")
)

type Store interface {
	Create(ctx context.Context, d *Delivery) error
	Get(ctx context.Context, id types.ID) (*Delivery, error)
	List(ctx context.Context, kind Kind) ([]Delivery, error)
	MarkPaid(ctx context.Context, id types.ID) (bool, error)
	// UpdateStatus is a compare-and-swap on the status column; the image is
	// attached in the same statement when provided.
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, img *types.Image) (bool, error)
}

// CheckoutStarter is satisfied by *payment.Checkout.
type CheckoutStarter interface {
	Start(ctx context.Context, cmd payment.StartCommand) (string, error)
}

// Confirmer is satisfied by *payment.Confirmer.
type Confirmer interface {
	Confirm(ctx context.Context, orderID types.ID) (payment.ConfirmResult, error)
}

// SaleCatalog is the slice of the sale module this flow needs.
type SaleCatalog interface {
	Get(ctx context.Context, id types.ID) (*sale.Sale, error)
}

type Service struct {
	store       Store
	sales       SaleCatalog
	checkout    CheckoutStarter
	confirmer   Confirmer
	media       media.Uploader
	sms         *notify.Dispatcher
	frontendURL string
	log         *zap.Logger
}

func NewService(store Store, sales SaleCatalog, checkout CheckoutStarter, confirmer Confirmer, uploader media.Uploader, sms *notify.Dispatcher, frontendURL string, log *zap.Logger) *Service {
	return &Service{
		store:       store,
		sales:       sales,
		checkout:    checkout,
		confirmer:   confirmer,
		media:       uploader,
		sms:         sms,
		frontendURL: frontendURL,
		log:         log,
	}
}

const feeLabel = "SnabbDeal delivery fees"

type CreateCommand struct {
	Buyer  Buyer
	Seller Seller
	Item   Item
}

// Create records a marketplace delivery and opens the fee checkout for it.
// Only the delivery fee is charged here; the item itself changes hands
// between buyer and seller directly.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, string, error) {
	if cmd.Buyer.Phone == "" || cmd.Seller.Phone == "" {
		return "", "", ErrBadRequest
	}

	d := &Delivery{
		ID:        types.ID(uuid.NewString()),
		Kind:      KindMarketplace,
		Status:    StatusPending,
		Buyer:     cmd.Buyer,
		Seller:    cmd.Seller,
		Item:      cmd.Item,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return "", "", err
	}

	url, err := s.checkout.Start(ctx, payment.StartCommand{
		OrderID:     d.ID,
		Base:        decimal.Zero,
		Origin:      cmd.Seller.Address.Point(),
		Destination: cmd.Buyer.Address.Point(),
		Label:       feeLabel,
	})
	if err != nil {
		return "", "", err
	}
	return d.ID, url, nil
}

type CreateSaleCommand struct {
	SaleID  types.ID
	Address types.Address
	Items   []Selection
	Time    string
	Phone   string
	Name    string
}

// CreateSale records a delivery against a listed sale and opens a checkout
// charging the distance-tiered fee plus every selected item line.
func (s *Service) CreateSale(ctx context.Context, cmd CreateSaleCommand) (types.ID, string, error) {
	if cmd.Phone == "" || cmd.Name == "" {
		return "", "", ErrBadRequest
	}

	listed, err := s.sales.Get(ctx, cmd.SaleID)
	if err != nil {
		return "", "", err
	}

	var extra []payment.LineItem
	for _, sel := range cmd.Items {
		item, ok := listed.Item(sel.ItemID)
		if !ok {
			continue // unknown selections are dropped, matching the listing as source of truth
		}
		qty := sel.Quantity
		if qty <= 0 {
			qty = 1
		}
		extra = append(extra, payment.LineItem{
			Name:        item.Name,
			AmountCents: item.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			Quantity:    qty,
			ImageURL:    item.Image,
		})
	}

	d := &Delivery{
		ID:        types.ID(uuid.NewString()),
		Kind:      KindSale,
		Status:    StatusPending,
		SaleID:    cmd.SaleID,
		Items:     cmd.Items,
		Name:      cmd.Name,
		Phone:     cmd.Phone,
		Address:   cmd.Address,
		Time:      cmd.Time,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return "", "", err
	}

	url, err := s.checkout.Start(ctx, payment.StartCommand{
		OrderID:     d.ID,
		Base:        decimal.Zero,
		Origin:      listed.Address.Point(),
		Destination: cmd.Address.Point(),
		Label:       feeLabel,
		Extra:       extra,
	})
	if err != nil {
		return "", "", err
	}
	return d.ID, url, nil
}

// Confirm polls the delivery's checkout session. The first caller to see a
// settled session notifies the pickup side; repeats are harmless.
func (s *Service) Confirm(ctx context.Context, id types.ID) (payment.ConfirmResult, error) {
	res, err := s.confirmer.Confirm(ctx, id)
	if err != nil {
		return payment.ConfirmResult{}, err
	}
	if !res.Transitioned {
		return res, nil
	}

	d, err := s.store.Get(ctx, id)
	if err != nil {
		return res, err
	}
	if d.Kind == KindMarketplace {
		s.sms.Dispatch(d.Seller.Phone, fmt.Sprintf(
			"Hello,\nGood news! A buyer has requested delivery for the item you're selling. Pick-up address: %s. Delivery address: %s. Scheduled pick-up: %s %s.\nThank you for using SnabbDeal!",
			d.Seller.Address.Location, d.Buyer.Address.Location,
			d.Seller.Date.Format("2006-01-02"), d.Seller.Time))
	}
	return res, nil
}

// Proof is the delivered-status photo upload.
type Proof struct {
	ContentType string
	Reader      io.Reader
}

// ChangeStatus advances the delivery through its flow, uploading the proof
// image when the driver marks it delivered and texting the affected party
// at every hop. SMS failures never fail the transition.
func (s *Service) ChangeStatus(ctx context.Context, id types.ID, to Status, proof *Proof) error {
	switch to {
	case StatusOnroute, StatusArrived, StatusPicked, StatusDelivered:
	default:
		return ErrInvalidStatus
	}

	d, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, d.Status, to)
	}

	var img *types.Image
	if to == StatusDelivered {
		if proof == nil || proof.Reader == nil {
			return ErrProofRequired
		}
		uploaded, err := s.media.Upload(ctx, "delivery-proof", proof.ContentType, proof.Reader)
		if err != nil {
			return fmt.Errorf("upload proof image: %w", err)
		}
		img = &uploaded
	}

	ok, err := s.store.UpdateStatus(ctx, id, d.Status, to, img)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: delivery %s changed concurrently", ErrInvalidState, id)
	}

	s.notifyStatus(ctx, d, to, img)
	return nil
}

func (s *Service) notifyStatus(ctx context.Context, d *Delivery, to Status, img *types.Image) {
	switch to {
	case StatusOnroute:
		s.sms.Dispatch(d.ContactPhone(),
			"Hi,\nGreat news! Your SnabbDeal driver is on the way to collect your item. You'll receive payment via your chosen method once the item is picked up.\nThank you for using SnabbDeal!")
	case StatusArrived:
		phone := d.Seller.Phone
		if d.Kind == KindSale {
			// the sale owner hands the items over
			listed, err := s.sales.Get(ctx, d.SaleID)
			if err != nil {
				s.log.Warn("arrived notification skipped",
					zap.String("delivery_id", string(d.ID)), zap.Error(err))
				return
			}
			phone = listed.Phone
		}
		s.sms.Dispatch(phone,
			"Hi,\nYour SnabbDeal driver has arrived to pick up your item. Please be ready with the item for a smooth handover.\nThank you for using SnabbDeal!")
	case StatusPicked:
		s.sms.Dispatch(d.ContactPhone(), fmt.Sprintf(
			"Hi %s,\nYour package has been picked up successfully by the SnabbDeal driver. Track it with tracking id %s.\nThank you for choosing SnabbDeal!",
			d.ContactName(), d.ID))
	case StatusDelivered:
		imageURL := ""
		if img != nil {
			imageURL = img.URL
		}
		s.sms.Dispatch(d.ContactPhone(), fmt.Sprintf(
			"Hi %s,\nYour package has been delivered! Here's an image of your delivered item: %s\nWe'd love for you to leave a review: %s/testimony/%s\nBest, The SnabbDeal Team",
			d.ContactName(), imageURL, s.frontendURL, d.ID))
	}
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Delivery, error) {
	return s.store.Get(ctx, id)
}

// Exists reports whether a delivery with the given id was ever recorded.
func (s *Service) Exists(ctx context.Context, id types.ID) (bool, error) {
	_, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Delivery, error) {
	return s.store.List(ctx, kind)
}
