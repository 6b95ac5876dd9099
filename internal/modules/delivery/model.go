// README: Delivery aggregate, kinds, and status flow.
package delivery

import (
	"time"

	"github.com/shopspring/decimal"

	"snabbdeal/internal/types"
)

// Kind separates marketplace deliveries (buyer/seller pairs) from sale
// deliveries (orders against a listed garage sale).
type Kind string

const (
	KindMarketplace Kind = "marketplace"
	KindSale        Kind = "sale"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusOnroute   Status = "onroute"
	StatusArrived   Status = "arrived"
	StatusPicked    Status = "picked"
	StatusDelivered Status = "delivered"
)

// AllowedTransitions represents the delivery flow as code; a delivery only
// ever moves forward.
var AllowedTransitions = map[Status][]Status{
	StatusPending: {StatusOnroute},
	StatusOnroute: {StatusArrived},
	StatusArrived: {StatusPicked},
	StatusPicked:  {StatusDelivered},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// Buyer is the receiving side of a marketplace delivery.
type Buyer struct {
	Name    string
	Email   string
	Phone   string
	Address types.Address
	Comment string
}

// Seller is the pickup side of a marketplace delivery.
type Seller struct {
	Date          time.Time
	Time          string
	Phone         string
	Address       types.Address
	PaymentMethod string
}

// Item describes the marketplace item being moved.
type Item struct {
	Note  string
	Price decimal.Decimal
	Link  string
}

// Selection is one ordered line of a sale delivery.
type Selection struct {
	ItemID   types.ID
	Quantity int64
}

type Delivery struct {
	ID     types.ID
	Kind   Kind
	Status Status
	Paid   bool
	Image  *types.Image

	// marketplace kind
	Buyer  Buyer
	Seller Seller
	Item   Item

	// sale kind
	SaleID  types.ID
	Items   []Selection
	Name    string
	Phone   string
	Address types.Address
	Time    string

	CreatedAt time.Time
}

// ContactPhone is the number status updates are texted to.
func (d *Delivery) ContactPhone() string {
	if d.Kind == KindSale {
		return d.Phone
	}
	return d.Buyer.Phone
}

// ContactName is the recipient's name for message templates.
func (d *Delivery) ContactName() string {
	if d.Kind == KindSale {
		return d.Name
	}
	return d.Buyer.Name
}
