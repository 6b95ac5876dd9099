// README: Buyer and seller intent records.
package intent

import (
	"time"

	"github.com/shopspring/decimal"

	"snabbdeal/internal/types"
)

// Item is the marketplace listing a buyer wants delivered.
type Item struct {
	Tag   string
	Link  string
	Price decimal.Decimal // major units
}

// BuyerIntent is a buyer's request to have an item picked up and delivered.
// Acknowledged flips once a seller (or partner) has taken it, which
// invalidates the public intent link. Paid flips exactly once, when the
// checkout session settles.
type BuyerIntent struct {
	ID           types.ID
	Email        string
	Name         string
	Message      string
	Phone        string
	Address      types.Address
	Item         Item
	Acknowledged bool
	Paid         bool
	CreatedAt    time.Time
}

// SellerIntent is the seller's response to a buyer intent; at most one
// exists per buyer intent.
type SellerIntent struct {
	ID            types.ID
	Email         string
	Name          string
	Phone         string
	Address       types.Address
	PickupTime    time.Time
	PaymentMethod string
	BuyIntent     types.ID
	CreatedAt     time.Time
}
