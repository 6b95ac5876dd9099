// README: Garage / home sale records.
package sale

import (
	"time"

	"github.com/shopspring/decimal"

	"snabbdeal/internal/types"
)

// Item is one sellable thing listed on a sale.
type Item struct {
	ID    types.ID
	Name  string
	Price decimal.Decimal // major units
	Image string
}

type Sale struct {
	ID            types.ID
	Type          string
	Name          string
	Phone         string
	Address       types.Address
	Date          time.Time
	PaymentMethod string
	PosterImage   string
	Items         []Item
	CreatedAt     time.Time
}

// Item returns the listed item with the given id, if any.
func (s *Sale) Item(id types.ID) (Item, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
