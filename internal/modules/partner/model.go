// README: Pickup partner records.
package partner

import (
	"time"

	"snabbdeal/internal/types"
)

// Partner is a verified business that hands items to our drivers on a
// buyer's behalf.
type Partner struct {
	ID            types.ID
	Email         string
	Name          string
	Phone         string
	ItemType      string
	Business      string
	Platforms     []string
	Address       types.Address
	PickupFrom    string
	PickupTo      string
	Documents     []types.Image
	PaymentMethod string
	Verified      bool
	CreatedAt     time.Time
}
