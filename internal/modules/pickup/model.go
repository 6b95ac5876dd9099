// README: Scheduled pickups and their tracking states.
package pickup

import (
	"time"

	"snabbdeal/internal/types"
)

type Status string

const (
	StatusAcknowledged Status = "acknowledged"
	StatusOnroute      Status = "onroute"
	StatusPicked       Status = "picked"
	StatusDelivered    Status = "delivered"
)

// ValidStatus reports whether s is a known tracking state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusAcknowledged, StatusOnroute, StatusPicked, StatusDelivered:
		return true
	}
	return false
}

// Pickup is scheduled once a buyer intent's payment settles. Exactly one
// pickup exists per buyer intent; either a seller intent or a partner is
// attached depending on which flow produced it.
type Pickup struct {
	ID         types.ID
	BuyIntent  types.ID
	SellIntent types.ID // empty for partner-mediated pickups
	PartnerID  types.ID // empty for seller-responded pickups
	Status     Status
	CreatedAt  time.Time
}
