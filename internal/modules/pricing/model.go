// README: Delivery-fee quote definitions.
package pricing

import "github.com/shopspring/decimal"

// Tier classifies a delivery distance against a policy threshold.
type Tier string

const (
	TierNear Tier = "near"
	TierFar  Tier = "far"
)

// Quote is the priced result for one checkout. Base is in major currency
// units (dollars); TotalCents is what the payment provider is asked to
// charge.
type Quote struct {
	Base       decimal.Decimal
	DistanceKm float64
	Tier       Tier
	TotalCents int64
}
