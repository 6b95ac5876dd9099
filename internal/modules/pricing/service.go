// README: Tiered delivery-fee policy.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"snabbdeal/internal/modules/geo"
	"snabbdeal/internal/types"
)

var ErrInvalidArgument = errors.New("pricing: base amount must not be negative")

// The two delivery flows run different distance thresholds.
const (
	IntentThresholdKm   = 6.0
	DeliveryThresholdKm = 10.0
)

var (
	nearSurcharge = decimal.NewFromInt(5)
	farSurcharge  = decimal.NewFromInt(12)
)

// Policy maps (base price, trip distance) to a chargeable total. The
// surcharge is a flat per-tier fee, not a continuous function of distance.
type Policy struct {
	ThresholdKm float64
	NearFee     decimal.Decimal
	FarFee      decimal.Decimal
}

// NewPolicy returns a policy with the standard fee schedule and the given
// distance threshold.
func NewPolicy(thresholdKm float64) Policy {
	return Policy{ThresholdKm: thresholdKm, NearFee: nearSurcharge, FarFee: farSurcharge}
}

// Quote prices one checkout. The surcharge is added to the base in major
// units and the sum is rounded before scaling to cents, so rounding error
// never compounds across the two terms.
func (p Policy) Quote(base decimal.Decimal, src, dst types.Point) (Quote, error) {
	if base.IsNegative() {
		return Quote{}, ErrInvalidArgument
	}

	distance := geo.Distance(src, dst)
	tier, fee := TierNear, p.NearFee
	if distance > p.ThresholdKm {
		tier, fee = TierFar, p.FarFee
	}

	total := base.Add(fee).Round(0).Mul(decimal.NewFromInt(100))
	return Quote{
		Base:       base,
		DistanceKm: distance,
		Tier:       tier,
		TotalCents: total.IntPart(),
	}, nil
}
