// README: Fee policy tests (tier selection + rounding).
package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snabbdeal/internal/types"
)

var (
	stockholm = types.Point{Lat: 59.3293, Lng: 18.0686}
	uppsala   = types.Point{Lat: 59.8586, Lng: 17.6389} // ~63 km away
)

func TestQuoteZeroDistanceIsNearTier(t *testing.T) {
	p := NewPolicy(IntentThresholdKm)
	here := types.Point{Lat: 19.0002, Lng: 20.0001}

	q, err := p.Quote(decimal.NewFromInt(19), here, here)
	require.NoError(t, err)

	assert.Equal(t, 0.0, q.DistanceKm)
	assert.Equal(t, TierNear, q.Tier)
	assert.Equal(t, int64(2400), q.TotalCents) // (19 + 5) * 100
}

func TestQuoteFarTierBeyondThreshold(t *testing.T) {
	p := NewPolicy(DeliveryThresholdKm)

	q, err := p.Quote(decimal.NewFromInt(19), stockholm, uppsala)
	require.NoError(t, err)

	assert.Equal(t, TierFar, q.Tier)
	assert.Equal(t, int64(3100), q.TotalCents) // (19 + 12) * 100
}

func TestQuoteThresholdIsExclusive(t *testing.T) {
	// Exactly at the threshold stays in the near tier; the surcharge only
	// switches strictly beyond it.
	p := Policy{ThresholdKm: 0, NearFee: decimal.NewFromInt(5), FarFee: decimal.NewFromInt(12)}
	here := types.Point{Lat: 1, Lng: 1}

	q, err := p.Quote(decimal.NewFromInt(10), here, here)
	require.NoError(t, err)
	assert.Equal(t, TierNear, q.Tier)
}

func TestQuoteRoundsAfterAddition(t *testing.T) {
	p := NewPolicy(IntentThresholdKm)
	here := types.Point{Lat: 1, Lng: 1}

	cases := []struct {
		base string
		want int64
	}{
		{"19.40", 2400}, // 24.40 -> 24
		{"19.60", 2500}, // 24.60 -> 25
		{"0", 500},      // fee-only checkout
	}
	for _, tc := range cases {
		base, err := decimal.NewFromString(tc.base)
		require.NoError(t, err)
		q, err := p.Quote(base, here, here)
		require.NoError(t, err)
		assert.Equal(t, tc.want, q.TotalCents, "base %s", tc.base)
	}
}

func TestQuoteRejectsNegativeBase(t *testing.T) {
	p := NewPolicy(DeliveryThresholdKm)
	_, err := p.Quote(decimal.NewFromInt(-1), stockholm, uppsala)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
