// README: Distance computation tests.
package geo

import (
	"math"
	"testing"

	"snabbdeal/internal/types"
)

func TestDistanceSamePoint(t *testing.T) {
	pts := []types.Point{
		{Lat: 0, Lng: 0},
		{Lat: 19.0002, Lng: 20.0001},
		{Lat: -89.9, Lng: 179.9},
	}
	for _, p := range pts {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, want exactly 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	cases := []struct{ a, b types.Point }{
		{types.Point{Lat: 59.33, Lng: 18.06}, types.Point{Lat: 57.71, Lng: 11.97}},
		{types.Point{Lat: -33.87, Lng: 151.21}, types.Point{Lat: 35.68, Lng: 139.69}},
		{types.Point{Lat: 0.1, Lng: -0.1}, types.Point{Lat: -0.1, Lng: 0.1}},
	}
	for _, tc := range cases {
		ab := Distance(tc.a, tc.b)
		ba := Distance(tc.b, tc.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance(%v, %v) = %v but reversed = %v", tc.a, tc.b, ab, ba)
		}
	}
}

func TestDistanceOneDegreeAtEquator(t *testing.T) {
	got := Distance(types.Point{Lat: 0, Lng: 0}, types.Point{Lat: 0, Lng: 1})
	want := 111.19 // one degree of longitude on a 6371 km sphere
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("one degree at equator = %v km, want %v km within 1%%", got, want)
	}
}

func TestDistanceNonNegative(t *testing.T) {
	a := types.Point{Lat: 40.71, Lng: -74.00}
	b := types.Point{Lat: 40.73, Lng: -73.99}
	if d := Distance(a, b); d < 0 {
		t.Errorf("Distance = %v, want non-negative", d)
	}
}
