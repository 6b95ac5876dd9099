// README: Common value types shared across modules.
package types

// ID identifies a record (intent, delivery, pickup, session ...).
type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Address pairs a free-text location with its coordinates.
type Address struct {
	Location string
	Lat      float64
	Lng      float64
}

func (a Address) Point() Point {
	return Point{Lat: a.Lat, Lng: a.Lng}
}

// Money is an amount in minor currency units (cents).
type Money struct {
	Amount   int64
	Currency string
}

// Image is a stored proof or document picture.
type Image struct {
	URL string
	Key string
}
