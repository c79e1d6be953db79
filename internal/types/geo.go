// README: Common geo value objects used across modules.
package types

import "strconv"

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// String renders the point as "lat,lng", the form routing APIs accept as an origin.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// Location is a geocoded address.
type Location struct {
	Point
	FormattedAddress string `json:"formatted_location"`
}
