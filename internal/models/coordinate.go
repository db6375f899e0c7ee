package models

import (
	"fmt"
	"math"
)

// Coordinate is a WGS 84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsSet reports whether c is usable as a real position. Zero in either
// component is reserved for "not set", as are non-finite and out-of-range values.
func (c Coordinate) IsSet() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	if c.Lat == 0 || c.Lon == 0 {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Near reports whether c and o differ by no more than tol degrees on both axes.
func (c Coordinate) Near(o Coordinate, tol float64) bool {
	return math.Abs(c.Lat-o.Lat) <= tol && math.Abs(c.Lon-o.Lon) <= tol
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", c.Lat, c.Lon)
}

// Bounds is a latitude/longitude box.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// IsZero reports whether no bounds were given.
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// LatSpan returns the north-south extent in degrees.
func (b Bounds) LatSpan() float64 { return b.North - b.South }

// LonSpan returns the west-east extent in degrees.
func (b Bounds) LonSpan() float64 { return b.East - b.West }

// Validate checks ordering and ranges.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.South, b.West, b.North, b.East} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("models: bounds must be finite")
		}
	}
	if b.South < -90 || b.North > 90 || b.West < -180 || b.East > 180 {
		return fmt.Errorf("models: bounds out of range: %s", b)
	}
	if b.South >= b.North || b.West >= b.East {
		return fmt.Errorf("models: bounds are inverted or empty: %s", b)
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.South, b.West, b.North, b.East)
}
