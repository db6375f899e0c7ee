// Package session holds the location selection state machine and the
// per-session context that ties it to the record store.
package session

import (
	"survey-app/internal/config"
	"survey-app/internal/models"
)

// Tolerance is how far, in degrees on either axis, a map point must move from
// the canonical coordinate before it counts as a change.
const Tolerance = 1e-6

// State is the location selection state for one session.
type State struct {
	// Coordinate is where the next record will be placed.
	Coordinate models.Coordinate `json:"coordinate"`
	// Input mirrors the manual latitude/longitude fields.
	Input models.Coordinate `json:"input"`
	// Viewport is the last reported map bounds, zero until one arrives.
	Viewport models.Bounds `json:"viewport"`
}

// Event is one external input to the state machine.
type Event interface {
	Kind() string
}

// MapClick is a point clicked on the map.
type MapClick struct {
	Point models.Coordinate `json:"point"`
}

// MapRecenter is the new map center after the user moved the map.
type MapRecenter struct {
	Point models.Coordinate `json:"point"`
}

// MapBounds is the visible map extent.
type MapBounds struct {
	Bounds models.Bounds `json:"bounds"`
}

// ManualInput is a value typed into the numeric latitude/longitude fields.
type ManualInput struct {
	Point models.Coordinate `json:"point"`
}

func (MapClick) Kind() string    { return "click" }
func (MapRecenter) Kind() string { return "recenter" }
func (MapBounds) Kind() string   { return "bounds" }
func (ManualInput) Kind() string { return "manual" }

// Initialize seeds the state from the newest record with a set coordinate,
// or from the default point.
func Initialize(records []models.Record, defaults config.Defaults) State {
	c, ok := models.LastValidCoordinate(records)
	if !ok {
		c = defaults.Point
	}
	return State{Coordinate: c, Input: c}
}

// Guard replaces a coordinate that is not set with the default point.
func Guard(c models.Coordinate, defaults config.Defaults) models.Coordinate {
	if !c.IsSet() {
		return defaults.Point
	}
	return c
}

// Reduce applies one event and reports whether the map must be redrawn.
// It has no side effects.
func Reduce(s State, ev Event, defaults config.Defaults) (State, bool) {
	redraw := false

	switch e := ev.(type) {
	case MapClick:
		s, redraw = moveTo(s, e.Point)
	case MapRecenter:
		s, redraw = moveTo(s, e.Point)
	case MapBounds:
		s.Viewport = e.Bounds
	case ManualInput:
		s.Coordinate = e.Point
		s.Input = e.Point
	}

	return guardState(s, defaults), redraw
}

// moveTo applies a map point; points within Tolerance are ignored so that a
// redraw reporting the current position does not trigger another redraw.
func moveTo(s State, p models.Coordinate) (State, bool) {
	if p.Near(s.Coordinate, Tolerance) {
		return s, false
	}
	s.Coordinate = p
	s.Input = p
	return s, true
}

func guardState(s State, defaults config.Defaults) State {
	if !s.Coordinate.IsSet() {
		s.Coordinate = defaults.Point
		s.Input = defaults.Point
	}
	return s
}
