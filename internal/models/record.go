package models

import (
	"fmt"
	"time"
)

// Layouts used for the date and time columns of a partition file.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Column names of the persisted partition, in file order.
const (
	ColumnDate      = "date"
	ColumnTime      = "time"
	ColumnLat       = "lat"
	ColumnLon       = "lon"
	ColumnSpecies   = "species"
	ColumnMethod    = "method"
	ColumnCollector = "collector"
	ColumnNotes     = "notes"
)

// Columns is the canonical header of every partition file.
var Columns = []string{
	ColumnDate, ColumnTime, ColumnLat, ColumnLon,
	ColumnSpecies, ColumnMethod, ColumnCollector, ColumnNotes,
}

// RequiredColumns must be present in any externally supplied batch.
var RequiredColumns = []string{ColumnDate, ColumnTime, ColumnLat, ColumnLon, ColumnSpecies}

// Record is one survey observation. Records have no identity of their own;
// their position in the partition is the only ordering.
type Record struct {
	Date      string  `json:"date" validate:"required,survey_date"`
	Time      string  `json:"time" validate:"required,survey_time"`
	Lat       float64 `json:"lat" validate:"finite"`
	Lon       float64 `json:"lon" validate:"finite"`
	Species   string  `json:"species" validate:"required,nonblank"`
	Method    Method  `json:"method" validate:"omitempty,survey_method"`
	Collector string  `json:"collector"`
	Notes     string  `json:"notes"`
}

// Coordinate returns the position the record was observed at.
func (r Record) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lon: r.Lon}
}

// Stamp formats t into the date and time columns.
func Stamp(t time.Time) (date, clock string) {
	return t.Format(DateLayout), t.Format(TimeLayout)
}

var timeLayouts = []string{TimeLayout, "15:04:05.999999999", "15:04"}

// ParseTimeOfDay accepts HH:MM, HH:MM:SS and HH:MM:SS with fractional seconds.
func ParseTimeOfDay(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("models: invalid time %q", s)
}

// LastValidCoordinate walks records from the newest backwards and returns the
// first coordinate that is set. Sentinel rows are skipped even when newest.
func LastValidCoordinate(records []Record) (Coordinate, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if c := records[i].Coordinate(); c.IsSet() {
			return c, true
		}
	}
	return Coordinate{}, false
}

// NearbyRecord is a published record together with its distance from a query point.
type NearbyRecord struct {
	Record         Record  `json:"record"`
	DistanceMeters float64 `json:"distance_m"`
}
