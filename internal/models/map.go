package models

// Tile modes offered by the map. TilesNone renders a blank background for
// use without network access.
const (
	TilesOSM  = "osm"
	TilesNone = "none"
)

// Marker is a previously recorded observation drawn on the map.
type Marker struct {
	Position Coordinate `json:"position"`
	Species  string     `json:"species"`
	Date     string     `json:"date"`
	Popup    string     `json:"popup"`
}

// MapView is everything the map renderer needs for one draw.
type MapView struct {
	Project string             `json:"project"`
	Center  Coordinate         `json:"center"`
	Zoom    int                `json:"zoom"`
	Tiles   string             `json:"tiles"`
	Markers []Marker           `json:"markers"`
	Overlay *FeatureCollection `json:"overlay,omitempty"`
}
