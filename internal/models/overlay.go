package models

// GeoJSON document types for the cached road overlay.
const (
	TypeFeatureCollection = "FeatureCollection"
	TypeFeature           = "Feature"
	TypeLineString        = "LineString"
)

// FeatureCollection is the persisted overlay document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one line geometry with the tags of the way it came from.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   LineString        `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// LineString holds positions in GeoJSON [lon, lat] order.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// NewFeatureCollection wraps features in a typed collection.
func NewFeatureCollection(features []Feature) *FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return &FeatureCollection{Type: TypeFeatureCollection, Features: features}
}

// NewLineFeature builds a LineString feature from points in path order.
func NewLineFeature(points []Coordinate, tags map[string]string) Feature {
	coords := make([][2]float64, len(points))
	for i, p := range points {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	if tags == nil {
		tags = map[string]string{}
	}
	return Feature{
		Type:       TypeFeature,
		Geometry:   LineString{Type: TypeLineString, Coordinates: coords},
		Properties: tags,
	}
}
