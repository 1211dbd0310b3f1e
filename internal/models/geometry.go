package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DefaultSRID is WGS84, the only reference system parcel boundaries are stored in.
const DefaultSRID = 4326

// MultiPolygon is a parcel boundary in GeoJSON coordinate order:
// [polygons][rings][points][lon,lat].
// County GIS exports mix Polygon and MultiPolygon features, so a Polygon is
// accepted on input and promoted to a single-member MultiPolygon.
type MultiPolygon struct {
	Coordinates [][][][2]float64
	SRID        int
}

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// decode parses a GeoJSON geometry object into mp.
func (mp *MultiPolygon) decode(data []byte) error {
	var geom geoJSONGeometry
	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal boundary geometry: %w", err)
	}

	switch geom.Type {
	case "MultiPolygon", "":
		var coords [][][][2]float64
		if len(geom.Coordinates) > 0 {
			if err := json.Unmarshal(geom.Coordinates, &coords); err != nil {
				return fmt.Errorf("failed to unmarshal multipolygon coordinates: %w", err)
			}
		}
		mp.Coordinates = coords
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(geom.Coordinates, &rings); err != nil {
			return fmt.Errorf("failed to unmarshal polygon coordinates: %w", err)
		}
		mp.Coordinates = [][][][2]float64{rings}
	default:
		return fmt.Errorf("expected Polygon or MultiPolygon type, got %s", geom.Type)
	}

	mp.SRID = DefaultSRID
	return nil
}

// Scan implements sql.Scanner for the GeoJSON text stored in the boundary column.
func (mp *MultiPolygon) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return mp.decode(v)
	case string:
		return mp.decode([]byte(v))
	default:
		return fmt.Errorf("failed to scan MultiPolygon: expected []byte or string, got %T", value)
	}
}

// Value implements driver.Valuer. Empty boundaries are stored as NULL.
func (mp MultiPolygon) Value() (driver.Value, error) {
	if len(mp.Coordinates) == 0 {
		return nil, nil
	}
	data, err := mp.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal multipolygon to GeoJSON: %w", err)
	}
	return string(data), nil
}

// MarshalJSON renders the boundary as a GeoJSON MultiPolygon.
func (mp MultiPolygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}{
		Type:        "MultiPolygon",
		Coordinates: mp.Coordinates,
	})
}

// UnmarshalJSON accepts a GeoJSON Polygon or MultiPolygon.
func (mp *MultiPolygon) UnmarshalJSON(data []byte) error {
	return mp.decode(data)
}
