package schema

import (
	"database/sql/driver"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// SRID used by every geometry column in the schema (WGS 84).
const sridWGS84 = 4326

const (
	ewkbPoint    = 1
	ewkbSRIDFlag = 0x20000000
)

// Point maps a PostGIS geometry(Point,4326) column. The zero value is NULL.
type Point struct {
	Lng   float64
	Lat   float64
	Valid bool
}

// NewPoint returns a non-NULL point at the given coordinates.
func NewPoint(lng, lat float64) Point {
	return Point{Lng: lng, Lat: lat, Valid: true}
}

// GormDataType reports the column type for migrations.
func (Point) GormDataType() string {
	return fmt.Sprintf("geometry(Point,%d)", sridWGS84)
}

// Value encodes the point as extended WKT, which PostGIS casts to geometry.
func (p Point) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	return fmt.Sprintf("SRID=%d;POINT(%v %v)", sridWGS84, p.Lng, p.Lat), nil
}

// Scan decodes the hex-encoded extended WKB that Postgres returns for
// geometry columns.
func (p *Point) Scan(src any) error {
	if src == nil {
		*p = Point{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan geometry: unsupported source type %T", src)
	}

	buf := make([]byte, hex.DecodedLen(len(raw)))
	if _, err := hex.Decode(buf, raw); err != nil {
		return fmt.Errorf("scan geometry: %w", err)
	}
	if len(buf) < 5 {
		return fmt.Errorf("scan geometry: truncated header")
	}
	var order binary.ByteOrder = binary.LittleEndian
	if buf[0] == 0 {
		order = binary.BigEndian
	}
	gtype := order.Uint32(buf[1:5])
	rest := buf[5:]
	if gtype&ewkbSRIDFlag != 0 {
		if len(rest) < 4 {
			return fmt.Errorf("scan geometry: truncated srid")
		}
		// SRID is fixed at 4326 for every column in this schema.
		rest = rest[4:]
	}
	if gtype&^uint32(ewkbSRIDFlag) != ewkbPoint {
		return fmt.Errorf("scan geometry: unexpected geometry type %#x", gtype)
	}
	if len(rest) < 16 {
		return fmt.Errorf("scan geometry: truncated coordinates")
	}
	p.Lng = math.Float64frombits(order.Uint64(rest[:8]))
	p.Lat = math.Float64frombits(order.Uint64(rest[8:16]))
	p.Valid = true
	return nil
}
