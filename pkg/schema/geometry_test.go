package schema_test

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-wireless/clueaccess/pkg/schema"
)

// ewkbPointHex builds the hex-encoded extended WKB that Postgres returns
// for a geometry(Point,4326) column.
func ewkbPointHex(order binary.AppendByteOrder, lng, lat float64) []byte {
	buf := make([]byte, 0, 25)
	if order == binary.AppendByteOrder(binary.LittleEndian) {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = order.AppendUint32(buf, 0x20000001) // point with SRID
	buf = order.AppendUint32(buf, 4326)
	buf = order.AppendUint64(buf, math.Float64bits(lng))
	buf = order.AppendUint64(buf, math.Float64bits(lat))
	out := make([]byte, hex.EncodedLen(len(buf)))
	hex.Encode(out, buf)
	return out
}

func TestPointScanLittleEndian(t *testing.T) {
	var p schema.Point
	require.NoError(t, p.Scan(ewkbPointHex(binary.LittleEndian, -122.4194, 37.7749)))
	assert.True(t, p.Valid)
	assert.InDelta(t, -122.4194, p.Lng, 1e-9)
	assert.InDelta(t, 37.7749, p.Lat, 1e-9)
}

func TestPointScanBigEndian(t *testing.T) {
	var p schema.Point
	require.NoError(t, p.Scan(string(ewkbPointHex(binary.BigEndian, 23.3219, 42.6977))))
	assert.True(t, p.Valid)
	assert.InDelta(t, 23.3219, p.Lng, 1e-9)
	assert.InDelta(t, 42.6977, p.Lat, 1e-9)
}

func TestPointScanNull(t *testing.T) {
	p := schema.NewPoint(1, 2)
	require.NoError(t, p.Scan(nil))
	assert.False(t, p.Valid)
}

func TestPointScanRejectsGarbage(t *testing.T) {
	var p schema.Point
	assert.Error(t, p.Scan([]byte("zz")))
	assert.Error(t, p.Scan([]byte("0101")))
	assert.Error(t, p.Scan(42))

	// A linestring type code is not a point.
	raw := ewkbPointHex(binary.LittleEndian, 0, 0)
	raw[3] = '2' // first type byte 0x01 -> 0x02
	assert.Error(t, p.Scan(raw))
}

func TestPointValue(t *testing.T) {
	v, err := schema.NewPoint(-122.4194, 37.7749).Value()
	require.NoError(t, err)
	assert.Equal(t, "SRID=4326;POINT(-122.4194 37.7749)", v)

	null, err := schema.Point{}.Value()
	require.NoError(t, err)
	assert.Nil(t, null)
}
