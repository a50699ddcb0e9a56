package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infra-wireless/clueaccess/pkg/schema"
)

// advField encodes one length/type/value advertisement field.
func advField(typ byte, val []byte) []byte {
	return append([]byte{byte(len(val) + 1), typ}, val...)
}

func qtAdvertisement(name string, mfr []byte) []byte {
	raw := advField(9, []byte(name))
	return append(raw, advField(255, mfr)...)
}

func strPtr(s string) *string { return &s }

func TestQTDeviceFromBLEDevice(t *testing.T) {
	// b0=0x80,b1=0x00 -> color BLUE; b2=0xC0,b3=0x80 -> mode USER, armed;
	// b4=0x40 -> snowmode; b5=200 -> 12.0 V.
	mfr := []byte{0x80, 0x00, 0xC0, 0x80, 0x40, 200}
	dev := schema.BLEDevice{
		ID:      42,
		Mac:     "AA:BB:CC:DD:EE:FF",
		Name:    strPtr("QT-GARAGE"),
		RawData: qtAdvertisement("QT-GARAGE", mfr),
	}

	qt, err := schema.QTDeviceFromBLEDevice(dev)
	require.NoError(t, err)
	assert.Equal(t, int64(42), qt.BLEDeviceID)
	assert.Equal(t, "QT-GARAGE", qt.Name)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", qt.Mac)
	assert.Equal(t, schema.ColorBlue, qt.Color)
	assert.Equal(t, schema.ModeUser, qt.Mode)
	assert.True(t, qt.Armed)
	assert.True(t, qt.Snowmode)
	assert.InDelta(t, 12.0, qt.VBat, 1e-9)
}

func TestQTDeviceFromBLEDeviceRejectsIncomplete(t *testing.T) {
	mfr := []byte{0x80, 0x00, 0xC0, 0x80, 0x40, 200}
	good := schema.BLEDevice{
		ID:      42,
		Mac:     "AA:BB:CC:DD:EE:FF",
		Name:    strPtr("QT-GARAGE"),
		RawData: qtAdvertisement("QT-GARAGE", mfr),
	}

	noID := good
	noID.ID = 0
	_, err := schema.QTDeviceFromBLEDevice(noID)
	assert.ErrorContains(t, err, "no id")

	noName := good
	noName.Name = nil
	_, err = schema.QTDeviceFromBLEDevice(noName)
	assert.ErrorContains(t, err, "no name")

	noRaw := good
	noRaw.RawData = nil
	_, err = schema.QTDeviceFromBLEDevice(noRaw)
	assert.ErrorContains(t, err, "no raw data")
}

func TestQTDeviceFromBLEDeviceRejectsBadPayload(t *testing.T) {
	short := schema.BLEDevice{
		ID:      1,
		Name:    strPtr("QT"),
		RawData: qtAdvertisement("QT", []byte{0x80, 0x00, 0xC0, 0x80, 0x40}),
	}
	_, err := schema.QTDeviceFromBLEDevice(short)
	assert.ErrorContains(t, err, "want 6")

	// All-zero manufacturer bytes decode to color 0, which no QTColor has.
	zero := schema.BLEDevice{
		ID:      1,
		Name:    strPtr("QT"),
		RawData: qtAdvertisement("QT", make([]byte, 6)),
	}
	_, err = schema.QTDeviceFromBLEDevice(zero)
	assert.ErrorContains(t, err, "invalid color")

	// Truncated fields end the scan, so the payload has no manufacturer data.
	truncated := schema.BLEDevice{
		ID:      1,
		Name:    strPtr("QT"),
		RawData: []byte{0x10, 255, 0x80},
	}
	_, err = schema.QTDeviceFromBLEDevice(truncated)
	assert.ErrorContains(t, err, "want 6")
}

func TestQTEnumRoundTrip(t *testing.T) {
	v, err := schema.ColorMediumPurple.Value()
	require.NoError(t, err)
	assert.Equal(t, "MEDIUMPURPLE", v)

	var c schema.QTColor
	require.NoError(t, c.Scan("LIGHTGREEN"))
	assert.Equal(t, schema.ColorLightGreen, c)
	require.NoError(t, c.Scan([]byte("RED")))
	assert.Equal(t, schema.ColorRed, c)
	assert.Error(t, c.Scan("CHARTREUSE"))
	_, err = schema.QTColor(99).Value()
	assert.Error(t, err)

	m, err := schema.ModeBootload.Value()
	require.NoError(t, err)
	assert.Equal(t, "BOOTLOAD", m)

	var md schema.QTMode
	require.NoError(t, md.Scan("VALET"))
	assert.Equal(t, schema.ModeValet, md)
	assert.Error(t, md.Scan("JOYRIDE"))
}

func TestQTEnumString(t *testing.T) {
	assert.Equal(t, "UNCONFIGURED", schema.ModeUnconfigured.String())
	assert.Equal(t, "ORANGE", schema.ColorOrange.String())
	assert.Equal(t, "QTColor(99)", schema.QTColor(99).String())
}
