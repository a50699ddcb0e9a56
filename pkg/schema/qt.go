package schema

import (
	"database/sql/driver"
	"fmt"
)

// QTMode is the operating mode a QT device reports. The database column is
// a Postgres enum storing the constant names.
type QTMode int

const (
	ModeUnknown QTMode = iota
	ModeInstaller
	ModeDealer
	ModeUser
	ModeNoSale
	ModeBCA
	ModeValet
	ModeBootload
	ModeUnconfigured
)

var modeNames = map[QTMode]string{
	ModeUnknown:      "UNKNOWN",
	ModeInstaller:    "INSTALLER",
	ModeDealer:       "DEALER",
	ModeUser:         "USER",
	ModeNoSale:       "NOSALE",
	ModeBCA:          "BCA",
	ModeValet:        "VALET",
	ModeBootload:     "BOOTLOAD",
	ModeUnconfigured: "UNCONFIGURED",
}

func (m QTMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("QTMode(%d)", int(m))
}

// Value stores the enum member name.
func (m QTMode) Value() (driver.Value, error) {
	name, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("invalid qt mode %d", int(m))
	}
	return name, nil
}

// Scan reads the enum member name back into its value.
func (m *QTMode) Scan(src any) error {
	name, err := enumText("qt mode", src)
	if err != nil {
		return err
	}
	for v, n := range modeNames {
		if n == name {
			*m = v
			return nil
		}
	}
	return fmt.Errorf("unknown qt mode %q", name)
}

// QTColor is the case color a QT device reports.
type QTColor int

const (
	ColorOrange QTColor = iota + 1
	ColorBlue
	ColorLightGreen
	ColorRed
	ColorMediumPurple
	ColorLightGrey
)

var colorNames = map[QTColor]string{
	ColorOrange:       "ORANGE",
	ColorBlue:         "BLUE",
	ColorLightGreen:   "LIGHTGREEN",
	ColorRed:          "RED",
	ColorMediumPurple: "MEDIUMPURPLE",
	ColorLightGrey:    "LIGHTGREY",
}

func (c QTColor) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("QTColor(%d)", int(c))
}

// Value stores the enum member name.
func (c QTColor) Value() (driver.Value, error) {
	name, ok := colorNames[c]
	if !ok {
		return nil, fmt.Errorf("invalid qt color %d", int(c))
	}
	return name, nil
}

// Scan reads the enum member name back into its value.
func (c *QTColor) Scan(src any) error {
	name, err := enumText("qt color", src)
	if err != nil {
		return err
	}
	for v, n := range colorNames {
		if n == name {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown qt color %q", name)
}

func enumText(what string, src any) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("scan %s: unsupported source type %T", what, src)
	}
}

// QTDevice mirrors qt_device: decoded state for devices whose advertisement
// carries the QT manufacturer payload.
type QTDevice struct {
	BLEDeviceID int64   `gorm:"column:ble_device_id;primaryKey"`
	Name        string  `gorm:"column:name"`
	Mac         string  `gorm:"column:mac"`
	Color       QTColor `gorm:"column:color;type:qtcolor"`
	Mode        QTMode  `gorm:"column:mode;type:qtmode"`
	Armed       bool    `gorm:"column:armed"`
	Snowmode    bool    `gorm:"column:snowmode"`
	VBat        float64 `gorm:"column:vbat"`
}

func (QTDevice) TableName() string { return "qt_device" }

// Advertisement field types used by the QT payload.
const (
	advTypeLocalName        = 9
	advTypeManufacturerData = 255
)

// advFields splits raw advertisement data into its type-tagged fields.
// Each field starts with a length byte covering the type byte and value;
// a zero length byte or a truncated field ends the scan.
func advFields(data []byte) map[byte][]byte {
	fields := map[byte][]byte{}
	for off := 0; off < len(data); {
		length := int(data[off])
		if length == 0 || off+1+length > len(data) {
			break
		}
		fields[data[off+1]] = data[off+2 : off+1+length]
		off += length + 1
	}
	return fields
}

// QTDeviceFromBLEDevice decodes the QT manufacturer payload out of a stored
// advertisement. The device must have been persisted (non-zero ID) and
// carry both a name and raw data. Color and mode are bit-packed into the
// six manufacturer data bytes; the last byte is battery voltage in units
// of 60 mV.
func QTDeviceFromBLEDevice(dev BLEDevice) (QTDevice, error) {
	if dev.ID == 0 {
		return QTDevice{}, fmt.Errorf("qt device: ble device has no id")
	}
	if dev.Name == nil {
		return QTDevice{}, fmt.Errorf("qt device: ble device has no name")
	}
	if len(dev.RawData) == 0 {
		return QTDevice{}, fmt.Errorf("qt device: ble device has no raw data")
	}

	fields := advFields(dev.RawData)
	mfr := fields[advTypeManufacturerData]
	if len(mfr) != 6 {
		return QTDevice{}, fmt.Errorf("qt device: manufacturer data is %d bytes, want 6", len(mfr))
	}

	color := QTColor(((mfr[0] & 0xC0) >> 6) | ((mfr[1] & 0xC0) >> 4))
	if _, ok := colorNames[color]; !ok {
		return QTDevice{}, fmt.Errorf("qt device: invalid color %d", int(color))
	}
	mode := QTMode(((mfr[2] & 0xC0) >> 6) | ((mfr[3] & 0x40) >> 4))
	if _, ok := modeNames[mode]; !ok {
		return QTDevice{}, fmt.Errorf("qt device: invalid mode %d", int(mode))
	}

	return QTDevice{
		BLEDeviceID: dev.ID,
		Name:        string(fields[advTypeLocalName]),
		Mac:         dev.Mac,
		Color:       color,
		Mode:        mode,
		Armed:       mfr[3]&0x80 != 0,
		Snowmode:    mfr[4]&0x40 != 0,
		VBat:        float64(mfr[5]) * 60 / 1000,
	}, nil
}
