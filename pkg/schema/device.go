package schema

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BLEDevice mirrors ble_device: one row per captured BLE advertisement.
type BLEDevice struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Mac            string    `gorm:"column:mac;type:varchar(17);not null"`
	RSSI           int       `gorm:"column:rssi;not null"`
	Time           time.Time `gorm:"column:time;not null"`
	Lat            float64   `gorm:"column:lat;not null"`
	Long           float64   `gorm:"column:long;not null"`
	Accuracy       float64   `gorm:"column:accuracy;not null"`
	BlobName       string    `gorm:"column:blob_name;not null"`
	Speed          *float64  `gorm:"column:speed"`
	Name           *string   `gorm:"column:name"`
	LocalName      *string   `gorm:"column:local_name"`
	ManufacturerID *int      `gorm:"column:manufacturer_id"`
	Coordinates    Point     `gorm:"column:coordinates"`
	RawData        []byte    `gorm:"column:raw_data;type:bytea"`
}

func (BLEDevice) TableName() string { return "ble_device" }

// BLEUUID mirrors ble_uuid: every UUID discovered, covering SIG-assigned
// UUIDs, scanned service UUIDs and UUIDs extracted from Android apps.
type BLEUUID struct {
	FullUUID  uuid.UUID `gorm:"column:full_uuid;type:uuid;primaryKey"`
	ShortUUID *int      `gorm:"column:short_uuid"`
	Name      *string   `gorm:"column:name"`
}

func (BLEUUID) TableName() string { return "ble_uuid" }

// BLEDeviceUUID mirrors ble_device_uuid, linking a device sighting to an
// advertised service UUID.
type BLEDeviceUUID struct {
	BLEDeviceID int64     `gorm:"column:ble_device_id;primaryKey"`
	UUID        uuid.UUID `gorm:"column:uuid;type:uuid;primaryKey"`
}

func (BLEDeviceUUID) TableName() string { return "ble_device_uuid" }

// BLEDeviceCreate is the ingestion shape for a scanned advertisement:
// service UUIDs as a comma-separated list and the raw payload base64
// encoded.
type BLEDeviceCreate struct {
	Mac            string
	RSSI           int
	Time           time.Time
	Lat            float64
	Long           float64
	Accuracy       float64
	BlobName       string
	Speed          *float64
	Name           *string
	LocalName      *string
	ManufacturerID *int
	UUIDs          string
	RawData        string
}

// Device builds the BLEDevice row plus the deduplicated set of service
// UUIDs it advertises.
func (c BLEDeviceCreate) Device() ([]BLEUUID, BLEDevice, error) {
	var uuids []BLEUUID
	if c.UUIDs != "" {
		seen := map[uuid.UUID]bool{}
		for _, part := range strings.Split(c.UUIDs, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return nil, BLEDevice{}, fmt.Errorf("parse uuid %q: %w", part, err)
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			uuids = append(uuids, BLEUUID{FullUUID: id})
		}
	}

	var raw []byte
	if c.RawData != "" {
		b, err := base64.StdEncoding.DecodeString(c.RawData)
		if err != nil {
			return nil, BLEDevice{}, fmt.Errorf("decode raw data: %w", err)
		}
		raw = b
	}

	dev := BLEDevice{
		Mac:            c.Mac,
		RSSI:           c.RSSI,
		Time:           c.Time,
		Lat:            c.Lat,
		Long:           c.Long,
		Accuracy:       c.Accuracy,
		BlobName:       c.BlobName,
		Speed:          c.Speed,
		Name:           c.Name,
		LocalName:      c.LocalName,
		ManufacturerID: c.ManufacturerID,
		RawData:        raw,
	}
	if c.Lat != 0 && c.Long != 0 {
		dev.Coordinates = NewPoint(c.Long, c.Lat)
	}
	return uuids, dev, nil
}
