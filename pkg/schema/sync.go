package schema

import "time"

// SyncState tracks how far a capture blob has moved through ingestion.
type SyncState string

const (
	SyncPending SyncState = "pending" // found in the bucket, not yet processed
	SyncQueued  SyncState = "queued"  // enqueued for processing
	SyncSynced  SyncState = "synced"  // successfully processed
	SyncFailed  SyncState = "failed"  // failed to process
)

// SyncStatus mirrors sync_status.
type SyncStatus struct {
	BlobName    string     `gorm:"column:blob_name;primaryKey"`
	State       SyncState  `gorm:"column:state;default:pending"`
	ProcessTime *time.Time `gorm:"column:process_time"`
	Message     *string    `gorm:"column:message"`
}

func (SyncStatus) TableName() string { return "sync_status" }

// NoSQLData mirrors nosql_data, a free-form JSON key/value side table.
type NoSQLData struct {
	Key   string         `gorm:"column:key;primaryKey"`
	Value map[string]any `gorm:"column:value;type:json;serializer:json"`
}

func (NoSQLData) TableName() string { return "nosql_data" }
