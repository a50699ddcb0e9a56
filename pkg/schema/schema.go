// Package schema holds the model structs mirroring the existing Cluetooth
// database tables. The structs are passive: uniqueness, foreign keys and
// defaults are enforced by the database, not here.
package schema

// Tables lists every model in dependency order, for AutoMigrate and for
// callers that iterate the full schema.
func Tables() []any {
	return []any{
		&BLEDevice{},
		&BLEUUID{},
		&BLEDeviceUUID{},
		&AndroidApp{},
		&AndroidAppUUID{},
		&SyncStatus{},
		&NoSQLData{},
		&QTDevice{},
	}
}
