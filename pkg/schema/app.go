package schema

import "github.com/google/uuid"

// AndroidApp mirrors android_app: apps whose packages were mined for
// service UUIDs.
type AndroidApp struct {
	AppID       string  `gorm:"column:app_id;primaryKey"`
	Name        string  `gorm:"column:name;not null"`
	Description *string `gorm:"column:description"`
}

func (AndroidApp) TableName() string { return "android_app" }

// AndroidAppUUID mirrors android_app_uuid, linking an app to a UUID found
// in its package.
type AndroidAppUUID struct {
	AppID string    `gorm:"column:app_id;primaryKey"`
	UUID  uuid.UUID `gorm:"column:uuid;type:uuid;primaryKey"`
}

func (AndroidAppUUID) TableName() string { return "android_app_uuid" }
