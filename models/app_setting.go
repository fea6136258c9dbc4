package models

import "time"

// AppSetting stores small persistent key/value settings in the directory
// database. It is intentionally generic to avoid adding new tables for every
// tiny feature; the generated session secret lives here.
type AppSetting struct {
	Key       string    `gorm:"primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
