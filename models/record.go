package models

import "time"

// Record ("registro") is one row of business data. Its content lives
// entirely in the associated Values.
type Record struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:creado_at" json:"creado_at"`
}

// TableName keeps the original store schema name.
func (Record) TableName() string { return "registros" }

// Value is one (record, field) -> text association. Empty submissions are
// never stored, so absence of a row means absence of a value.
type Value struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecordID uint   `gorm:"column:registro_id;not null;index" json:"registro_id"`
	FieldID  uint   `gorm:"column:campo_id;not null;index" json:"campo_id"`
	Value    string `gorm:"column:valor" json:"valor"`
}

// TableName keeps the original store schema name.
func (Value) TableName() string { return "valores" }

// RecordView pairs a record with its values keyed by field name.
// Fields with no stored value for the record are absent from the map.
type RecordView struct {
	ID        uint              `json:"id"`
	CreatedAt time.Time         `json:"creado_at"`
	Values    map[string]string `json:"valores"`
}
