package models

import (
	"fmt"
	"strings"
)

// Field types accepted at the boundary. The store itself keeps every value
// as text; the type only drives form rendering.
const (
	FieldTypeText   = "text"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
)

// Field ("campo") is a user-defined named attribute applicable to every
// record in a company store.
type Field struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	Type string `gorm:"not null;default:'text'" json:"type"`
}

// TableName keeps the original store schema name.
func (Field) TableName() string { return "campos" }

// FieldCreate is the add-field form payload.
type FieldCreate struct {
	Name string `form:"nombre"`
	Type string `form:"tipo"`
}

// Normalize trims whitespace and defaults the type to text.
func (f *FieldCreate) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	if f.Type == "" {
		f.Type = FieldTypeText
	}
}

// Validate checks the payload after Normalize.
func (f *FieldCreate) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("field name is required")
	}
	switch f.Type {
	case FieldTypeText, FieldTypeNumber, FieldTypeDate:
		return nil
	default:
		return fmt.Errorf("unknown field type %q", f.Type)
	}
}
