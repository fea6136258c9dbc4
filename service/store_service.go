package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"registro/models"
)

var ErrFieldExists = errors.New("field already exists")

// StoreService operates on one company's isolated store. A new instance is
// built per request around the handle opened from the session's store path.
type StoreService struct {
	db *gorm.DB
}

// NewStoreService wraps an open company store handle
func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// ListFields returns all fields in insertion order (id ascending).
func (s *StoreService) ListFields() ([]models.Field, error) {
	var fields []models.Field
	if err := s.db.Order("id asc").Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return fields, nil
}

// AddField inserts a field when the name is absent.
// Returns ErrFieldExists on a duplicate name.
func (s *StoreService) AddField(req models.FieldCreate) (*models.Field, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, wrapSentinel(err.Error(), ErrValidation)
	}

	field := models.Field{Name: req.Name, Type: req.Type}
	if err := s.db.Create(&field).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, wrapSentinel("field already exists: "+req.Name, ErrFieldExists)
		}
		return nil, fmt.Errorf("failed to create field: %w", err)
	}
	return &field, nil
}

// DeleteField removes dependent values and then the field itself.
// Deleting a missing id is a silent no-op.
func (s *StoreService) DeleteField(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campo_id = ?", id).Delete(&models.Value{}).Error; err != nil {
			return fmt.Errorf("failed to delete field values: %w", err)
		}
		if err := tx.Delete(&models.Field{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete field: %w", err)
		}
		return nil
	})
}

// ListRecords returns all records, most recent first, each paired with its
// values keyed by field name. Fields with no value for a record are absent
// from the map.
func (s *StoreService) ListRecords() ([]models.RecordView, error) {
	var records []models.Record
	if err := s.db.Order("id desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	type valueRow struct {
		RecordID uint
		Name     string
		Value    string
	}
	var rows []valueRow
	err := s.db.Table("valores").
		Select("valores.registro_id AS record_id, campos.name AS name, valores.valor AS value").
		Joins("JOIN campos ON campos.id = valores.campo_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load record values: %w", err)
	}

	byRecord := make(map[uint]map[string]string, len(records))
	for _, row := range rows {
		if byRecord[row.RecordID] == nil {
			byRecord[row.RecordID] = make(map[string]string)
		}
		byRecord[row.RecordID][row.Name] = row.Value
	}

	views := make([]models.RecordView, len(records))
	for i, r := range records {
		values := byRecord[r.ID]
		if values == nil {
			values = make(map[string]string)
		}
		views[i] = models.RecordView{ID: r.ID, CreatedAt: r.CreatedAt, Values: values}
	}
	return views, nil
}

// GetRecordValues returns the stored values of one record keyed by field id,
// for pre-filling the edit form.
func (s *StoreService) GetRecordValues(recordID uint) (map[uint]string, error) {
	var values []models.Value
	if err := s.db.Where("registro_id = ?", recordID).Find(&values).Error; err != nil {
		return nil, fmt.Errorf("failed to load record values: %w", err)
	}
	result := make(map[uint]string, len(values))
	for _, v := range values {
		result[v.FieldID] = v.Value
	}
	return result, nil
}

// AddRecord creates a record and one value per non-empty submission.
// Empty or absent submissions are skipped, never stored as empty strings.
func (s *StoreService) AddRecord(valuesByField map[uint]string) (*models.Record, error) {
	var record models.Record
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
		return insertValues(tx, record.ID, valuesByField)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// EditRecord replaces every value of the record: existing values are deleted
// and non-empty submissions re-inserted. Omitting a field clears it.
func (s *StoreService) EditRecord(id uint, valuesByField map[uint]string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registro_id = ?", id).Delete(&models.Value{}).Error; err != nil {
			return fmt.Errorf("failed to clear record values: %w", err)
		}
		return insertValues(tx, id, valuesByField)
	})
}

// DeleteRecord removes the record's values and then the record.
// Deleting a missing id is a silent no-op.
func (s *StoreService) DeleteRecord(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registro_id = ?", id).Delete(&models.Value{}).Error; err != nil {
			return fmt.Errorf("failed to delete record values: %w", err)
		}
		if err := tx.Delete(&models.Record{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		return nil
	})
}

func insertValues(tx *gorm.DB, recordID uint, valuesByField map[uint]string) error {
	for fieldID, raw := range valuesByField {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		v := models.Value{RecordID: recordID, FieldID: fieldID, Value: value}
		if err := tx.Create(&v).Error; err != nil {
			return fmt.Errorf("failed to store value for field %d: %w", fieldID, err)
		}
	}
	return nil
}
