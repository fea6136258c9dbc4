package service

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"registro/models"
)

func newTestStore(t *testing.T) *StoreService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "company.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Field{}, &models.Record{}, &models.Value{}))
	return NewStoreService(db)
}

func mustAddField(t *testing.T, s *StoreService, name, typ string) *models.Field {
	t.Helper()
	field, err := s.AddField(models.FieldCreate{Name: name, Type: typ})
	require.NoError(t, err)
	return field
}

func TestAddFieldDuplicate(t *testing.T) {
	s := newTestStore(t)

	mustAddField(t, s, "cost", "number")

	_, err := s.AddField(models.FieldCreate{Name: "cost", Type: "text"})
	require.ErrorIs(t, err, ErrFieldExists)

	fields, err := s.ListFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	require.Equal(t, "cost", fields[0].Name)
	require.Equal(t, models.FieldTypeNumber, fields[0].Type)
}

func TestAddFieldValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddField(models.FieldCreate{Name: "  ", Type: "text"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.AddField(models.FieldCreate{Name: "cost", Type: "banana"})
	require.ErrorIs(t, err, ErrValidation)

	// Empty type defaults to text
	field, err := s.AddField(models.FieldCreate{Name: "note"})
	require.NoError(t, err)
	require.Equal(t, models.FieldTypeText, field.Type)
}

func TestAddRecordSkipsEmptyValues(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")
	f2 := mustAddField(t, s, "field2", "text")

	_, err := s.AddRecord(map[uint]string{f1.ID: "foo", f2.ID: ""})
	require.NoError(t, err)

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, map[string]string{"field1": "foo"}, records[0].Values)
}

func TestEditRecordFullReplacement(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")
	f2 := mustAddField(t, s, "field2", "text")

	record, err := s.AddRecord(map[uint]string{f1.ID: "foo", f2.ID: "bar"})
	require.NoError(t, err)

	// Omitting a field clears it; an empty submission clears too
	require.NoError(t, s.EditRecord(record.ID, map[uint]string{f1.ID: ""}))

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Empty(t, records[0].Values)

	require.NoError(t, s.EditRecord(record.ID, map[uint]string{f2.ID: "baz"}))
	records, err = s.ListRecords()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"field2": "baz"}, records[0].Values)
}

func TestDeleteFieldCascadesToValues(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")
	f2 := mustAddField(t, s, "field2", "text")

	record, err := s.AddRecord(map[uint]string{f1.ID: "keep", f2.ID: "drop"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteField(f2.ID))

	fields, err := s.ListFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	require.Equal(t, "field1", fields[0].Name)

	// The record survives, only the dependent value is gone
	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, record.ID, records[0].ID)
	require.Equal(t, map[string]string{"field1": "keep"}, records[0].Values)
}

func TestDeleteRecordCascadesToValues(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")

	record, err := s.AddRecord(map[uint]string{f1.ID: "foo"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(record.ID))

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Empty(t, records)

	var valueCount int64
	require.NoError(t, s.db.Model(&models.Value{}).Count(&valueCount).Error)
	require.Zero(t, valueCount)
}

func TestDeleteMissingIDsAreNoOps(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")
	_, err := s.AddRecord(map[uint]string{f1.ID: "foo"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(9999))
	require.NoError(t, s.DeleteField(9999))

	fields, err := s.ListFields()
	require.NoError(t, err)
	require.Len(t, fields, 1)

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, map[string]string{"field1": "foo"}, records[0].Values)
}

func TestListRecordsMostRecentFirst(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")

	first, err := s.AddRecord(map[uint]string{f1.ID: "one"})
	require.NoError(t, err)
	second, err := s.AddRecord(map[uint]string{f1.ID: "two"})
	require.NoError(t, err)

	records, err := s.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, second.ID, records[0].ID)
	require.Equal(t, first.ID, records[1].ID)
}

func TestGetRecordValues(t *testing.T) {
	s := newTestStore(t)
	f1 := mustAddField(t, s, "field1", "text")
	f2 := mustAddField(t, s, "field2", "text")

	record, err := s.AddRecord(map[uint]string{f1.ID: "foo", f2.ID: ""})
	require.NoError(t, err)

	values, err := s.GetRecordValues(record.ID)
	require.NoError(t, err)
	require.Equal(t, map[uint]string{f1.ID: "foo"}, values)
}
