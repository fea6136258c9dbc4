package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"registro/models"
)

func TestOpenCompanyStoreMissingFile(t *testing.T) {
	_, err := OpenCompanyStore(filepath.Join(t.TempDir(), "missing.db"))
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = OpenCompanyStore("")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestProvisionCompanyStoreSeedsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "company_1.db")
	defaults := []models.Field{
		{Name: "descripcion", Type: models.FieldTypeText},
		{Name: "costo", Type: models.FieldTypeNumber},
	}

	require.NoError(t, ProvisionCompanyStore(path, defaults))
	// Re-provisioning an existing file must not duplicate seed fields
	require.NoError(t, ProvisionCompanyStore(path, defaults))

	db, err := OpenCompanyStore(path)
	require.NoError(t, err)
	defer CloseCompanyStore(db)

	var fields []models.Field
	require.NoError(t, db.Order("id asc").Find(&fields).Error)
	require.Len(t, fields, 2)
	require.Equal(t, "descripcion", fields[0].Name)
	require.Equal(t, "costo", fields[1].Name)
}

func TestStorePathFor(t *testing.T) {
	got := StorePathFor("/data", 42)
	require.Equal(t, filepath.Join("/data", "company_42.db"), got)
}
