package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"registro/models"
)

// ErrStoreUnavailable is returned when a company store file is missing,
// e.g. directory state was lost or the recorded path is stale.
var ErrStoreUnavailable = errors.New("company store unavailable")

// StorePathFor derives the store file path for a user deterministically
// from the row id, so provisioning and the user row commit together.
func StorePathFor(dataDir string, userID uint) string {
	return filepath.Join(dataDir, fmt.Sprintf("company_%d.db", userID))
}

// ProvisionCompanyStore creates and initializes an isolated company store at
// path, migrating the campos/registros/valores schema and seeding the given
// default fields. Seeding uses insert-or-ignore semantics on the field name
// so re-provisioning an existing file is harmless.
func ProvisionCompanyStore(path string, defaults []models.Field) error {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer closeStore(db)

	if err := db.AutoMigrate(&models.Field{}, &models.Record{}, &models.Value{}); err != nil {
		return err
	}

	for _, f := range defaults {
		field := models.Field{Name: f.Name, Type: f.Type}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&field).Error; err != nil {
			return err
		}
	}

	return nil
}

// OpenCompanyStore opens an existing company store. Every request opens and
// closes its own handle; there is no cross-request reuse.
// Returns ErrStoreUnavailable when the file does not exist.
func OpenCompanyStore(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, ErrStoreUnavailable
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, path)
	}
	return openSQLite(path)
}

// CloseCompanyStore releases the per-request store handle.
func CloseCompanyStore(db *gorm.DB) {
	closeStore(db)
}

func closeStore(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
