package service

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"registro/database"
	"registro/models"
)

func newTestDirectory(t *testing.T) *DirectoryService {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "users.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.AppSetting{}))

	defaults := ParseDefaultFields("descripcion:text,comprador:text,costo:number")
	return NewDirectoryService(db, dir, defaults)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestDirectory(t)

	user, err := svc.Register(models.RegisterRequest{
		CompanyName: "Acme",
		Email:       "a@x.com",
		Password:    "pw",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEmpty(t, user.StorePath)

	// Email comparison is case-insensitive
	got, err := svc.Authenticate(models.LoginRequest{Email: "A@X.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, "Acme", got.CompanyName)

	_, err = svc.Authenticate(models.LoginRequest{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown user reports the same outcome as a wrong password
	_, err = svc.Authenticate(models.LoginRequest{Email: "nobody@x.com", Password: "pw"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestDirectory(t)

	_, err := svc.Register(models.RegisterRequest{CompanyName: "Acme", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(models.RegisterRequest{CompanyName: "Other", Email: "A@X.com", Password: "pw2"})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestDirectory(t)

	_, err := svc.Register(models.RegisterRequest{CompanyName: "", Email: "a@x.com", Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(models.RegisterRequest{CompanyName: "Acme", Email: "  ", Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRegisterProvisionsSeededStore(t *testing.T) {
	svc := newTestDirectory(t)

	user, err := svc.Register(models.RegisterRequest{CompanyName: "Acme", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	store, err := database.OpenCompanyStore(user.StorePath)
	require.NoError(t, err)
	defer database.CloseCompanyStore(store)

	fields, err := NewStoreService(store).ListFields()
	require.NoError(t, err)
	require.Len(t, fields, 3)
	require.Equal(t, "descripcion", fields[0].Name)
	require.Equal(t, "comprador", fields[1].Name)
	require.Equal(t, "costo", fields[2].Name)
	require.Equal(t, models.FieldTypeNumber, fields[2].Type)
}

func TestParseDefaultFields(t *testing.T) {
	fields := ParseDefaultFields("a:text, b:number ,c:banana,,:date,d")
	require.Len(t, fields, 4)

	require.Equal(t, "a", fields[0].Name)
	require.Equal(t, models.FieldTypeText, fields[0].Type)
	require.Equal(t, "b", fields[1].Name)
	require.Equal(t, models.FieldTypeNumber, fields[1].Type)

	// Unknown type falls back to text
	require.Equal(t, "c", fields[2].Name)
	require.Equal(t, models.FieldTypeText, fields[2].Type)

	// Missing type defaults to text
	require.Equal(t, "d", fields[3].Name)
	require.Equal(t, models.FieldTypeText, fields[3].Type)
}
