package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"registro/database"
	"registro/models"
)

var ErrValidation = errors.New("missing required input")
var ErrDuplicateEmail = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")

type sentinelError struct {
	msg      string
	sentinel error
}

func (e sentinelError) Error() string {
	return e.msg
}

func (e sentinelError) Unwrap() error {
	return e.sentinel
}

func wrapSentinel(msg string, sentinel error) error {
	return sentinelError{msg: msg, sentinel: sentinel}
}

// DirectoryService handles company registration and authentication against
// the shared directory database.
type DirectoryService struct {
	db            *gorm.DB
	dataDir       string
	defaultFields []models.Field
}

// NewDirectoryService constructs a directory service
func NewDirectoryService(db *gorm.DB, dataDir string, defaultFields []models.Field) *DirectoryService {
	return &DirectoryService{
		db:            db,
		dataDir:       dataDir,
		defaultFields: defaultFields,
	}
}

// Register creates a company account and provisions its isolated store.
// The user row and its store path commit in one transaction, so a crash can
// never persist a user without a store path.
func (s *DirectoryService) Register(req models.RegisterRequest) (*models.User, error) {
	req.Normalize()
	if req.CompanyName == "" || req.Email == "" || req.Password == "" {
		return nil, wrapSentinel("company, email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		CompanyName:  req.CompanyName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return wrapSentinel("email already registered: "+req.Email, ErrDuplicateEmail)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		user.StorePath = database.StorePathFor(s.dataDir, user.ID)
		if err := tx.Model(&user).Update("store_path", user.StorePath).Error; err != nil {
			return fmt.Errorf("failed to assign store path: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := database.ProvisionCompanyStore(user.StorePath, s.defaultFields); err != nil {
		// Undo the registration so the email can be retried.
		if delErr := s.db.Delete(&models.User{}, user.ID).Error; delErr != nil {
			log.Printf("Failed to roll back user %d after provisioning error: %v", user.ID, delErr)
		}
		return nil, fmt.Errorf("failed to provision company store: %w", err)
	}

	return &user, nil
}

// Authenticate verifies email and password and returns the user record.
// "no such user" and "wrong password" are indistinguishable to the caller.
func (s *DirectoryService) Authenticate(req models.LoginRequest) (*models.User, error) {
	req.Normalize()

	var user models.User
	if err := s.db.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wrapSentinel("email or password incorrect", ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, wrapSentinel("email or password incorrect", ErrInvalidCredentials)
	}

	return &user, nil
}

// Get fetches a user by ID
func (s *DirectoryService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ParseDefaultFields parses a "name:type,name:type" list into seed fields.
// Entries with an unknown type fall back to text; empty names are skipped.
func ParseDefaultFields(spec string) []models.Field {
	var fields []models.Field
	for _, entry := range strings.Split(spec, ",") {
		name, typ, _ := strings.Cut(strings.TrimSpace(entry), ":")
		fc := models.FieldCreate{Name: name, Type: typ}
		fc.Normalize()
		if fc.Name == "" {
			continue
		}
		if err := fc.Validate(); err != nil {
			fc.Type = models.FieldTypeText
		}
		fields = append(fields, models.Field{Name: fc.Name, Type: fc.Type})
	}
	return fields
}

// isUniqueViolation detects SQLite unique constraint failures by message,
// the same way busy/locked errors are classified.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}
