package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"registro/config"
	"registro/database"
	"registro/models"
)

// CookieName is the session cookie written on login and cleared on logout.
const CookieName = "registro_session"

const secretSettingKey = "session_secret"

var secret string

// Session identifies the acting company for one request.
type Session struct {
	UserID      uint
	CompanyName string
	StorePath   string
}

// claims are the standard JWT claims plus the session payload.
type claims struct {
	jwt.RegisteredClaims
	UserID      uint   `json:"user_id"`
	CompanyName string `json:"company_name"`
	StorePath   string `json:"store_path"`
}

// InitSecret resolves the session signing secret. SESSION_SECRET wins when
// set; otherwise a generated secret is persisted in app settings so sessions
// survive restarts.
func InitSecret() error {
	if config.Settings.SessionSecret != "" {
		secret = config.Settings.SessionSecret
		return nil
	}

	stored, ok, err := database.GetSetting(secretSettingKey)
	if err != nil {
		return fmt.Errorf("failed to load session secret: %w", err)
	}
	if ok && stored != "" {
		secret = stored
		return nil
	}

	generated := uuid.NewString() + uuid.NewString()
	if err := database.SetSetting(secretSettingKey, generated); err != nil {
		return fmt.Errorf("failed to persist session secret: %w", err)
	}
	secret = generated
	log.Println("Generated new session secret")
	return nil
}

// Issue signs a session token for the user. SESSION_TTL_MINUTES of 0 means
// the token never expires.
func Issue(user *models.User) (string, error) {
	if secret == "" {
		return "", errors.New("session secret not initialized")
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  fmt.Sprintf("%d", user.ID),
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:      user.ID,
		CompanyName: user.CompanyName,
		StorePath:   user.StorePath,
	}
	if ttl := config.Settings.SessionTTLMinutes; ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(ttl) * time.Minute))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secret))
}

// Parse validates a session token and returns its session.
// Returns an error for invalid, expired or tampered tokens.
func Parse(tokenString string) (*Session, error) {
	if secret == "" {
		return nil, errors.New("session secret not initialized")
	}

	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session claims")
	}

	return &Session{
		UserID:      c.UserID,
		CompanyName: c.CompanyName,
		StorePath:   c.StorePath,
	}, nil
}
