package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"registro/auth"
	"registro/database"
)

const sessionContextKey = "session"

// RequireSession gates every company-data route. A missing or invalid
// session cookie redirects to the login page, never failing the process.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			flashRedirect(c, NoticeWarning, "Please log in first", "/login")
			c.Abort()
			return
		}

		session, err := auth.Parse(token)
		if err != nil {
			log.Printf("Rejected session cookie: %v", err)
			c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
			flashRedirect(c, NoticeWarning, "Please log in first", "/login")
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// currentSession returns the session attached by RequireSession.
func currentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*auth.Session)
	return session
}

// openStore opens the company store referenced by the current session.
// On failure it queues a danger notice, redirects to fallback and reports
// false; the caller must return immediately.
func openStore(c *gin.Context, fallback string) (*gorm.DB, bool) {
	session := currentSession(c)
	if session == nil {
		flashRedirect(c, NoticeWarning, "Please log in first", "/login")
		return nil, false
	}

	db, err := database.OpenCompanyStore(session.StorePath)
	if err != nil {
		if errors.Is(err, database.ErrStoreUnavailable) {
			log.Printf("Company store missing for user %d: %v", session.UserID, err)
			flashRedirect(c, NoticeDanger, "Company database is not available", fallback)
			return nil, false
		}
		log.Printf("Failed to open company store for user %d: %v", session.UserID, err)
		flashRedirect(c, NoticeDanger, "Internal error, please try again", fallback)
		return nil, false
	}
	return db, true
}
