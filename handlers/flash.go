package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Notice categories rendered by the templates.
const (
	NoticeSuccess = "success"
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeDanger  = "danger"
)

const flashCookieName = "registro_flash"

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Category string
	Message  string
}

// setFlash queues a notice in a short-lived cookie, consumed by the next
// page render.
func setFlash(c *gin.Context, category, message string) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(category + "|" + message))
	c.SetCookie(flashCookieName, payload, 60, "/", "", false, true)
}

// takeFlash returns the queued notice, if any, and clears it.
func takeFlash(c *gin.Context) *Notice {
	payload, err := c.Cookie(flashCookieName)
	if err != nil || payload == "" {
		return nil
	}
	c.SetCookie(flashCookieName, "", -1, "/", "", false, true)

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(string(decoded), "|")
	if !ok || message == "" {
		return nil
	}
	return &Notice{Category: category, Message: message}
}

// flashRedirect queues a notice and redirects with 303 so a POST never
// re-submits on refresh.
func flashRedirect(c *gin.Context, category, message, location string) {
	setFlash(c, category, message)
	c.Redirect(http.StatusSeeOther, location)
}
