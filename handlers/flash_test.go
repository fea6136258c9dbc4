package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Queue the notice
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	setFlash(c, NoticeWarning, "That field already exists")

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Consume it on the next request
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range cookies {
		c2.Request.AddCookie(cookie)
	}

	notice := takeFlash(c2)
	require.NotNil(t, notice)
	require.Equal(t, NoticeWarning, notice.Category)
	require.Equal(t, "That field already exists", notice.Message)

	// Consuming clears the cookie
	var cleared bool
	for _, cookie := range w2.Result().Cookies() {
		if cookie.Name == flashCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)
}

func TestTakeFlashMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	require.Nil(t, takeFlash(c))
}

func TestTakeFlashGarbageCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%%not-base64%%%"})

	require.Nil(t, takeFlash(c))
}
