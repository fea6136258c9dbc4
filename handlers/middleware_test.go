package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"registro/auth"
	"registro/config"
	"registro/models"
)

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", RequireSession(), func(c *gin.Context) {
		session := currentSession(c)
		c.String(http.StatusOK, session.CompanyName)
	})
	return r
}

func withTestSecret(t *testing.T) {
	t.Helper()
	prev := config.Settings.SessionSecret
	config.Settings.SessionSecret = "handlers-test-secret"
	t.Cleanup(func() { config.Settings.SessionSecret = prev })
	require.NoError(t, auth.InitSecret())
}

func TestRequireSessionRedirectsWithoutCookie(t *testing.T) {
	r := newProtectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireSessionRejectsGarbageCookie(t *testing.T) {
	withTestSecret(t)
	r := newProtectedRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireSessionAcceptsValidCookie(t *testing.T) {
	withTestSecret(t)
	r := newProtectedRouter()

	token, err := auth.Issue(&models.User{ID: 3, CompanyName: "Acme", StorePath: "/tmp/company_3.db"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Acme", w.Body.String())
}
