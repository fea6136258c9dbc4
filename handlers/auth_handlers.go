package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"registro/auth"
	"registro/config"
	"registro/models"
	"registro/service"
)

// ShowRegister renders the registration form
func ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flash": takeFlash(c)})
}

// Register creates a company account and provisions its store
func Register(c *gin.Context) {
	req := models.RegisterRequest{
		CompanyName: c.PostForm("company"),
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
	}

	_, err := service.GlobalServices.Directory.Register(req)
	switch {
	case err == nil:
		flashRedirect(c, NoticeSuccess, "Account created. Please log in.", "/login")
	case errors.Is(err, service.ErrValidation):
		flashRedirect(c, NoticeDanger, "Please fill in all fields", "/register")
	case errors.Is(err, service.ErrDuplicateEmail):
		flashRedirect(c, NoticeWarning, "That email is already registered", "/register")
	default:
		log.Printf("Registration failed: %v", err)
		flashRedirect(c, NoticeDanger, "Registration failed, please try again", "/register")
	}
}

// ShowLogin renders the login form
func ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Flash": takeFlash(c)})
}

// Login establishes a session on valid credentials
func Login(c *gin.Context) {
	req := models.LoginRequest{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	user, err := service.GlobalServices.Directory.Authenticate(req)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Printf("Login failed: %v", err)
		}
		flashRedirect(c, NoticeDanger, "Email or password incorrect", "/login")
		return
	}

	token, err := auth.Issue(user)
	if err != nil {
		log.Printf("Failed to issue session: %v", err)
		flashRedirect(c, NoticeDanger, "Login failed, please try again", "/login")
		return
	}

	maxAge := 0 // browser-session cookie when no TTL configured
	if ttl := config.Settings.SessionTTLMinutes; ttl > 0 {
		maxAge = ttl * 60
	}
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", false, true)
	flashRedirect(c, NoticeSuccess, "Welcome, "+user.CompanyName, "/")
}

// Logout clears the session cookie
func Logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	flashRedirect(c, NoticeInfo, "Session closed", "/login")
}
