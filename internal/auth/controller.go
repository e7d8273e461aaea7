package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 12 * time.Hour

type AuthController struct {
	AuthService AuthServicePort
	LS          LogServicePort
	Secret      string

	// SecureCookies marks the session cookie Secure even when the request
	// itself arrived over plain HTTP (TLS terminated upstream without
	// X-Forwarded-Proto).
	SecureCookies bool
}

func (ac *AuthController) secureCookie(c *gin.Context) bool {
	return ac.SecureCookies ||
		c.Request.TLS != nil ||
		strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := ac.AuthService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := middlewares.IssueAdminToken(ac.Secret, admin.ID, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   ac.secureCookie(c),
		SameSite: http.SameSiteLaxMode,
	})

	uid := uint(admin.ID)
	entry := logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "auth",
		Action:  "LOGIN",
		Message: fmt.Sprintf("Admin logged in: %s", admin.Username),
		AdminID: &uid,
	}
	if err := ac.LS.Log(entry, gin.H{"username": admin.Username}); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    toResponse(admin),
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   ac.secureCookie(c),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	adminID, ok := middlewares.CurrentAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}

	admin, err := ac.AuthService.GetAdminByID(adminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toResponse(admin)})
}

func (ac *AuthController) GetAdmins(c *gin.Context) {
	admins, err := ac.AuthService.GetAllAdmins()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, toResponse(&admins[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetched all admins successfully",
		"admins":  out,
	})
}

func (ac *AuthController) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := ac.AuthService.CreateAdmin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"username": []string{ErrUsernameTaken.Error()}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entry := logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "auth",
		Action:  "CREATE_ADMIN",
		Message: fmt.Sprintf("Admin account created: %s", admin.Username),
		AdminID: actingAdmin(c),
	}
	if err := ac.LS.Log(entry, gin.H{"id": admin.ID, "username": admin.Username}); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
		"data":    toResponse(admin),
	})
}

func (ac *AuthController) DeleteAdmin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	if current, ok := middlewares.CurrentAdminID(c); ok && current == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account."})
		return
	}

	admin, err := ac.AuthService.DeleteAdmin(id)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	entry := logs.SystemLog{
		Level:   logs.LevelWarn,
		Service: "auth",
		Action:  "DELETE_ADMIN",
		Message: fmt.Sprintf("Admin account deleted: %s", admin.Username),
		AdminID: actingAdmin(c),
	}
	if err := ac.LS.Log(entry, gin.H{"id": admin.ID, "username": admin.Username}); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.Status(http.StatusNoContent)
}

func actingAdmin(c *gin.Context) *uint {
	id, ok := middlewares.CurrentAdminID(c)
	if !ok {
		return nil
	}
	uid := uint(id)
	return &uid
}
