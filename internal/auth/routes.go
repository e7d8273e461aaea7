package auth

import (
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts login/logout on r and the account endpoints behind
// the session middleware.
func RegisterRoutes(r gin.IRouter, authService *AuthService, logService *logs.LogService, secret string, secureCookies bool) {
	authController := &AuthController{AuthService: authService, LS: logService, Secret: secret, SecureCookies: secureCookies}

	r.POST("/login", authController.Login)
	r.POST("/logout", authController.Logout)

	protected := r.Group("")
	protected.Use(middlewares.AuthMiddleware(secret))
	{
		protected.GET("/me", authController.Me)
		protected.GET("/admins", authController.GetAdmins)
		protected.POST("/admins", authController.CreateAdmin)
		protected.DELETE("/admins/:id", authController.DeleteAdmin)
	}
}
