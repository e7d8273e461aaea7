package middlewares

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenCookie = "access_token"
	AdminIDKey        = "adminID"
)

var ErrInvalidAdminID = errors.New("invalid admin ID")

// IssueAdminToken signs an HS256 token carrying the admin id.
func IssueAdminToken(secret string, adminID int, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": adminID,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseAdminToken validates the signature and expiry and returns the admin id.
func ParseAdminToken(secret, accessToken string) (int, error) {
	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidAdminID
	}

	switch v := claims["admin_id"].(type) {
	case float64:
		return int(v), nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil {
			return 0, ErrInvalidAdminID
		}
		return id, nil
	default:
		return 0, ErrInvalidAdminID
	}
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, err := c.Cookie(AccessTokenCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		adminID, err := ParseAdminToken(secret, accessToken)
		if err != nil {
			if errors.Is(err, ErrInvalidAdminID) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid admin ID."})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token."})
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Next()
	}
}

// CurrentAdminID reads the id stored by AuthMiddleware.
func CurrentAdminID(c *gin.Context) (int, bool) {
	v, exists := c.Get(AdminIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
