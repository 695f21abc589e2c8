package middleware

import (
	"net/http"
	"strings"
	"time"

	"armenu-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const managerIDKey = "managerID"

type Claims struct {
	ManagerID string `json:"manager_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Auth signs and checks manager session tokens
type Auth struct {
	secret []byte
	ttl    time.Duration
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a signed JWT for a given manager
func (a *Auth) GenerateToken(m *models.Manager) (string, error) {
	now := time.Now()
	claims := Claims{
		ManagerID: m.ID,
		Email:     m.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   m.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// AuthRequired validates the JWT and injects the manager into context
func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)", "kind": "authentication"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return a.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.ManagerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "kind": "authentication"})
			return
		}
		c.Set(managerIDKey, claims.ManagerID)
		c.Next()
	}
}

// GetManagerID extracts the caller's manager ID from context
func GetManagerID(c *gin.Context) string {
	return c.GetString(managerIDKey)
}
