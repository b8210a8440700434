package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Keys shared by the cookie session and the gin context
const (
	UserIDKey   = "user_id"
	UserNameKey = "user_name"
)

var ErrNoIdentity = errors.New("no authenticated user")

// Claims carried by the bearer token. Subject is the user id.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for userID valid for ttl
func GenerateToken(secret, userID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates the signature and expiry of a token
func ParseToken(secret, tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("bad claims")
	}
	return claims, nil
}

// AuthRequired accepts a bearer token first and the login cookie session
// otherwise. The caller's id and name end up in the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			tokenStr, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
				return
			}
			claims, err := ParseToken(secret, strings.TrimSpace(tokenStr))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			c.Set(UserIDKey, claims.Subject)
			c.Set(UserNameKey, claims.Name)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID, _ := session.Get(UserIDKey).(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		name, _ := session.Get(UserNameKey).(string)
		c.Set(UserIDKey, userID)
		c.Set(UserNameKey, name)
		c.Next()
	}
}

// CurrentUser returns the id and name AuthRequired stored in the context
func CurrentUser(c *gin.Context) (string, string, error) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return "", "", ErrNoIdentity
	}
	return userID, c.GetString(UserNameKey), nil
}
