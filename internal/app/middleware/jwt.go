package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	// ContextUserIDKey is the gin context key holding the caller's user ID.
	ContextUserIDKey = "user_id"
	// ContextAuthenticatedKey is true when the request carried a valid token.
	ContextAuthenticatedKey = "authenticated"

	anonymousUserID = "anonymous"
)

// JWTConfig holds token signing and validation settings.
type JWTConfig struct {
	SecretKey       string
	TokenExpiration time.Duration
	Logger          *zap.Logger
	// Optional lets unauthenticated requests through as anonymous
	// instead of rejecting them. Chat streaming uses this: anyone can
	// talk to the assistant, only saving requires an account.
	Optional bool
}

// Claims are the JWT claims issued by the auth service.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the given user.
func GenerateToken(config JWTConfig, userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.TokenExpiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a signed token string.
func ValidateToken(config JWTConfig, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// JWTAuthMiddleware extracts and validates the bearer token, putting
// the user ID on the gin context for downstream handlers.
func JWTAuthMiddleware(config JWTConfig) gin.HandlerFunc {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if config.Optional {
				setAnonymous(c)
				c.Next()
				return
			}
			logger.Warn("missing authorization header", zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c, "authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			if config.Optional {
				setAnonymous(c)
				c.Next()
				return
			}
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := ValidateToken(config, parts[1])
		if err != nil {
			if config.Optional {
				logger.Debug("invalid token, continuing as anonymous",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
				setAnonymous(c)
				c.Next()
				return
			}
			logger.Warn("invalid token",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextAuthenticatedKey, true)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's ID, or false for
// anonymous or missing identity.
func UserIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(ContextUserIDKey)
	if id == "" || id == anonymousUserID {
		return "", false
	}
	return id, true
}

func setAnonymous(c *gin.Context) {
	c.Set(ContextUserIDKey, anonymousUserID)
	c.Set(ContextAuthenticatedKey, false)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}
