// Package middleware provides authentication, rate limiting, logging and
// telemetry middleware for the HTTP API.
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"zestyy/internal/config"
	"zestyy/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer   = "zestyy-api"
	TokenAudience = "zestyy-client"
	TokenTTL      = 7 * 24 * time.Hour
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// Claims is the JWT payload issued at login.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func secret() ([]byte, error) {
	if cfg == nil || cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret not configured")
	}
	return []byte(cfg.JWTSecret), nil
}

// GenerateToken signs a session token for the user.
func GenerateToken(userID, username string) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken validates signature, issuer, audience and expiry.
func ParseToken(tokenString string) (*Claims, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func authenticate(c *fiber.Ctx, tokenString string) error {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}
	setUser(c, claims.Subject)
	return c.Next()
}

func setUser(c *fiber.Ctx, userID string) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization header required"))
	}
	token, ok := bearerToken(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid authorization header format"))
	}
	return authenticate(c, token)
}

// WebSocketAuthRequired accepts the token from the `token` query parameter,
// since browsers cannot set headers on a WebSocket upgrade, or from the header.
func WebSocketAuthRequired(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		var ok bool
		if token, ok = bearerToken(c); !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token required"))
		}
	}
	return authenticate(c, token)
}

// OptionalAuth sets the user when a valid bearer token is present and never rejects.
func OptionalAuth(c *fiber.Ctx) error {
	if token, ok := bearerToken(c); ok {
		if claims, err := ParseToken(token); err == nil {
			setUser(c, claims.Subject)
		}
	}
	return c.Next()
}

// CurrentUserID returns the authenticated user's ID, or "".
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
