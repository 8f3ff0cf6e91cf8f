package middlewares

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "

	localUserID = "userID"
	localClaims = "claims"
)

// Claims is our custom JWT payload (subject=userID, plus role and permissions).
type Claims struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	now        func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration, cookieName string) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
	}
	if cookieName == "" {
		cookieName = "token"
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, cookieName: cookieName, now: time.Now}, nil
}

func (ti *TokenIssuer) TTL() time.Duration { return ti.ttl }

func (ti *TokenIssuer) CookieName() string { return ti.cookieName }

// Issue signs a new token for the given user.
func (ti *TokenIssuer) Issue(userID, email, role string, permissions []string) (string, error) {
	now := ti.now()
	claims := &Claims{
		Email:       email,
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Parse verifies raw and returns its claims.
func (ti *TokenIssuer) Parse(raw string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token missing subject")
	}
	return &claims, nil
}

// RequireAuth accepts the session cookie or a Bearer header and populates
// c.Locals("userID", "claims").
func (ti *TokenIssuer) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Cookies(ti.cookieName))
		if raw == "" {
			h := c.Get(authHeader)
			if len(h) > len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
				raw = strings.TrimSpace(h[len(bearerPrefix):])
			}
		}
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}

		claims, err := ti.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}

		c.Locals(localUserID, claims.Subject)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// CurrentClaims returns the verified token claims, or nil outside RequireAuth.
func CurrentClaims(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(localClaims).(*Claims)
	return claims
}
