// Package session verifies the signed auth cookie and guards protected routes
package session

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
)

const (
	CookieName = "auth-token"
	DefaultTTL = 7 * 24 * time.Hour

	localsKey = "session"
)

// Claims is the payload of a session token
type Claims struct {
	Uid   string  `json:"uid"`
	Email *string `json:"email"`
	Name  *string `json:"name"`
	jwt.StandardClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Sign issues a token for the claims, setting the issue and expiry times
func (m *Manager) Sign(claims Claims) (string, error) {
	now := m.now()
	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = now.Add(m.ttl).Unix()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a token and returns its claims when the signature and expiry
// are valid
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Uid == "" {
		return nil, errors.New("token has no uid")
	}
	return claims, nil
}

// Middleware attaches the session of a valid auth cookie to the request. It
// never rejects a request.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(CookieName)
		if token == "" {
			return c.Next()
		}

		claims, err := m.Verify(token)
		if err != nil {
			log.WithFields(log.Fields{
				"path":  c.Path(),
				"error": err,
			}).Debug("Ignoring invalid session token")
			return c.Next()
		}

		c.Locals(localsKey, claims)
		return c.Next()
	}
}

// FromContext returns the session attached by Middleware, or nil
func FromContext(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(localsKey).(*Claims)
	return claims
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Guard rejects requests to protected paths that carry no session. API paths
// get a 401, pages are redirected to the login page.
func Guard(protected, public []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !hasPrefix(path, protected) || hasPrefix(path, public) || FromContext(c) != nil {
			return c.Next()
		}

		if strings.HasPrefix(path, "/api/") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Redirect("/login?redirect=" + url.QueryEscape(path))
	}
}
