// internal/app/system/auth/auth.go
//
// Package auth issues and verifies the JSON Web Tokens the API is guarded
// with, and loads the signed-in user into the request context. A token is
// read from the Authorization header (Bearer) or from the "token" cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/lcmsadmin/internal/app/system/httpjson"
	"github.com/dalemusser/lcmsadmin/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// CookieName is the cookie the token is stored in after login.
const CookieName = "token"

// DefaultExpiry is how long an issued token stays valid.
const DefaultExpiry = 7 * 24 * time.Hour

// ErrInvalidToken is returned by Parse for a token that is malformed,
// expired, or signed with another key or method.
var ErrInvalidToken = errors.New("token inválido")

// Claims is the token payload.
type Claims struct {
	ID       int64    `json:"id"`
	UserName string   `json:"userName"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserLoader resolves a token subject to an active user.
type UserLoader interface {
	GetActiveByID(ctx context.Context, id int64) (models.User, error)
}

// Manager signs tokens and guards routes.
type Manager struct {
	secret []byte
	expiry time.Duration
	domain string
	secure bool
	log    *zap.Logger
}

// NewManager validates the secret and returns a Manager. A zero expiry
// selects DefaultExpiry. The secure flag marks the cookie Secure with
// SameSite=None; otherwise Lax is used so it works over http://localhost.
func NewManager(secret string, expiry time.Duration, cookieDomain string, secure bool, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥32 random chars")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(secret) < 32 {
		logger.Warn("jwt secret is short; 32+ chars recommended", zap.Int("length", len(secret)))
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Manager{
		secret: []byte(secret),
		expiry: expiry,
		domain: cookieDomain,
		secure: secure,
		log:    logger,
	}, nil
}

// Expiry returns the lifetime of issued tokens.
func (m *Manager) Expiry() time.Duration { return m.expiry }

// Issue signs an HS256 token for u.
func (m *Manager) Issue(u models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:       u.ID,
		UserName: u.UserName,
		Roles:    u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies raw and returns its claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Request context                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and a found flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok && u != nil
}

// WithTestUser puts u into the request context the way LoadUser does.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// TokenFromRequest returns the bearer token, falling back to the cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// LoadUser verifies the request token, if any, and injects the matching
// active user. Requests without a valid token pass through anonymous.
func (m *Manager) LoadUser(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := TokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := m.Parse(raw)
			if err != nil {
				m.log.Debug("token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.GetActiveByID(r.Context(), claims.ID)
			if err != nil {
				m.log.Debug("token user not loaded", zap.Int64("id", claims.ID), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, withUser(r, &u))
		})
	}
}

// UnauthorizedMessage is the body error of every 401.
const UnauthorizedMessage = "Não autorizado"

// RequireSignedIn answers 401 when LoadUser found no user.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Fail(w, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Cookie                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.secure {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

// SetCookie stores token in the HttpOnly token cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(token, int(m.expiry.Seconds())))
}

// ClearCookie expires the token cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}
