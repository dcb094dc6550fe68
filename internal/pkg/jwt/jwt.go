package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is written into the iss claim of every session token
const Issuer = "arogya"

var (
	ErrMissingSecret  = errors.New("jwt secret is not configured")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrUnknownSigner  = errors.New("token was not signed by this service")
)

// Claims represents the session token claims
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens with a single HMAC secret
type Manager struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces the time source used for issuing and verifying tokens
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a token manager. An empty secret is rejected so that the
// process fails at startup instead of on the first request.
func NewManager(secret string, ttl, leeway time.Duration, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	m := &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		leeway: leeway,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue generates a new session token for the user
func (m *Manager) Issue(userID string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates signature, expiry and not-before (within the leeway) and
// returns the claims
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnknownSigner
		}
		return m.secret, nil
	},
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable),
			errors.Is(err, ErrUnknownSigner):
			return nil, ErrUnknownSigner
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// DecodeExpiry reads the exp claim without checking the signature
func DecodeExpiry(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, ErrTokenMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrTokenMalformed
	}
	return exp.Time, nil
}
