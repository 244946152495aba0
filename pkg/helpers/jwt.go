package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails to verify: bad
// signature, malformed payload, or past expiry. Callers never learn which.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager mints and verifies the stateless session tokens carried in the
// session cookie. There is no server-side session table; the signed claims
// are the whole session.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl}
}

type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Mint produces a signed token binding userID with expiry now + TTL.
func (m *JWTManager) Mint(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify checks signature and expiry and returns the embedded user id.
// It fails closed: every decode, signature, or expiry problem comes back as
// ErrInvalidToken with no partial identity.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// TTL returns the configured session validity window.
func (m *JWTManager) TTL() time.Duration { return m.ttl }
