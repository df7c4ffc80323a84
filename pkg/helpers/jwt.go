package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentlink/talentlink-api/internal/domain/entity"
)

// JWTManager issues and validates the signed session tokens handed out
// on login. Tokens are HS256-signed with the UTF-8 bytes of the
// configured secret and carry name, role and subject-id claims.
type JWTManager struct {
	Secret   []byte
	Issuer   string
	Audience string
	Lifetime time.Duration
}

var defaultManager *JWTManager

// NewJWTManager builds a manager from the raw configuration values.
// expiresMinutes is a floating-point number of minutes; validating it
// (and the secret) is the config loader's job before we get here.
func NewJWTManager(secret, issuer, audience string, expiresMinutes float64) *JWTManager {
	m := &JWTManager{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: audience,
		Lifetime: time.Duration(expiresMinutes * float64(time.Minute)),
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate signs a token for an authenticated user. Subject is the user
// id, expiry is issue time (UTC) plus the configured lifetime.
func (m *JWTManager) Generate(u *entity.User) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(m.Lifetime)
	claims := &Claims{
		Name: u.Name,
		Role: u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
