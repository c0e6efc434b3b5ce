package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates bearer tokens and exposes the role claims the
// identity provider put under realm_access.roles (Keycloak-style). Token
// issuance happens elsewhere; this service only consumes claims.
type TokenVerifier struct {
	Secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{Secret: []byte(secret)}
}

type RealmAccess struct {
	Roles []string `json:"roles"`
}

type Claims struct {
	RealmAccess RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

// Parse validates the token signature and expiry and returns its claims.
func (v *TokenVerifier) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Sign issues a token carrying the given roles. Test helper; production
// tokens come from the external identity provider.
func (v *TokenVerifier) Sign(roles []string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RealmAccess: RealmAccess{Roles: roles},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(v.Secret)
}
