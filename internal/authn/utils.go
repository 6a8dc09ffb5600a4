package authn

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidJWT = errors.New("invalid jwt token")
var ErrInvalidClaims = errors.New("invalid claims")

type Claims struct {
	jwt.StandardClaims
	Username    string `json:"preferred_username"`
	RealmAccess struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// ParseClaims decodes the token claims. The signature is not verified; the
// gateway in front of the service has already done so.
func ParseClaims(token string) (Claims, error) {
	claims := Claims{}
	if t, err := jwt.ParseWithClaims(token, &claims, nil); err != nil {
		// A missing key func always yields a validation error
		var vErr *jwt.ValidationError
		if !errors.As(err, &vErr) {
			return claims, ErrInvalidJWT
		}

		if t == nil {
			return claims, ErrInvalidClaims
		}
	}
	return claims, nil
}

// HasRole checks if the claims carry a specific realm role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.RealmAccess.Roles {
		if r == role {
			return true
		}
	}
	return false
}
