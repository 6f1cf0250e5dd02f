package config

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"xorkevin.dev/kerrors"
)

// ErrTokenExpired is returned when a connection auth token has expired
var ErrTokenExpired errTokenExpired

type errTokenExpired struct{}

func (e errTokenExpired) Error() string {
	return "Auth token expired"
}

// CheckToken inspects the connection's auth token before connecting and
// fails fast when the token has already expired. The signature is not
// verified; the server remains the authority. Connections without a token,
// or with an opaque non-JWT token, pass.
func (c *Connection) CheckToken(now time.Time) error {
	if c.Token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.Token, claims); err != nil {
		// opaque token, let the server decide
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if now.After(exp.Time) {
		return kerrors.WithKind(nil, ErrTokenExpired, "Token for "+c.Name+" expired at "+exp.Format(time.RFC3339))
	}
	return nil
}
