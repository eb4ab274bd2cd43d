package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// ErrInvalidToken covers malformed, forged and expired tokens alike.
var ErrInvalidToken = errors.New("token is not valid")

// TokenIssuer signs identities into bearer tokens.
type TokenIssuer interface {
	Issue(id Identity) (string, error)
}

// TokenVerifier turns a bearer token back into the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

type tokenClaims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 tokens with a fixed lifetime.
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewCodec returns a codec. A nil clock means wall-clock time.
func NewCodec(secret []byte, ttl time.Duration, clock clockwork.Clock) *Codec {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Codec{secret: secret, ttl: ttl, clock: clock}
}

func (c *Codec) Issue(id Identity) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("token signing secret is empty")
	}
	if id.ID == "" || !id.Role.Valid() {
		return "", fmt.Errorf("refusing to sign identity %q with role %q", id.ID, id.Role)
	}
	now := c.clock.Now()
	claims := tokenClaims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (c *Codec) Verify(token string) (Identity, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.User.ID == "" || !claims.User.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return claims.User, nil
}
