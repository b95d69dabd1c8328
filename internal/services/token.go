package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ericman314/pinewood-server/internal/domain"
)

// TokenCodec issues and verifies bearer tokens.
type TokenCodec interface {
	Sign(claims domain.Claims) (string, error)
	Decode(tokenString string) (*domain.Claims, error)
}

type tokenClaims struct {
	domain.Claims
	jwt.RegisteredClaims
}

type jwtCodec struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewJWTCodec signs HS256 tokens. A zero ttl issues tokens without expiry.
func NewJWTCodec(secret []byte, ttl time.Duration, clk clock.Clock) (TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret required")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &jwtCodec{secret: secret, ttl: ttl, clock: clk}, nil
}

func (c *jwtCodec) Sign(claims domain.Claims) (string, error) {
	now := c.clock.Now()
	tc := tokenClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(claims.UserID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		tc.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(c.secret)
}

func (c *jwtCodec) Decode(tokenString string) (*domain.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return &tc.Claims, nil
}
