package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/o-mars/daily-journai/internal/identity"
)

var ErrMissingSubject = errors.New("token has no subject claim")

// JWTProvider verifies HMAC-signed bearer tokens issued by the auth frontend
// and extracts the user identity from the claims.
type JWTProvider struct {
	secret []byte
	issuer string
}

func NewJWTProvider(secret, issuer string) identity.Provider {
	return &JWTProvider{secret: []byte(secret), issuer: issuer}
}

func (p *JWTProvider) ResolveUser(_ context.Context, token string) (identity.User, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return identity.User{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return identity.User{}, errors.New("unexpected claims type")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return identity.User{}, ErrMissingSubject
	}

	email, _ := claims["email"].(string)
	return identity.User{ID: sub, Email: email}, nil
}
