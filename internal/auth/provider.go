package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wirasatya/business-management/internal"
)

// ProviderIdentity is the already-authenticated result handed back by the
// external auth provider. Password verification, OAuth and token signing all
// happen on the provider's side; this core only consumes the outcome.
type ProviderIdentity struct {
	ID            string
	Email         string
	Name          string
	EmailVerified bool
}

// IdentityProvider looks up the authenticated caller for a request context.
type IdentityProvider interface {
	Authenticate(ctx context.Context) (*ProviderIdentity, error)
}

// ProviderClaims are the claims the external provider signs into its tokens.
type ProviderClaims struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// JWTProvider validates provider-issued HS256 tokens taken from the request
// context by the session middleware.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Authenticate(ctx context.Context) (*ProviderIdentity, error) {
	tokenString := internal.SessionTokenFromContext(ctx)
	if tokenString == "" {
		return nil, internal.ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(tokenString, &ProviderClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, internal.ErrUnauthenticated.WithCause(err)
	}

	claims, ok := token.Claims.(*ProviderClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, internal.ErrUnauthenticated
	}

	return &ProviderIdentity{
		ID:            claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
	}, nil
}
