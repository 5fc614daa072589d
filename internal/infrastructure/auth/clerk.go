package auth

import (
	"crypto/rsa"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/realty/backend/internal/infrastructure/config"
)

// ClerkVerifier validates RS256 session tokens issued by a Clerk
// instance. It only verifies signatures against the configured public
// key; user provisioning stays with the identity service.
type ClerkVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// ClerkClaims are the claims extracted from a Clerk session token
type ClerkClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

var ErrClerkDisabled = errors.New("clerk verification is not configured")

// NewClerkVerifier builds a verifier from the configured PEM public key.
// Returns (nil, nil) when no key is configured.
func NewClerkVerifier(cfg config.ClerkConfig) (*ClerkVerifier, error) {
	if cfg.PublicKeyPEM == "" {
		return nil, nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
	if err != nil {
		return nil, err
	}
	return &ClerkVerifier{publicKey: key, issuer: cfg.Issuer}, nil
}

// Verify validates a Clerk session token and returns its claims
func (v *ClerkVerifier) Verify(tokenString string) (*ClerkClaims, error) {
	if v == nil {
		return nil, ErrClerkDisabled
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &ClerkClaims{}, func(token *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ClerkClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}
