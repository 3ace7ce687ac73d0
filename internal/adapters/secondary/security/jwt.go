// Package security turns bearer credentials into a domain.Identity.
package security

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// Claims carried by the identity provider's access tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier checks RS256 tokens against the identity provider's public key.
// It never signs anything.
type JWTVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string // empty = any
}

func NewJWTVerifier(publicKeyPEM []byte, issuer string) (*JWTVerifier, error) {
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return &JWTVerifier{publicKey: pubKey, issuer: issuer}, nil
}

// NewJWTVerifierFromFile reads the PEM key at path.
func NewJWTVerifierFromFile(path, issuer string) (*JWTVerifier, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return NewJWTVerifier(pem, issuer)
}

func (v *JWTVerifier) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	token = StripBearer(token)
	if token == "" {
		return nil, domain.NewAuthError("Token is missing", nil)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewAuthError("Token expired", err)
		}
		return nil, domain.NewAuthError("Invalid token", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, domain.NewAuthError("Invalid token claims", nil)
	}
	return &domain.Identity{SubjectID: claims.Subject, Email: claims.Email}, nil
}

// StripBearer accepts both "Bearer <token>" and the bare token.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 6 && strings.EqualFold(raw[:6], "bearer") {
		if rest := raw[6:]; rest == "" || rest[0] == ' ' {
			return strings.TrimSpace(rest)
		}
	}
	return raw
}
