package security

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// idTokenVerifier is the part of *auth.Client we use.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens.
type FirebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier builds the auth client. An empty credentialsFile
// falls back to application default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	token = StripBearer(token)
	if token == "" {
		return nil, domain.NewAuthError("Token is missing", nil)
	}

	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, domain.NewAuthError("Invalid token", err)
	}
	uid := strings.TrimSpace(t.UID)
	if uid == "" {
		return nil, domain.NewAuthError("Invalid token claims", nil)
	}

	email, _ := t.Claims["email"].(string)
	return &domain.Identity{SubjectID: uid, Email: email}, nil
}
