package identity

import (
	"context"
	"fmt"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
)

type sessionValidator interface {
	ValidateSessionWithToken(ctx context.Context, sessionToken string) (bool, *descope.Token, error)
}

// DescopeVerifier validates session tokens with the Descope SDK.
type DescopeVerifier struct {
	auth sessionValidator
}

func NewDescopeVerifier(projectID, managementKey string) (*DescopeVerifier, error) {
	descopeClient, err := client.NewWithConfig(&client.Config{
		ProjectID:     projectID,
		ManagementKey: managementKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create descope client: %w", err)
	}

	return &DescopeVerifier{auth: descopeClient.Auth}, nil
}

func (v *DescopeVerifier) Verify(ctx context.Context, token string) (Principal, error) {
	authorized, sessionToken, err := v.auth.ValidateSessionWithToken(ctx, token)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !authorized || sessionToken == nil {
		return Principal{}, ErrInvalidCredential
	}

	return newPrincipal(sessionToken.ID, sessionToken.Claims)
}
