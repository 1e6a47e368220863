// Package identity verifies bearer credentials issued by the identity provider
// and turns them into a Principal.
package identity

import (
	"context"
	"errors"
	"maps"
)

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrMissingSubject    = errors.New("credential has no subject")
)

// Principal is the authenticated caller. SubjectID is the identity provider's
// subject and the key of the User record.
type Principal struct {
	SubjectID string
	Claims    map[string]any
}

// Claim looks up a single claim.
func (p Principal) Claim(name string) (any, bool) {
	v, ok := p.Claims[name]
	return v, ok
}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

func newPrincipal(subject string, claims map[string]any) (Principal, error) {
	if subject == "" {
		return Principal{}, ErrMissingSubject
	}
	return Principal{SubjectID: subject, Claims: maps.Clone(claims)}, nil
}
