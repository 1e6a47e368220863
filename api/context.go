package api

import (
	"context"

	"github.com/rpupo63/blog-platform/identity"
)

type keyType string

const (
	principalKey   keyType = "principal"
	authFailureKey keyType = "authFailure"
	requestIDKey   keyType = "requestID"
	rawBodyKey     keyType = "rawBody"
)

// ctxWithPrincipal attaches the verified caller to the context
func ctxWithPrincipal(ctx context.Context, principal identity.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext returns the caller attached by the identity middleware, if any.
func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(identity.Principal)
	return principal, ok && principal.SubjectID != ""
}

// ctxWithAuthFailure records why a presented credential was rejected
func ctxWithAuthFailure(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authFailureKey, err)
}

func ctxGetAuthFailure(ctx context.Context) error {
	err, _ := ctx.Value(authFailureKey).(error)
	return err
}

func ctxWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the X-Request-ID of the current request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func ctxWithRawBody(ctx context.Context, body []byte) context.Context {
	return context.WithValue(ctx, rawBodyKey, body)
}

func ctxGetRawBody(ctx context.Context) []byte {
	body, _ := ctx.Value(rawBodyKey).([]byte)
	return body
}

// dataContext keeps request values but drops cancellation, so a client
// disconnect does not abort in-flight data access.
func dataContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
