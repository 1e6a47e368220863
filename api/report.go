package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/rpupo63/blog-platform/errs"
)

// SentryReporter ships unexpected faults to Sentry.
type SentryReporter struct {
	service string
}

// NewSentryReporter initializes the Sentry client for the given DSN.
func NewSentryReporter(dsn, environment, service string) (*SentryReporter, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:          dsn,
		Environment:  environment,
		ServerName:   service,
		IgnoreErrors: []string{"write: broken pipe"},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to init Sentry: %w", err)
	}
	return &SentryReporter{service: service}, nil
}

func (s *SentryReporter) Report(r *http.Request, apiErr *errs.ApiErr) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(r)
		scope.SetTag("service", s.service)
		if id := RequestIDFromContext(r.Context()); id != "" {
			scope.SetTag("request_id", id)
		}
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			scope.SetUser(sentry.User{ID: principal.SubjectID})
		}
		if apiErr.Cause != nil {
			scope.SetExtra("cause", apiErr.GetFullError())
		}
		scope.SetLevel(sentry.LevelError)
		sentry.CaptureException(apiErr)
	})
}

// Flush waits for buffered events to be sent.
func (s *SentryReporter) Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}
