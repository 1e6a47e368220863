package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform/errs"
)

const (
	requestIDHeader = "X-Request-ID"
	maxLoggedBody   = 2 << 10
)

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusResponseWriter) headerWritten() bool {
	return w.wroteHeader
}

func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// recoverPanics turns a panic anywhere downstream into a 500 fault for the
// terminal error handler.
func (rt *router) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := newStatusResponseWriter(w)

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				rt.responder.WriteError(srw, r, errs.NewPanicError(rec, debug.Stack()))
			}
		}()

		next.ServeHTTP(srw, r)
	})
}

// requestID keeps the caller's X-Request-ID or generates one, and echoes it back.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxWithRequestID(r.Context(), id)))
	})
}

// parseJSONBody reads the request body once, enforcing the size limit and
// rejecting anything that is not well formed JSON. The raw body is kept in
// the context for the controllers and the request logger.
func (rt *router) parseJSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rt.config.MaxBodyBytes))
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				rt.responder.WriteError(w, r, errs.NewMaxBodySizeExceededError(maxErr.Limit))
				return
			}
			rt.responder.WriteError(w, r, errs.NewBadRequestError("unable to read request body"))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if len(bytes.TrimSpace(body)) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if contentType := r.Header.Get("Content-Type"); !isJSONContentType(contentType) {
			rt.responder.WriteError(w, r, errs.NewUnsupportedMediaTypeError(contentType))
			return
		}

		var probe any
		if err := json.Unmarshal(body, &probe); err != nil {
			rt.responder.WriteError(w, r, errs.NewInvalidJSONError(err))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithRawBody(r.Context(), body)))
	})
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isOriginAllowed(allowedOrigins []string, origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || strings.EqualFold(allowedOrigin, origin) {
			return true
		}
	}
	return false
}

// CORSCheckMiddleware rejects requests from origins outside the accepted list
func CORSCheckMiddleware(responder Responder, allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" || isOriginAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			responder.WriteError(w, r, errs.NewCORSError(origin))
		})
	}
}

// corsMiddleware sets the CORS response headers and answers preflight requests
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})
}

func bearerToken(authHeader string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// attachIdentity verifies a presented bearer credential and attaches the
// principal to the context. It never rejects: routes that need a principal
// are guarded by requirePrincipal.
func (rt *router) attachIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		token, ok := bearerToken(authHeader)
		if !ok {
			ctx = ctxWithAuthFailure(ctx, errs.NewInvalidTokenError(errors.New("authorization header is not a bearer token")))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		principal, err := rt.verifier.Verify(ctx, token)
		if err != nil {
			rt.logger.Debug().Err(err).Str("requestId", RequestIDFromContext(ctx)).Msg("ignoring invalid credential")
			ctx = ctxWithAuthFailure(ctx, errs.NewInvalidTokenError(err))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, r.WithContext(ctxWithPrincipal(ctx, principal)))
	})
}

// requirePrincipal guards RequiresPrincipal routes. The controller never runs
// without a verified principal.
func (rt *router) requirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		if failure := ctxGetAuthFailure(r.Context()); errs.IsInvalidTokenError(failure) {
			rt.responder.WriteError(w, r, failure)
			return
		}
		rt.responder.WriteError(w, r, errs.NewMissingTokenError())
	})
}

// logRequests writes one line per request with method, path, body and outcome.
// A panicking handler is logged as a 500 before the panic reaches recoverPanics.
func (rt *router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := newStatusResponseWriter(w)
		completed := false

		defer func() {
			status := srw.status
			if !completed {
				status = http.StatusInternalServerError
			}
			rt.logRequest(r, status, time.Since(start), !completed)
		}()

		next.ServeHTTP(srw, r)
		completed = true
	})
}

func (rt *router) logRequest(r *http.Request, status int, duration time.Duration, panicked bool) {
	var logEvent *zerolog.Event
	switch {
	case status >= 400:
		logEvent = rt.logger.Warn()
	default:
		logEvent = rt.logger.Info()
	}

	logEvent = logEvent.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Dur("duration", duration).
		Str("requestId", RequestIDFromContext(r.Context())).
		Str("remoteAddr", r.RemoteAddr)
	if panicked {
		logEvent = logEvent.Bool("panicked", true)
	}
	if body := ctxGetRawBody(r.Context()); len(body) > 0 {
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}
		logEvent = logEvent.Bytes("body", body)
	}
	if principal, ok := PrincipalFromContext(r.Context()); ok {
		logEvent = logEvent.Str("subjectId", principal.SubjectID)
	}
	logEvent.Msgf("%s %s", r.Method, r.URL.Path)
}
