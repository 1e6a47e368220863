package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rpupo63/blog-platform/errs"
	"github.com/rs/zerolog"
)

// ErrorReporter forwards unexpected faults to an external tracker.
type ErrorReporter interface {
	Report(r *http.Request, err *errs.ApiErr)
}

type Responder struct {
	logger     zerolog.Logger
	production bool
	reporter   ErrorReporter
}

func NewResponder(logger zerolog.Logger, production bool, reporter ErrorReporter) Responder {
	return Responder{logger: logger, production: production, reporter: reporter}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Warn().Err(err).Msg("error writing response")
	}
}

// WriteError is the terminal error handler. Every fault raised by a
// middleware or controller ends here, and it is the only place that logs at
// error level.
func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	apiErr := errs.From(err)
	status := apiErr.Status()
	message := apiErr.Error()

	event := r.logger.Error().
		Int("status", status).
		Str("requestId", RequestIDFromContext(req.Context()))
	if apiErr.Cause != nil {
		event = event.Str("cause", apiErr.GetFullError())
	}
	event.Msgf("%d - %s - %s - %s", status, message, req.URL.RequestURI(), req.Method)

	if status >= http.StatusInternalServerError && r.reporter != nil {
		r.reporter.Report(req, apiErr)
	}

	if sw, ok := w.(interface{ headerWritten() bool }); ok && sw.headerWritten() {
		return
	}

	r.WriteJSON(w, status, ErrorResponse{
		Error: message,
		Stack: r.stackOf(apiErr),
	})
}

func (r Responder) stackOf(apiErr *errs.ApiErr) *string {
	if r.production {
		return nil
	}
	stack := apiErr.GetFullError()
	if len(apiErr.Stack) > 0 {
		stack = fmt.Sprintf("%s\n%s", stack, apiErr.Stack)
	}
	return &stack
}
