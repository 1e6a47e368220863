package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-platform/errs"
)

type recordingReporter struct {
	reported []*errs.ApiErr
}

func (r *recordingReporter) Report(_ *http.Request, err *errs.ApiErr) {
	r.reported = append(r.reported, err)
}

func TestWriteErrorDefaultsToInternal(t *testing.T) {
	var logs bytes.Buffer
	reporter := &recordingReporter{}
	responder := NewResponder(zerolog.New(&logs), true, reporter)
	req := httptest.NewRequest(http.MethodGet, "/api/blogs?x=1", nil)
	rec := httptest.NewRecorder()

	responder.WriteError(rec, req, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal server error","stack":null}`, rec.Body.String())
	require.Contains(t, logs.String(), "500 - internal server error - /api/blogs?x=1 - GET")
	require.Contains(t, logs.String(), "boom")
	require.Len(t, reporter.reported, 1)
}

func TestWriteErrorDoesNotReportClientErrors(t *testing.T) {
	reporter := &recordingReporter{}
	responder := NewResponder(zerolog.Nop(), false, reporter)
	rec := httptest.NewRecorder()

	responder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errs.NewNotFoundError("blog not found"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, reporter.reported)
}

func TestWriteErrorRespondsOnce(t *testing.T) {
	responder := NewResponder(zerolog.Nop(), false, nil)
	rec := httptest.NewRecorder()
	srw := newStatusResponseWriter(rec)
	srw.WriteHeader(http.StatusCreated)
	_, _ = srw.Write([]byte(`{"id":1}`))

	responder.WriteError(srw, httptest.NewRequest(http.MethodPost, "/api/blogs", nil), errs.NewInternalError("late failure"))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, `{"id":1}`, rec.Body.String())
}
