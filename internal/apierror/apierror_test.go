package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestKindStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.Status())
	assert.Equal(t, http.StatusBadRequest, KindConflict.Status())
	assert.Equal(t, http.StatusUnauthorized, KindUnauthenticated.Status())
	assert.Equal(t, http.StatusForbidden, KindForbidden.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusTooManyRequests, KindTooManyRequests.Status())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestWriteUnclassifiedErrorHidesCause(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := httptest.NewRecorder()

	Write(rec, zap.New(core).Sugar(), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"msg": "Server Error"}, decode(t, rec))
	assert.NotContains(t, rec.Body.String(), "connection refused")
	require.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestWriteValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, nil, Validation(FieldError{Msg: "Name is required", Path: "name", Location: "body"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "Name is required", errs[0].(map[string]any)["msg"])
	assert.Equal(t, "name", errs[0].(map[string]any)["path"])
}

func TestWriteWrappedDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("get patient: %w", NotFound("Patient not found"))
	Write(rec, nil, err)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"msg": "Patient not found"}, decode(t, rec))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("token expired")
	err := Unauthenticated("authorization denied", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unauthenticated")
}
