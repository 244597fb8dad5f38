package errors

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func problemFor(t *testing.T, err error) map[string]any {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)
	testHandler().HandleError(rec, req, err)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	problem["_code"] = float64(rec.Code)
	return problem
}

func TestHandleErrorAPIError(t *testing.T) {
	problem := problemFor(t, ErrDataNotFound)

	assert.Equal(t, float64(http.StatusNotFound), problem["_code"])
	assert.Equal(t, TypeDataNotFound, problem["type"])
	assert.Equal(t, "DATA_NOT_FOUND", problem["error_code"])
	assert.Equal(t, "/api/data/summary", problem["instance"])
}

func TestHandleErrorValidation(t *testing.T) {
	problem := problemFor(t, ErrValidation("granularity", "unknown granularity"))

	assert.Equal(t, float64(http.StatusBadRequest), problem["_code"])
	assert.Equal(t, TypeValidation, problem["type"])
	assert.NotNil(t, problem["details"])
}

func TestHandleErrorInputMissing(t *testing.T) {
	problem := problemFor(t, &FileNotFoundError{Path: "data/Accidents.csv"})

	assert.Equal(t, float64(http.StatusNotFound), problem["_code"])
	assert.Equal(t, TypeInputMissing, problem["type"])
}

func TestHandleErrorSchemaMismatch(t *testing.T) {
	problem := problemFor(t, &SchemaError{File: "Bikers.csv", Column: "Age_Grp"})

	assert.Equal(t, float64(http.StatusUnprocessableEntity), problem["_code"])
	assert.Equal(t, TypeSchemaMismatch, problem["type"])
	assert.Equal(t, "Age_Grp", problem["column"])
}

func TestHandleErrorContextCancelled(t *testing.T) {
	problem := problemFor(t, context.Canceled)

	assert.Equal(t, float64(http.StatusGatewayTimeout), problem["_code"])
	assert.Equal(t, TypeTimeout, problem["type"])
}

func TestHandleErrorUnknownErrorStaysGeneric(t *testing.T) {
	problem := problemFor(t, assert.AnError)

	assert.Equal(t, float64(http.StatusInternalServerError), problem["_code"])
	assert.Equal(t, TypeInternal, problem["type"])
	assert.NotContains(t, problem["detail"], assert.AnError.Error())
}

func TestHandleErrorIncludesStackInDevelopment(t *testing.T) {
	handler := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), true)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/data/summary", nil)
	handler.HandleError(rec, req, ErrInternalServer)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.NotNil(t, problem["stack"])
}
