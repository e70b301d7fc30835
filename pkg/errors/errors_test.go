package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAs_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NotFound("Stage not found"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Stage not found", appErr.Error())

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)

	appErr, ok = As(Forbidden("Access denied"))
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.Code)
}

func TestValidation(t *testing.T) {
	err := FieldError("stage_id", "is required")
	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Equal(t, map[string]string{"stage_id": "is required"}, err.Fields)
}
