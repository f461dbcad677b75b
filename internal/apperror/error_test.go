package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("name is required"), http.StatusBadRequest},
		{"not found", NewNotFound("medicine", "m9"), http.StatusNotFound},
		{"insufficient stock", NewInsufficientStock("m2", "Amoxicillin 250mg", 30, 20), http.StatusConflict},
		{"external", NewExternalUnavailable("assistant", errors.New("dial tcp")), http.StatusServiceUnavailable},
		{"wrapped", fmt.Errorf("checkout: %w", NewValidation("cart is empty")), http.StatusBadRequest},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.err))
		})
	}
}

func TestIsCodeAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(cause)

	assert.True(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.ErrorIs(t, err, cause)
}

func TestInsufficientStockDetails(t *testing.T) {
	err := NewInsufficientStock("m4", "Cetirizine 10mg", 12, 10)

	assert.Equal(t, "m4", err.Details["medicineId"])
	assert.Equal(t, 12, err.Details["requested"])
	assert.Equal(t, 10, err.Details["available"])
	assert.Contains(t, err.Error(), CodeInsufficientStock)
}
