package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("profile", "42"), http.StatusNotFound},
		{"invalid input", NewBadRequest("User already exists", "dup"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("bad token", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("nope"), http.StatusForbidden},
		{"conflict", NewConflict("profile", "user", "42"), http.StatusConflict},
		{"internal", NewInternal("db down", errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("get profile failed: %w", NewNotFound("profile", "42")), http.StatusNotFound},
		{"plain error", errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestAppError_ToJSON(t *testing.T) {
	internal := NewInternal("failed to query profile", errors.New("connection reset"))
	assert.Equal(t, gin.H{"msg": "Server Error"}, internal.ToJSON())

	bad := NewBadRequest("Invalid credentials", "wrong password")
	assert.Equal(t, gin.H{"errors": []gin.H{{"msg": "Invalid credentials"}}}, bad.ToJSON())
}

func TestAppError_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal("failed to query profile", cause)

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, cause, err.Cause())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewValidation_ListsEveryMessage(t *testing.T) {
	err := NewValidation([]string{"Status is required", "Skills is required"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(err))
	assert.Equal(t, gin.H{"errors": []gin.H{
		{"msg": "Status is required"},
		{"msg": "Skills is required"},
	}}, err.ToJSON())
}
