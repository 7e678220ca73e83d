package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskwell/taskwell-api/internal/api"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrNotCommentAuthor, http.StatusForbidden},
		{service.ErrTaskNotFound, http.StatusNotFound},
		{service.ErrLabelNotFound, http.StatusNotFound},
		{service.ErrCommentNotFound, http.StatusNotFound},
		{store.ErrUserNotFound, http.StatusNotFound},
		{store.ErrEmailExists, http.StatusConflict},
		{store.ErrUsernameExists, http.StatusConflict},
		{fmt.Errorf("%w: title too long", domain.ErrValidation), http.StatusBadRequest},
		{store.ErrInvalidEntity, http.StatusBadRequest},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, api.MapErrorToStatusCode(tc.err), "error: %v", tc.err)
	}

	// Service wrappers keep the sentinel classification.
	wrapped := service.NewTaskServiceError("get_task", "failed to get task", service.ErrTaskNotFound)
	assert.Equal(t, http.StatusNotFound, api.MapErrorToStatusCode(wrapped))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Task not found", api.GetSafeErrorMessage(service.ErrTaskNotFound))
	assert.Equal(t, "Invalid email or password", api.GetSafeErrorMessage(auth.ErrInvalidCredentials))

	// Validation messages pass through; everything else is generic.
	validation := fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	assert.Equal(t, validation.Error(), api.GetSafeErrorMessage(validation))

	// Service wrapping is stripped from validation messages.
	wrapped := service.NewTaskServiceError("restore_task", "failed to restore task",
		fmt.Errorf("%w: task is not deleted", domain.ErrValidation))
	assert.Equal(t, "validation failed: task is not deleted", api.GetSafeErrorMessage(wrapped))

	internal := errors.New("pq: connection refused to postgres://u:p@db")
	msg := api.GetSafeErrorMessage(internal)
	assert.Equal(t, "An unexpected error occurred", msg)

	assert.Equal(t, "An unexpected error occurred", api.GetSafeErrorMessage(nil))
}
