package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the service layer. The API layer maps these
// to HTTP status codes.
var (
	// ErrTaskNotFound indicates the task does not exist or is not owned by
	// the caller. The two cases are deliberately indistinguishable so a
	// non-owner learns nothing about the task's existence.
	ErrTaskNotFound = errors.New("task not found")

	// ErrLabelNotFound indicates the label does not exist.
	ErrLabelNotFound = errors.New("label not found")

	// ErrCommentNotFound indicates the comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotCommentAuthor indicates the caller tried to delete a comment
	// they did not write.
	ErrNotCommentAuthor = errors.New("not the comment author")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Service sentinel errors pass through unwrapped so callers can match them
// directly.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrLabelNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrNotCommentAuthor) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
