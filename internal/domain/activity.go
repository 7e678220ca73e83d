package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ActivityAction identifies the kind of mutation recorded in the audit trail.
type ActivityAction string

// Valid activity actions.
const (
	ActivityActionCreated      ActivityAction = "created"
	ActivityActionUpdated      ActivityAction = "updated"
	ActivityActionDeleted      ActivityAction = "deleted"
	ActivityActionRestored     ActivityAction = "restored"
	ActivityActionCommentAdded ActivityAction = "comment_added"
)

// IsValid reports whether the action is one of the known activity actions.
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActivityActionCreated, ActivityActionUpdated, ActivityActionDeleted,
		ActivityActionRestored, ActivityActionCommentAdded:
		return true
	}
	return false
}

// Activity log validation errors
var (
	// ErrActivityIDEmpty is returned when an activity entry ID is empty or nil.
	ErrActivityIDEmpty = errors.New("activity entry ID cannot be empty")

	// ErrActivityTaskIDEmpty is returned when an activity entry's task ID is empty or nil.
	ErrActivityTaskIDEmpty = errors.New("activity entry task ID cannot be empty")

	// ErrActivityUserIDEmpty is returned when an activity entry's user ID is empty or nil.
	ErrActivityUserIDEmpty = errors.New("activity entry user ID cannot be empty")

	// ErrActivityActionInvalid is returned when an activity action is not a known value.
	ErrActivityActionInvalid = errors.New("invalid activity action")
)

// ActivityLogEntry is an immutable audit record of a task mutation.
// Entries are append-only: they are never updated or deleted by normal flows.
type ActivityLogEntry struct {
	ID          uuid.UUID      `json:"id"`
	TaskID      uuid.UUID      `json:"task_id"`
	UserID      uuid.UUID      `json:"user_id"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewActivityLogEntry creates a new audit trail entry for the given task and
// user. Returns an error if validation fails.
func NewActivityLogEntry(taskID, userID uuid.UUID, action ActivityAction, description string) (*ActivityLogEntry, error) {
	entry := &ActivityLogEntry{
		ID:          uuid.New(),
		TaskID:      taskID,
		UserID:      userID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the ActivityLogEntry has valid data.
func (e *ActivityLogEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrActivityIDEmpty
	}

	if e.TaskID == uuid.Nil {
		return ErrActivityTaskIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrActivityUserIDEmpty
	}

	if !e.Action.IsValid() {
		return ErrActivityActionInvalid
	}

	return nil
}
