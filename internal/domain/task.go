package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusArchived   TaskStatus = "archived"
)

// IsValid reports whether the status is one of the known task statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusArchived:
		return true
	}
	return false
}

// TaskPriority represents the urgency level of a task.
type TaskPriority string

// Valid task priorities, ordered low < medium < high.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid reports whether the priority is one of the known task priorities.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Ordinal returns the sort rank of the priority (low=0, medium=1, high=2).
// Unknown priorities rank below low.
func (p TaskPriority) Ordinal() int {
	switch p {
	case TaskPriorityLow:
		return 0
	case TaskPriorityMedium:
		return 1
	case TaskPriorityHigh:
		return 2
	}
	return -1
}

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskStatusInvalid is returned when a task's status is not a known value.
	ErrTaskStatusInvalid = errors.New("invalid task status")

	// ErrTaskPriorityInvalid is returned when a task's priority is not a known value.
	ErrTaskPriorityInvalid = errors.New("invalid task priority")

	// ErrTaskNotDeleted is returned when restoring a task that is not soft-deleted.
	ErrTaskNotDeleted = errors.New("task is not deleted")
)

// Task represents a unit of work owned by a single user.
// Tasks are never hard-deleted through normal flows; DeleteTask marks
// IsDeleted and sets DeletedAt, and listings only show rows where
// IsDeleted is false.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	OwnerID     uuid.UUID    `json:"owner_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	IsDeleted   bool         `json:"is_deleted"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Labels holds the labels attached to the task. Label lifetime is
	// independent of the task; this is an association, not ownership.
	Labels []Label `json:"labels,omitempty"`
}

// NewTask creates a new Task for the given owner with sensible defaults
// (status todo, priority medium when unset). It generates a new UUID for
// the task ID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string, status TaskStatus, priority TaskPriority, dueDate *time.Time) (*Task, error) {
	if status == "" {
		status = TaskStatusTodo
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if !t.Status.IsValid() {
		return ErrTaskStatusInvalid
	}

	if !t.Priority.IsValid() {
		return ErrTaskPriorityInvalid
	}

	return nil
}

// SoftDelete marks the task as deleted and records the deletion time.
// Labels, comments and other fields are left untouched.
func (t *Task) SoftDelete() {
	now := time.Now().UTC()
	t.IsDeleted = true
	t.DeletedAt = &now
	t.UpdatedAt = now
}

// Restore clears the soft-delete state and refreshes the update timestamp.
// Returns ErrTaskNotDeleted if the task is not currently soft-deleted.
func (t *Task) Restore() error {
	if !t.IsDeleted {
		return ErrTaskNotDeleted
	}
	t.IsDeleted = false
	t.DeletedAt = nil
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// IsOverdue reports whether the task is past its due date and not yet
// completed. Tasks without a due date are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}
