package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Comment-specific validation errors
var (
	// ErrCommentIDEmpty is returned when a comment ID is empty or nil.
	ErrCommentIDEmpty = errors.New("comment ID cannot be empty")

	// ErrCommentTaskIDEmpty is returned when a comment's task ID is empty or nil.
	ErrCommentTaskIDEmpty = errors.New("comment task ID cannot be empty")

	// ErrCommentUserIDEmpty is returned when a comment's author ID is empty or nil.
	ErrCommentUserIDEmpty = errors.New("comment user ID cannot be empty")

	// ErrCommentContentEmpty is returned when a comment's content is empty.
	ErrCommentContentEmpty = errors.New("comment content cannot be empty")
)

// Comment is a user-authored note attached to a task.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a new Comment on the given task by the given user.
// Returns an error if validation fails.
func NewComment(taskID, userID uuid.UUID, content string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCommentIDEmpty
	}

	if c.TaskID == uuid.Nil {
		return ErrCommentTaskIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCommentUserIDEmpty
	}

	if c.Content == "" {
		return ErrCommentContentEmpty
	}

	return nil
}
