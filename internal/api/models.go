package api

import (
	"time"

	"github.com/taskwell/taskwell-api/internal/domain"
)

// Auth request/response models

// RegisterRequest holds the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Username string `json:"username"  validate:"required,min=3,max=50"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=100"`
}

// LoginRequest holds the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest holds the payload for refreshing a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TokenResponse returns a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RegisterResponse returns the created user plus their first token pair.
type RegisterResponse struct {
	User *domain.User `json:"user"`
	TokenResponse
}

// Task request/response models

// CreateTaskRequest holds the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Status      string     `json:"status"      validate:"omitempty,oneof=todo in_progress completed archived"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	LabelIDs    []string   `json:"label_ids"`
}

// UpdateTaskRequest holds the payload for a partial task update. Absent
// fields leave the task untouched; label_ids present but empty clears the
// labels; clear_due_date removes the due date.
type UpdateTaskRequest struct {
	Title        *string    `json:"title"          validate:"omitempty,max=200"`
	Description  *string    `json:"description"    validate:"omitempty,max=2000"`
	Status       *string    `json:"status"         validate:"omitempty,oneof=todo in_progress completed archived"`
	Priority     *string    `json:"priority"       validate:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
	LabelIDs     []string   `json:"label_ids"`
}

// TaskListResponse is the paginated listing envelope.
type TaskListResponse struct {
	Tasks      []*domain.Task `json:"tasks"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Label request models

// CreateLabelRequest holds the payload for creating a label.
type CreateLabelRequest struct {
	Name  string `json:"name"  validate:"required,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// Comment request models

// CreateCommentRequest holds the payload for adding a comment to a task.
type CreateCommentRequest struct {
	TaskID  string `json:"task_id" validate:"required,uuid"`
	Content string `json:"content" validate:"required,max=2000"`
}

// Notification response models

// OverdueCheckResponse reports the outcome of an overdue-task scan.
type OverdueCheckResponse struct {
	NotificationsSent int `json:"notifications_sent"`
}
