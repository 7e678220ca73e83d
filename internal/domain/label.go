package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultLabelColor is applied when a label is created without a color.
const DefaultLabelColor = "#6366f1"

// Label-specific validation errors
var (
	// ErrLabelIDEmpty is returned when a label ID is empty or nil.
	ErrLabelIDEmpty = errors.New("label ID cannot be empty")

	// ErrLabelNameEmpty is returned when a label's name is empty.
	ErrLabelNameEmpty = errors.New("label name cannot be empty")

	// ErrLabelCreatorEmpty is returned when a label's creator ID is empty or nil.
	ErrLabelCreatorEmpty = errors.New("label creator ID cannot be empty")
)

// Label is a user-created tag that can be attached to any number of tasks.
// Labels have an independent lifecycle: deleting a label removes the
// association but never the tasks it was attached to.
type Label struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLabel creates a new Label for the given creator. An empty color falls
// back to DefaultLabelColor. Returns an error if validation fails.
func NewLabel(createdBy uuid.UUID, name, color string) (*Label, error) {
	if color == "" {
		color = DefaultLabelColor
	}

	label := &Label{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := label.Validate(); err != nil {
		return nil, err
	}

	return label, nil
}

// Validate checks if the Label has valid data.
func (l *Label) Validate() error {
	if l.ID == uuid.Nil {
		return ErrLabelIDEmpty
	}

	if l.Name == "" {
		return ErrLabelNameEmpty
	}

	if l.CreatedBy == uuid.Nil {
		return ErrLabelCreatorEmpty
	}

	return nil
}
