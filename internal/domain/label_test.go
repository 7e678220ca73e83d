package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLabel(t *testing.T) {
	creator := uuid.New()

	label, err := NewLabel(creator, "urgent", "#ff0000")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if label.Color != "#ff0000" {
		t.Errorf("Expected color #ff0000, got %s", label.Color)
	}
	if label.CreatedBy != creator {
		t.Errorf("Expected creator %s, got %s", creator, label.CreatedBy)
	}

	// An empty color falls back to the default.
	label, err = NewLabel(creator, "plain", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if label.Color != DefaultLabelColor {
		t.Errorf("Expected default color %s, got %s", DefaultLabelColor, label.Color)
	}

	if _, err := NewLabel(creator, "", ""); err != ErrLabelNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrLabelNameEmpty, err)
	}
	if _, err := NewLabel(uuid.Nil, "orphan", ""); err != ErrLabelCreatorEmpty {
		t.Errorf("Expected error %v, got %v", ErrLabelCreatorEmpty, err)
	}
}
