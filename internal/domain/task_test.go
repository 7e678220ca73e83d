package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	ownerID := uuid.New()

	task, err := NewTask(ownerID, "write tests", "cover the domain", TaskStatusInProgress, TaskPriorityHigh, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if task.OwnerID != ownerID {
		t.Errorf("Expected owner %s, got %s", ownerID, task.OwnerID)
	}
	if task.Status != TaskStatusInProgress {
		t.Errorf("Expected status %s, got %s", TaskStatusInProgress, task.Status)
	}
	if task.Priority != TaskPriorityHigh {
		t.Errorf("Expected priority %s, got %s", TaskPriorityHigh, task.Priority)
	}
	if task.IsDeleted {
		t.Error("Expected new task to not be deleted")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewTaskDefaults(t *testing.T) {
	task, err := NewTask(uuid.New(), "minimal", "", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusTodo {
		t.Errorf("Expected default status %s, got %s", TaskStatusTodo, task.Status)
	}
	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected default priority %s, got %s", TaskPriorityMedium, task.Priority)
	}
	if task.DueDate != nil {
		t.Error("Expected nil due date")
	}
}

func TestNewTaskValidation(t *testing.T) {
	ownerID := uuid.New()

	if _, err := NewTask(uuid.Nil, "title", "", "", "", nil); err != ErrTaskOwnerIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskOwnerIDEmpty, err)
	}
	if _, err := NewTask(ownerID, "", "", "", "", nil); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}
	if _, err := NewTask(ownerID, "title", "", "someday", "", nil); err != ErrTaskStatusInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskStatusInvalid, err)
	}
	if _, err := NewTask(ownerID, "title", "", "", "critical", nil); err != ErrTaskPriorityInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskPriorityInvalid, err)
	}
}

func TestTaskSoftDeleteAndRestore(t *testing.T) {
	task, err := NewTask(uuid.New(), "ephemeral", "", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Restoring a live task is an error.
	if err := task.Restore(); err != ErrTaskNotDeleted {
		t.Errorf("Expected error %v, got %v", ErrTaskNotDeleted, err)
	}

	task.SoftDelete()
	if !task.IsDeleted {
		t.Error("Expected task to be deleted")
	}
	if task.DeletedAt == nil {
		t.Error("Expected DeletedAt to be set")
	}

	if err := task.Restore(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.IsDeleted {
		t.Error("Expected task to be live after restore")
	}
	if task.DeletedAt != nil {
		t.Error("Expected DeletedAt to be cleared")
	}
}

func TestTaskIsOverdue(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	task, err := NewTask(uuid.New(), "deadline", "", "", "", &past)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !task.IsOverdue(now) {
		t.Error("Expected task past its due date to be overdue")
	}

	task.Status = TaskStatusCompleted
	if task.IsOverdue(now) {
		t.Error("Expected completed task to never be overdue")
	}

	task.Status = TaskStatusTodo
	task.DueDate = &future
	if task.IsOverdue(now) {
		t.Error("Expected task due in the future to not be overdue")
	}

	task.DueDate = nil
	if task.IsOverdue(now) {
		t.Error("Expected task without a due date to not be overdue")
	}
}

func TestTaskPriorityOrdinal(t *testing.T) {
	if TaskPriorityLow.Ordinal() >= TaskPriorityMedium.Ordinal() {
		t.Error("Expected low < medium")
	}
	if TaskPriorityMedium.Ordinal() >= TaskPriorityHigh.Ordinal() {
		t.Error("Expected medium < high")
	}
	if TaskPriority("critical").Ordinal() >= TaskPriorityLow.Ordinal() {
		t.Error("Expected unknown priority to rank below low")
	}
}
