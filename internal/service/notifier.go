package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// EmailSender delivers a single email. Implemented by platform/email over
// SMTP and by test fakes.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier scans for overdue tasks and emails their owners. It runs on a
// cron schedule and on demand via the notifications endpoint. One email per
// owner covers all of their overdue tasks.
type Notifier struct {
	tasks  store.TaskStore
	users  store.UserStore
	sender EmailSender
	logger *slog.Logger
}

// NewNotifier creates a new Notifier. A nil sender disables delivery: scans
// still run, but each would-be email is logged and skipped.
func NewNotifier(tasks store.TaskStore, users store.UserStore, sender EmailSender, logger *slog.Logger) *Notifier {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if users == nil {
		panic("users cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		tasks:  tasks,
		users:  users,
		sender: sender,
		logger: logger.With(slog.String("component", "notifier")),
	}
}

// CheckOverdue finds every overdue task across all owners and sends each
// owner one summary email. It returns the number of emails sent. Delivery
// failures are logged per owner and do not abort the scan.
func (n *Notifier) CheckOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := n.tasks.ListOverdue(ctx, now)
	if err != nil {
		return 0, NewTaskServiceError("check_overdue", "failed to list overdue tasks", err)
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	byOwner := make(map[uuid.UUID][]*domain.Task)
	for _, t := range overdue {
		byOwner[t.OwnerID] = append(byOwner[t.OwnerID], t)
	}

	if n.sender == nil {
		n.logger.Info("email delivery disabled, skipping notifications",
			slog.Int("overdue_tasks", len(overdue)),
			slog.Int("owners", len(byOwner)))
		return 0, nil
	}

	sent := 0
	for ownerID, tasks := range byOwner {
		if err := n.notifyOwner(ctx, ownerID, tasks); err != nil {
			n.logger.Warn("overdue notification failed",
				slog.String("owner_id", ownerID.String()),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}

	n.logger.Info("overdue scan complete",
		slog.Int("overdue_tasks", len(overdue)),
		slog.Int("notifications_sent", sent))

	return sent, nil
}

func (n *Notifier) notifyOwner(ctx context.Context, ownerID uuid.UUID, tasks []*domain.Task) error {
	user, err := n.users.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("You have %d overdue task(s)", len(tasks))
	return n.sender.Send(ctx, user.Email, subject, overdueBody(user.Username, tasks))
}

func overdueBody(username string, tasks []*domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThe following tasks are overdue:\n\n", username)
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s (due %s, priority %s)\n",
			t.Title, t.DueDate.UTC().Format("2006-01-02"), t.Priority)
	}
	b.WriteString("\nYou can review them in Taskwell.\n")
	return b.String()
}
