package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/service"
)

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// recordingSender captures every delivery and can fail selected recipients.
type recordingSender struct {
	mu     sync.Mutex
	sent   []sentEmail
	FailTo map[string]error
}

func (s *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.FailTo[to]; ok {
		return err
	}
	s.sent = append(s.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *recordingSender) Sent() []sentEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentEmail(nil), s.sent...)
}

func seedUser(t *testing.T, users *mocks.MemoryUserStore, email, username string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, username, "password123")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func seedOverdueTask(t *testing.T, tasks *mocks.MemoryTaskStore, ownerID uuid.UUID, title string, due time.Time) {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, "", "", domain.TaskPriorityHigh, &due)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(context.Background(), task))
}

func TestCheckOverdueGroupsTasksPerOwner(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMemoryTaskStore()
	users := mocks.NewMemoryUserStore()
	sender := &recordingSender{}

	alice := seedUser(t, users, "alice@example.com", "alice")
	bob := seedUser(t, users, "bob@example.com", "bob")

	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	seedOverdueTask(t, tasks, alice.ID, "pay invoice", past)
	seedOverdueTask(t, tasks, alice.ID, "file report", past)
	seedOverdueTask(t, tasks, bob.ID, "call supplier", past)

	// A future task must not appear in anyone's summary.
	future := now.Add(48 * time.Hour)
	seedOverdueTask(t, tasks, alice.ID, "plan offsite", future)

	notifier := service.NewNotifier(tasks, users, sender, nil)

	sent, err := notifier.CheckOverdue(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 2, sent)

	byRecipient := map[string]sentEmail{}
	for _, email := range sender.Sent() {
		byRecipient[email.To] = email
	}
	require.Len(t, byRecipient, 2)

	aliceMail := byRecipient["alice@example.com"]
	require.Equal(t, "You have 2 overdue task(s)", aliceMail.Subject)
	require.Contains(t, aliceMail.Body, "Hi alice,")
	require.Contains(t, aliceMail.Body, "pay invoice")
	require.Contains(t, aliceMail.Body, "file report")
	require.NotContains(t, aliceMail.Body, "plan offsite")
	require.NotContains(t, aliceMail.Body, "call supplier")

	bobMail := byRecipient["bob@example.com"]
	require.Equal(t, "You have 1 overdue task(s)", bobMail.Subject)
	require.Contains(t, bobMail.Body, "call supplier")
}

func TestCheckOverdueWithNoOverdueTasks(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMemoryTaskStore()
	users := mocks.NewMemoryUserStore()
	sender := &recordingSender{}

	notifier := service.NewNotifier(tasks, users, sender, nil)

	sent, err := notifier.CheckOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Empty(t, sender.Sent())
}

func TestCheckOverdueWithDeliveryDisabled(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMemoryTaskStore()
	users := mocks.NewMemoryUserStore()

	owner := seedUser(t, users, "owner@example.com", "owner")
	seedOverdueTask(t, tasks, owner.ID, "late", time.Now().UTC().Add(-time.Hour))

	notifier := service.NewNotifier(tasks, users, nil, nil)

	sent, err := notifier.CheckOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Zero(t, sent)
}

func TestCheckOverdueSkipsFailedOwners(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMemoryTaskStore()
	users := mocks.NewMemoryUserStore()

	alice := seedUser(t, users, "alice@example.com", "alice")
	bob := seedUser(t, users, "bob@example.com", "bob")

	past := time.Now().UTC().Add(-time.Hour)
	seedOverdueTask(t, tasks, alice.ID, "blocked", past)
	seedOverdueTask(t, tasks, bob.ID, "deliverable", past)

	sender := &recordingSender{
		FailTo: map[string]error{"alice@example.com": errors.New("mailbox full")},
	}
	notifier := service.NewNotifier(tasks, users, sender, nil)

	sent, err := notifier.CheckOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err, "one failed delivery must not abort the scan")
	require.Equal(t, 1, sent)
	require.Len(t, sender.Sent(), 1)
	require.Equal(t, "bob@example.com", sender.Sent()[0].To)
}

func TestCheckOverdueIgnoresDeletedTasks(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMemoryTaskStore()
	users := mocks.NewMemoryUserStore()
	sender := &recordingSender{}

	owner := seedUser(t, users, "owner@example.com", "owner")

	due := time.Now().UTC().Add(-time.Hour)
	task, err := domain.NewTask(owner.ID, "abandoned", "", "", "", &due)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(context.Background(), task))
	task.SoftDelete()
	require.NoError(t, tasks.Update(context.Background(), task))

	notifier := service.NewNotifier(tasks, users, sender, nil)

	sent, err := notifier.CheckOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Empty(t, sender.Sent())
}
