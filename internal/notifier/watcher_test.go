package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

func TestAssignmentWatcher_FirstObservationOnlyPrimes(t *testing.T) {
	watcher := NewAssignmentWatcher(1)
	now := time.Now()

	events := watcher.Observe([]TaskSnapshot{
		{ID: 10, Title: "Existing", Status: models.TaskStatusPending},
	}, now)

	require.Empty(t, events)
}

func TestAssignmentWatcher_ReportsNewAssignments(t *testing.T) {
	watcher := NewAssignmentWatcher(1)
	now := time.Now()

	watcher.Observe([]TaskSnapshot{
		{ID: 10, Title: "Existing"},
	}, now)

	events := watcher.Observe([]TaskSnapshot{
		{ID: 10, Title: "Existing"},
		{ID: 11, Title: "Fresh", ProjectName: "Backend"},
	}, now)

	require.Len(t, events, 1)
	require.Equal(t, EventTaskAssigned, events[0].Type)
	require.Equal(t, uint64(1), events[0].UserID)
	require.Equal(t, uint64(11), events[0].TaskID)
	require.Equal(t, "Fresh", events[0].Title)
	require.Contains(t, events[0].Body, "Backend")
}

func TestAssignmentWatcher_DoesNotRepeat(t *testing.T) {
	watcher := NewAssignmentWatcher(1)
	now := time.Now()

	watcher.Observe(nil, now)
	first := watcher.Observe([]TaskSnapshot{{ID: 11, Title: "Fresh"}}, now)
	second := watcher.Observe([]TaskSnapshot{{ID: 11, Title: "Fresh"}}, now)

	require.Len(t, first, 1)
	require.Empty(t, second)
}

func TestCompletionWatcher_FirstObservationOnlyPrimes(t *testing.T) {
	watcher := NewCompletionWatcher(1)
	now := time.Now()

	events := watcher.Observe([]TaskSnapshot{
		{ID: 10, Title: "Already done", Status: models.TaskStatusDone},
	}, now)

	require.Empty(t, events)
}

func TestCompletionWatcher_ReportsTransitionToDone(t *testing.T) {
	watcher := NewCompletionWatcher(1)
	now := time.Now()

	watcher.Observe([]TaskSnapshot{
		{ID: 10, Title: "Task", Status: models.TaskStatusPending},
	}, now)

	events := watcher.Observe([]TaskSnapshot{
		{ID: 10, Title: "Task", Status: models.TaskStatusDone, CompletedByName: "Alice"},
	}, now)

	require.Len(t, events, 1)
	require.Equal(t, EventTaskCompleted, events[0].Type)
	require.Equal(t, uint64(10), events[0].TaskID)
	require.Contains(t, events[0].Body, "Alice")
}

func TestCompletionWatcher_AnonymousCompleterFallback(t *testing.T) {
	watcher := NewCompletionWatcher(1)
	now := time.Now()

	watcher.Observe([]TaskSnapshot{
		{ID: 10, Status: models.TaskStatusPending},
	}, now)

	events := watcher.Observe([]TaskSnapshot{
		{ID: 10, Status: models.TaskStatusDone},
	}, now)

	require.Len(t, events, 1)
	require.Contains(t, events[0].Body, "An employee")
}

func TestCompletionWatcher_ReopenThenCompleteNotifiesAgain(t *testing.T) {
	watcher := NewCompletionWatcher(1)
	now := time.Now()

	watcher.Observe([]TaskSnapshot{{ID: 10, Status: models.TaskStatusPending}}, now)

	done := watcher.Observe([]TaskSnapshot{{ID: 10, Status: models.TaskStatusDone}}, now)
	require.Len(t, done, 1)

	reopened := watcher.Observe([]TaskSnapshot{{ID: 10, Status: models.TaskStatusPending}}, now)
	require.Empty(t, reopened)

	doneAgain := watcher.Observe([]TaskSnapshot{{ID: 10, Status: models.TaskStatusDone}}, now)
	require.Len(t, doneAgain, 1)
}
