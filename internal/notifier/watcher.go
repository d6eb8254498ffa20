package notifier

import (
	"fmt"
	"time"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

// TaskSnapshot is the slice of task state the watchers compare between polls.
type TaskSnapshot struct {
	ID              uint64
	Title           string
	Status          models.TaskStatus
	ProjectName     string
	CompletedByName string
}

// Event types emitted by the watchers.
const (
	EventTaskAssigned  = "task_assigned"
	EventTaskCompleted = "task_completed"
)

// Event is a single notification addressed to one user.
type Event struct {
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	TaskID     uint64    `json:"task_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AssignmentWatcher tracks the set of tasks assigned to one user and reports
// tasks it has not seen before. The first observation only primes the set so
// a restart does not replay every existing assignment.
type AssignmentWatcher struct {
	userID uint64
	seen   map[uint64]struct{}
	primed bool
}

// NewAssignmentWatcher creates a watcher for the given user.
func NewAssignmentWatcher(userID uint64) *AssignmentWatcher {
	return &AssignmentWatcher{
		userID: userID,
		seen:   make(map[uint64]struct{}),
	}
}

// Observe diffs the snapshot against the seen set and returns an event per
// newly assigned task. Every observed task is marked seen regardless of
// whether an event is returned.
func (w *AssignmentWatcher) Observe(tasks []TaskSnapshot, now time.Time) []Event {
	var events []Event

	for _, t := range tasks {
		if _, ok := w.seen[t.ID]; ok {
			continue
		}
		w.seen[t.ID] = struct{}{}

		if !w.primed {
			continue
		}

		body := "You have been assigned a new task"
		if t.ProjectName != "" {
			body = fmt.Sprintf("You have been assigned a new task in %s", t.ProjectName)
		}
		events = append(events, Event{
			Type:       EventTaskAssigned,
			UserID:     w.userID,
			TaskID:     t.ID,
			Title:      t.Title,
			Body:       body,
			OccurredAt: now,
		})
	}

	w.primed = true
	return events
}

// CompletionWatcher tracks which of a team's tasks are done and reports
// tasks that transition into the done state. Like AssignmentWatcher, the
// first observation only primes the set.
type CompletionWatcher struct {
	adminID uint64
	done    map[uint64]struct{}
	primed  bool
}

// NewCompletionWatcher creates a watcher for the given admin.
func NewCompletionWatcher(adminID uint64) *CompletionWatcher {
	return &CompletionWatcher{
		adminID: adminID,
		done:    make(map[uint64]struct{}),
	}
}

// Observe diffs the snapshot's done tasks against the known done set and
// returns an event per new completion. Tasks that reopen leave the set, so
// completing them again notifies again.
func (w *CompletionWatcher) Observe(tasks []TaskSnapshot, now time.Time) []Event {
	var events []Event

	current := make(map[uint64]struct{})
	for _, t := range tasks {
		if t.Status != models.TaskStatusDone {
			continue
		}
		current[t.ID] = struct{}{}

		if _, ok := w.done[t.ID]; ok {
			continue
		}
		if !w.primed {
			continue
		}

		completer := t.CompletedByName
		if completer == "" {
			completer = "An employee"
		}
		events = append(events, Event{
			Type:       EventTaskCompleted,
			UserID:     w.adminID,
			TaskID:     t.ID,
			Title:      t.Title,
			Body:       fmt.Sprintf("%s completed the task", completer),
			OccurredAt: now,
		})
	}

	w.done = current
	w.primed = true
	return events
}
