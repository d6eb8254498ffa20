package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskforce-app/taskforce-api/internal/models"
)

type stubSource struct {
	employees map[uint64][]TaskSnapshot
	admins    map[uint64][]TaskSnapshot
}

func (s *stubSource) EmployeeSnapshots(context.Context) (map[uint64][]TaskSnapshot, error) {
	return s.employees, nil
}

func (s *stubSource) AdminSnapshots(context.Context) (map[uint64][]TaskSnapshot, error) {
	return s.admins, nil
}

type captureSink struct {
	events []Event
}

func (s *captureSink) Deliver(_ context.Context, event Event) error {
	s.events = append(s.events, event)
	return nil
}

func TestNotifier_PollRoutesEventsPerUser(t *testing.T) {
	source := &stubSource{
		employees: map[uint64][]TaskSnapshot{
			1: {{ID: 10, Title: "Existing"}},
			2: {},
		},
		admins: map[uint64][]TaskSnapshot{
			3: {{ID: 10, Title: "Existing", Status: models.TaskStatusPending}},
		},
	}
	sink := &captureSink{}
	n := New(source, sink, zap.NewNop(), time.Second)

	// First poll primes every watcher.
	n.poll(context.Background())
	require.Empty(t, sink.events)

	source.employees[2] = []TaskSnapshot{{ID: 11, Title: "Fresh"}}
	source.admins[3] = []TaskSnapshot{
		{ID: 10, Title: "Existing", Status: models.TaskStatusDone, CompletedByName: "Alice"},
	}

	n.poll(context.Background())

	require.Len(t, sink.events, 2)

	byType := make(map[string]Event)
	for _, e := range sink.events {
		byType[e.Type] = e
	}

	assigned := byType[EventTaskAssigned]
	require.Equal(t, uint64(2), assigned.UserID)
	require.Equal(t, uint64(11), assigned.TaskID)

	completed := byType[EventTaskCompleted]
	require.Equal(t, uint64(3), completed.UserID)
	require.Equal(t, uint64(10), completed.TaskID)
}
