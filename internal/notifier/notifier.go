package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SnapshotSource provides the current task state per user. Employee
// snapshots cover the tasks assigned to each user; admin snapshots cover
// every task in each admin's team.
type SnapshotSource interface {
	EmployeeSnapshots(ctx context.Context) (map[uint64][]TaskSnapshot, error)
	AdminSnapshots(ctx context.Context) (map[uint64][]TaskSnapshot, error)
}

// Notifier polls a SnapshotSource and pushes the resulting events into a
// Sink. Watcher state lives in memory, so a restart re-primes against the
// current state instead of replaying history.
type Notifier struct {
	source   SnapshotSource
	sink     Sink
	logger   *zap.Logger
	interval time.Duration

	assignmentWatchers map[uint64]*AssignmentWatcher
	completionWatchers map[uint64]*CompletionWatcher
}

// New creates a Notifier polling at the given interval.
func New(source SnapshotSource, sink Sink, logger *zap.Logger, interval time.Duration) *Notifier {
	return &Notifier{
		source:             source,
		sink:               sink,
		logger:             logger,
		interval:           interval,
		assignmentWatchers: make(map[uint64]*AssignmentWatcher),
		completionWatchers: make(map[uint64]*CompletionWatcher),
	}
}

// Run polls until the context is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.logger.Info("notifier started", zap.Duration("interval", n.interval))

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("notifier stopped")
			return
		case <-ticker.C:
			n.poll(ctx)
		}
	}
}

func (n *Notifier) poll(ctx context.Context) {
	now := time.Now()

	employees, err := n.source.EmployeeSnapshots(ctx)
	if err != nil {
		n.logger.Error("failed to load employee snapshots", zap.Error(err))
	} else {
		for userID, tasks := range employees {
			watcher, ok := n.assignmentWatchers[userID]
			if !ok {
				watcher = NewAssignmentWatcher(userID)
				n.assignmentWatchers[userID] = watcher
			}
			n.deliver(ctx, watcher.Observe(tasks, now))
		}
	}

	admins, err := n.source.AdminSnapshots(ctx)
	if err != nil {
		n.logger.Error("failed to load admin snapshots", zap.Error(err))
		return
	}
	for adminID, tasks := range admins {
		watcher, ok := n.completionWatchers[adminID]
		if !ok {
			watcher = NewCompletionWatcher(adminID)
			n.completionWatchers[adminID] = watcher
		}
		n.deliver(ctx, watcher.Observe(tasks, now))
	}
}

func (n *Notifier) deliver(ctx context.Context, events []Event) {
	for _, event := range events {
		if err := n.sink.Deliver(ctx, event); err != nil {
			// The watcher already marked the task seen; a failed delivery
			// is logged and dropped rather than retried.
			n.logger.Error("failed to deliver notification",
				zap.String("type", event.Type),
				zap.Uint64("user_id", event.UserID),
				zap.Uint64("task_id", event.TaskID),
				zap.Error(err),
			)
		}
	}
}
