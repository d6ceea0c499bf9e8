package approval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rumahkita/property-management/internal/core/events"
)

// ApplyFunc replays an approved action's captured payload against the
// module that owns the target table.
type ApplyFunc func(ctx context.Context, tableName string, recordID *int64, actionData string) error

// ApplierRegistry maps action types to the functions that materialize
// them once approved. Modules register their appliers at wiring time; the
// registry subscribes to approved events and dispatches by action type.
// An action type with no applier is logged and skipped, never an error:
// the approval record itself is already the system of record.
type ApplierRegistry struct {
	appliers map[string]ApplyFunc
	logger   *slog.Logger
	mu       sync.RWMutex
}

func NewApplierRegistry(logger *slog.Logger) *ApplierRegistry {
	return &ApplierRegistry{
		appliers: make(map[string]ApplyFunc),
		logger:   logger,
	}
}

func (r *ApplierRegistry) Register(actionType string, fn ApplyFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appliers[actionType] = fn
	r.logger.Info("approval applier registered", "action_type", actionType)
}

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Attach wires the registry to approved events on the bus.
func (r *ApplierRegistry) Attach(bus Subscriber) {
	bus.Subscribe(events.EventTypeApprovalApproved, r.handleApproved)
}

func (r *ApplierRegistry) handleApproved(ctx context.Context, event events.Event) error {
	approved, ok := event.(*events.ApprovalApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	r.mu.RLock()
	fn, exists := r.appliers[approved.ActionType]
	r.mu.RUnlock()

	if !exists {
		r.logger.Info("no applier for approved action",
			"approval_id", approved.ApprovalID,
			"action_type", approved.ActionType,
			"target_table", approved.TableName)
		return nil
	}

	if err := fn(ctx, approved.TableName, approved.RecordID, approved.ActionData); err != nil {
		r.logger.Error("approved action replay failed",
			"error", err,
			"approval_id", approved.ApprovalID,
			"action_type", approved.ActionType,
			"target_table", approved.TableName)
		return err
	}

	r.logger.Info("approved action replayed",
		"approval_id", approved.ApprovalID,
		"action_type", approved.ActionType,
		"target_table", approved.TableName)
	return nil
}
