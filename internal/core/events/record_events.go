package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// RecordChangedEvent reports a write to one row of a resource, e.g. "employee.created".
type RecordChangedEvent struct {
	BaseEvent
	Resource string `json:"resource"`
	Variant  string `json:"variant"`
	RecordID int64  `json:"record_id"`
	Action   string `json:"action"`
}

func EventType(resource, action string) string {
	return resource + "." + action
}

func NewRecordChangedEvent(variant, resource, action string, recordID int64) *RecordChangedEvent {
	return &RecordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventType(resource, action),
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"variant":   variant,
				"resource":  resource,
				"record_id": recordID,
				"action":    action,
			},
		},
		Resource: resource,
		Variant:  variant,
		RecordID: recordID,
		Action:   action,
	}
}

// SubscribeAudit logs every write to the given resources.
func SubscribeAudit(bus *EventBus, logger *slog.Logger, resources ...string) {
	audit := func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	for _, resource := range resources {
		for _, action := range []string{ActionCreated, ActionUpdated, ActionDeleted} {
			bus.Subscribe(EventType(resource, action), audit)
		}
	}
}
