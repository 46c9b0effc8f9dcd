package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/company-api/internal/core/events"
	"github.com/frahmantamala/company-api/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the in-process event bus: publish record events to the audit handlers.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [resource] [action]",
	Short: "Publish a record event",
	Long:  `Publish a record changed event, e.g. "publish employee created --id 1", and print what the audit handler logs.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishRecordEvent(args[0], args[1])
	},
}

var (
	eventVariant  string
	eventRecordID int64
)

func publishRecordEvent(resource, action string) error {
	switch action {
	case events.ActionCreated, events.ActionUpdated, events.ActionDeleted:
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	lg := logger.LoggerWrapper()
	eventBus := events.NewEventBus(lg)
	events.SubscribeAudit(eventBus, lg, resource)

	event := events.NewRecordChangedEvent(eventVariant, resource, action, eventRecordID)
	lg.Info("publishing event", "event_type", event.EventType(), "event_id", event.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := eventBus.Publish(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := eventBus.Wait(ctx); err != nil {
		return fmt.Errorf("event handlers did not finish: %w", err)
	}

	lg.Info("event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventVariant, "variant", "basic", "variant recorded on the event")
	publishEventCmd.Flags().Int64Var(&eventRecordID, "id", 0, "record id recorded on the event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
