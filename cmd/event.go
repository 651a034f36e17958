package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/gearguard/internal/core/events"
	"github.com/frahmantamala/gearguard/internal/observability"
	"github.com/frahmantamala/gearguard/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish lifecycle events to a local bus to exercise subscribers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish request.created, request.stage_changed, equipment.scrapped or any custom type to a local event bus`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventData        string
	eventRequestID   int64
	eventEquipmentID int64
	eventFrom        string
	eventTo          string
)

func buildTestEvent(eventType string) events.Event {
	switch eventType {
	case events.EventTypeRequestCreated:
		return events.NewRequestCreatedEvent(eventRequestID, eventEquipmentID, 0, "corrective", 0)
	case events.EventTypeRequestStageChanged:
		return events.NewRequestStageChangedEvent(eventRequestID, eventFrom, eventTo)
	case events.EventTypeEquipmentScrapped:
		return events.NewEquipmentScrappedEvent(eventEquipmentID, eventRequestID)
	}
	return events.BaseEvent{
		ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}
}

func publishTestEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.LoggerWrapper()

	bus := events.NewEventBus(log)
	metrics := observability.NewMetrics()
	metrics.Subscribe(bus)

	bus.Subscribe(events.AllEvents, func(ctx context.Context, event events.Event) error {
		log.Info("event delivered",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	event := buildTestEvent(eventType)
	log.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	if err := bus.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := bus.Wait(waitCtx); err != nil {
		return fmt.Errorf("wait for handlers: %w", err)
	}
	log.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message for custom event types")
	publishEventCmd.Flags().Int64Var(&eventRequestID, "request", 1, "Request id carried by lifecycle events")
	publishEventCmd.Flags().Int64Var(&eventEquipmentID, "equipment", 1, "Equipment id carried by lifecycle events")
	publishEventCmd.Flags().StringVar(&eventFrom, "from", "new", "Previous stage for request.stage_changed")
	publishEventCmd.Flags().StringVar(&eventTo, "to", "in-progress", "New stage for request.stage_changed")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
