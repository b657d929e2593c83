package cmd

import (
	"fmt"

	"github.com/frahmantamala/crm-management/internal/core/events"
	"github.com/frahmantamala/crm-management/internal/role"
	rolePostgres "github.com/frahmantamala/crm-management/internal/role/postgres"
	"github.com/frahmantamala/crm-management/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Re-dispatch domain events to their handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish an event to its subscribers",
	Long:  `Publish an event to the event bus. user.registered re-runs the default role assignment for --user-id.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishEvent(cmd, args[0])
	},
}

var (
	eventUserID int64
	eventEmail  string
)

func publishEvent(cmd *cobra.Command, eventType string) error {
	if eventType != events.EventTypeUserRegistered {
		return fmt.Errorf("unsupported event type %q", eventType)
	}
	if eventUserID <= 0 {
		return fmt.Errorf("--user-id is required")
	}

	cfg, err := setupLogger()
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	bus := events.NewEventBus(lg)
	roles := role.NewService(rolePostgres.NewRoleRepository(store.Gorm), lg)
	role.NewEventHandler(roles, lg).RegisterEventHandlers(bus)

	event := events.NewUserRegisteredEvent(eventUserID, eventEmail)
	lg.Info("publishing event", "event_type", eventType, "event_id", event.EventID(), "user_id", eventUserID)

	if err := bus.PublishSync(cmd.Context(), event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	lg.Info("event handled", "event_id", event.EventID())
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 0, "ID of the registered user")
	publishEventCmd.Flags().StringVar(&eventEmail, "email", "", "Email of the registered user")

	eventCmd.AddCommand(publishEventCmd)
}
