package role

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/crm-management/internal/core/events"
	"github.com/frahmantamala/crm-management/internal/user"
)

// EventHandler gives every newly registered user the default role.
type EventHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewEventHandler(service *Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger,
	}
}

func (h *EventHandler) HandleUserRegistered(ctx context.Context, event events.Event) error {
	registered, ok := event.(*events.UserRegisteredEvent)
	if !ok {
		h.logger.Error("invalid event type for user registered handler", "event_type", event.EventType())
		return fmt.Errorf("expected UserRegisteredEvent, got %T", event)
	}

	roleID, err := h.service.EnsureRole(ctx, user.RoleUser)
	if err != nil {
		return fmt.Errorf("resolve default role: %w", err)
	}

	if err := h.service.AssignRole(ctx, registered.UserID, roleID); err != nil {
		h.logger.Error("failed to assign default role",
			"error", err,
			"user_id", registered.UserID,
			"event_id", registered.EventID())
		return fmt.Errorf("assign default role to user %d: %w", registered.UserID, err)
	}

	h.logger.Info("default role assigned",
		"user_id", registered.UserID,
		"role", user.RoleUser,
		"event_id", registered.EventID())

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeUserRegistered, h.HandleUserRegistered)

	h.logger.Info("role event handlers registered",
		"handlers", []string{events.EventTypeUserRegistered})
}
