package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered = "user.registered"
)

// UserRegisteredEvent is raised once a user row has been created, either by
// self-registration or by an administrator.
type UserRegisteredEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserRegisteredEvent(userID int64, email string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserRegistered,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}
