package service

import (
	"context"
	"time"
)

// AccountEventType names a committed account state change.
type AccountEventType string

const (
	EventAccountRegistered      AccountEventType = "account.registered"
	EventAccountDeleted         AccountEventType = "account.deleted"
	EventAccountPasswordChanged AccountEventType = "account.password_changed"
	EventAccountLoggedIn        AccountEventType = "account.logged_in"
	EventAccountLoggedOut       AccountEventType = "account.logged_out"
)

// AccountEvent is published after an account operation commits.
type AccountEvent struct {
	RequestID  string           `json:"request_id,omitempty"` // For distributed tracing
	Type       AccountEventType `json:"type"`
	AccountID  int64            `json:"account_id"`
	Email      string           `json:"email"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an account event for downstream consumers
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
