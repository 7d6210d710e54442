// Package shared contains common domain types and errors used across all
// domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event marks something significant that happened in
// the domain; subscribers react to them without coupling the write path to
// cache or notification concerns.
const (
	EventSessionCompleted EventType = "session.completed"
	EventLevelUp          EventType = "progress.level_up"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// NewBaseEvent creates a BaseEvent stamped with the current UTC time.
func NewBaseEvent(t EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        t,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// EventType returns the type of the event.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID returns the producing aggregate's ID.
func (e BaseEvent) AggregateID() string { return e.AggregateId }

// SessionCompletedEvent is published after a completed session and its
// aggregate update have been committed in one transaction.
type SessionCompletedEvent struct {
	BaseEvent
	SessionID       string `json:"session_id"`
	DurationMinutes int    `json:"duration_minutes"`
	XPGained        int    `json:"xp_gained"`
	NewExperience   int    `json:"new_experience"`
	NewLevel        int    `json:"new_level"`
	LeveledUp       bool   `json:"leveled_up"`
	CurrentStreak   int    `json:"current_streak"`
}

// NewSessionCompletedEvent creates a SessionCompletedEvent for an account.
func NewSessionCompletedEvent(accountID, sessionID string, duration, xpGained, experience, level, streak int, leveledUp bool) SessionCompletedEvent {
	return SessionCompletedEvent{
		BaseEvent:       NewBaseEvent(EventSessionCompleted, accountID),
		SessionID:       sessionID,
		DurationMinutes: duration,
		XPGained:        xpGained,
		NewExperience:   experience,
		NewLevel:        level,
		LeveledUp:       leveledUp,
		CurrentStreak:   streak,
	}
}

// LevelUpEvent is published after a completion that crossed a level boundary.
// It always follows the SessionCompletedEvent for the same completion.
type LevelUpEvent struct {
	BaseEvent
	SessionID  string `json:"session_id"`
	NewLevel   int    `json:"new_level"`
	Experience int    `json:"experience"`
}

// NewLevelUpEvent creates a LevelUpEvent for an account.
func NewLevelUpEvent(accountID, sessionID string, newLevel, experience int) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent:  NewBaseEvent(EventLevelUp, accountID),
		SessionID:  sessionID,
		NewLevel:   newLevel,
		Experience: experience,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT BUS CONTRACT
// ══════════════════════════════════════════════════════════════════════════════

// EventHandler processes a single event. Handlers must tolerate redelivery.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event Event) error

// Handle calls the wrapped function.
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// EventPublisher defines the interface for publishing events. Publication
// happens after the producing transaction commits, so handlers only ever
// observe durable state.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBus distributes events to subscribed handlers.
type EventBus interface {
	EventPublisher
	Subscribe(eventType EventType, handler EventHandler) error
	Close() error
}
