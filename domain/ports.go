package domain

import (
	"context"
	"time"
)

// Generator turns free-text inputs into structured content through an
// external model. Implementations make a single attempt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*JobDescriptionContent, error)
}

type EventType string

const (
	EventCreated EventType = "jd.created"
	EventUpdated EventType = "jd.updated"
	EventDeleted EventType = "jd.deleted"
)

// JobDescriptionEvent is published after a mutation commits.
type JobDescriptionEvent struct {
	Type       EventType `json:"type"`
	JobID      uint      `json:"job_id"`
	JobTitle   string    `json:"job_title,omitempty"`
	Status     JobStatus `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
}

type EventPublisher interface {
	Publish(ctx context.Context, evt JobDescriptionEvent) error
}
