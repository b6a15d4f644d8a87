package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventProjectSaved   EventType = "project.saved"
	EventProjectDeleted EventType = "project.deleted"
)

// Event describes a project lifecycle change.
type Event struct {
	Type       EventType `json:"type"`
	ProjectID  uuid.UUID `json:"project_id"`
	Name       string    `json:"name,omitempty"`
	VCT        string    `json:"vct,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
