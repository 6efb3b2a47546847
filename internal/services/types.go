package services

import "time"

// User is an account able to save, promote and publish nations.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PassHash    []byte    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}

// NationEventType names a nation lifecycle change.
type NationEventType string

const (
	EventNationCreated   NationEventType = "nation.created"
	EventNationPromoted  NationEventType = "nation.promoted"
	EventNationUpdated   NationEventType = "nation.updated"
	EventNationDeleted   NationEventType = "nation.deleted"
	EventNationPublished NationEventType = "nation.published"
)

type NationEvent struct {
	Type     NationEventType `json:"type"`
	NationID string          `json:"nationId"`
	OwnerID  string          `json:"ownerId,omitempty"`
	Public   bool            `json:"public,omitempty"`
	At       time.Time       `json:"at"`
}
