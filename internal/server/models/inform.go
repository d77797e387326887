package models

import "time"

// Inform lifecycle states. A COMPLETED inform is locked for everyone except
// administrators.
const (
	StatusOpen      = "OPEN"
	StatusCompleted = "COMPLETED"
)

// Inform is a work-log record filed by an engineer against a tool module.
// Images holds object-storage keys, not URLs. CreatedByID is assigned from
// the authenticated identity at creation time and never from client input.
type Inform struct {
	ID             string
	ToolID         string
	Module         string
	Title          string
	Content        string
	Images         []string
	Status         string
	CreatedByID    string
	LastEditedByID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InformView is an inform joined with its tool and user summaries, the shape
// returned by read endpoints.
type InformView struct {
	Inform
	Tool         ToolSummary
	CreatedBy    UserSummary
	LastEditedBy UserSummary
}
