package models

import (
	"slices"
	"time"
)

// DefaultToolModules is the module set assigned to a tool when the creator
// does not name one explicitly.
var DefaultToolModules = []string{"LP1", "LP2", "LP3", "EFEM", "TM", "LL1", "LL2", "PM1", "PM2", "PM3"}

// Tool is a piece of equipment informs are filed against. ToolNumber and
// ToolID are both unique across all tools.
type Tool struct {
	ID          string
	ToolNumber  string
	ToolID      string
	Client      string
	BayArea     string
	Modules     []string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasModule reports whether the named module belongs to this tool.
func (t *Tool) HasModule(module string) bool {
	return slices.Contains(t.Modules, module)
}

// ToolSummary is the tool projection embedded in inform views.
type ToolSummary struct {
	ID         string `json:"id"`
	ToolNumber string `json:"toolNumber"`
	ToolID     string `json:"toolId"`
	Client     string `json:"client"`
	BayArea    string `json:"bayArea"`
}

func (t *Tool) Summary() ToolSummary {
	return ToolSummary{ID: t.ID, ToolNumber: t.ToolNumber, ToolID: t.ToolID, Client: t.Client, BayArea: t.BayArea}
}
