// Package models defines the entities exposed on the HTTP surface.
package models

// Ticket is a tracker issue normalized for the API. It is built fresh on
// every fetch and never persisted.
type Ticket struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Assignee    string   `json:"assignee"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

// Defaults applied when the tracker omits the corresponding field.
const (
	DefaultAssignee = "Unassigned"
	DefaultPriority = "Medium"
)
