// Package model defines the taskman domain types as they arrive on the wire.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusToDo       Status = "to_do"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every known status in display order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// IsDone reports whether s is the terminal status.
func (s Status) IsDone() bool {
	return s == StatusDone
}

// Label returns a human-readable label ("in progress").
func (s Status) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// Task is a unit of work tracked by the server.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
	Role        string `json:"role,omitempty"`
	PhaseID     string `json:"phase_id,omitempty"`
	MilestoneID string `json:"milestone_id,omitempty"`
	SortOrder   *int   `json:"sort_order,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	Creator     string `json:"creator,omitempty"`
}

// Validate checks that the task carries the fields every view relies on.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status %q for task %s", t.Status, t.ID)
	}
	return nil
}

// timestampLayouts are the formats the server has been seen to emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a server timestamp. Zero time and false are returned
// for empty or unrecognized values.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// UpdatedTime returns the parsed UpdatedAt timestamp.
func (t Task) UpdatedTime() (time.Time, bool) {
	return ParseTimestamp(t.UpdatedAt)
}

// CreatedTime returns the parsed CreatedAt timestamp.
func (t Task) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(t.CreatedAt)
}

// DependencyEdge records that TaskID is blocked by DependsOn until DependsOn is done.
type DependencyEdge struct {
	TaskID    string `json:"task_id"`
	DependsOn string `json:"depends_on"`
}

// Note is a free-form annotation attached to a task.
type Note struct {
	Kind      string `json:"kind,omitempty"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Content   string `json:"content"`
}

// Phase groups milestones and tasks.
type Phase struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status,omitempty"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

// Milestone is a checkpoint within a phase.
type Milestone struct {
	ID        string `json:"id"`
	PhaseID   string `json:"phase_id,omitempty"`
	Name      string `json:"name"`
	Criterion string `json:"criterion,omitempty"`
	Reached   Flag   `json:"reached"`
}

// Flag is a boolean the server may send as true/false, 0/1, "0"/"1" or null.
type Flag bool

// UnmarshalJSON accepts every encoding the server uses for booleans.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(strings.TrimSpace(string(data)), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "null", "":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// MarshalJSON writes the flag as a JSON boolean.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// Role is an entry in the role picker.
type Role struct {
	Value string
	Label string
}

// KnownRoles are the roles the server accepts, in picker order.
var KnownRoles = []Role{
	{"project-manager", "Project Manager"},
	{"project-designer", "Project Designer"},
	{"software-architect", "Software Architect"},
	{"developer", "Developer"},
	{"summary-writer", "Summary Writer"},
	{"documentation-writer", "Documentation Writer"},
}

// IsKnownRole reports whether role is one of KnownRoles.
func IsKnownRole(role string) bool {
	for _, r := range KnownRoles {
		if r.Value == role {
			return true
		}
	}
	return false
}
