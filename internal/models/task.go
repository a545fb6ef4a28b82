package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// IsValidStatus reports whether s is one of
// the three task statuses.
func IsValidStatus(s string) bool {
	return s == StatusPending ||
		s == StatusInProgress ||
		s == StatusCompleted
}

type Task struct {
	ID          int64
	Title       string
	Description string
	// DueDate carries a calendar date; the time
	// component is always midnight UTC.
	DueDate time.Time
	Status  string
	// AssigneeID is nil for unassigned tasks.
	AssigneeID *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssignedTo reports whether the task is assigned to the given user.
func (t *Task) AssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
