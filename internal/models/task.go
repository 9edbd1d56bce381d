package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// TaskStatuses lists every status in declaration order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is one of the known status values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// DisplayName returns the human-readable label for the status.
func (s TaskStatus) DisplayName() string {
	switch s {
	case TaskStatusPending:
		return "Pending"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusCompleted:
		return "Completed"
	}
	return string(s)
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// TaskPriorities lists every priority in declaration order.
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Valid reports whether p is one of the known priority values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// DisplayName returns the human-readable label for the priority.
func (p TaskPriority) DisplayName() string {
	switch p {
	case TaskPriorityLow:
		return "Low"
	case TaskPriorityMedium:
		return "Medium"
	case TaskPriorityHigh:
		return "High"
	}
	return string(p)
}

// Task is the canonical in-memory task every backend response variant is
// mapped into before any shell consumes it.
type Task struct {
	ID             uint64       `json:"id,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	Category       string       `json:"category,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	DueDate        *time.Time   `json:"dueDate,omitempty"`
	CompletionDate *time.Time   `json:"completionDate,omitempty"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
	Owner          *User        `json:"owner,omitempty"`
	Collaborators  []User       `json:"collaborators,omitempty"`

	// CollaboratorIDs holds collaborator user ids the backend sent without
	// full user objects. Callers resolve them against the active-user set.
	CollaboratorIDs []uint64 `json:"collaboratorUserIds,omitempty"`
}

// Persisted reports whether the task carries a server-assigned id.
func (t Task) Persisted() bool {
	return t.ID > 0
}

// NewPlaceholderID returns a client-generated id for optimistic UI. Ids are
// Unix-millisecond timestamps, far above the server's id sequence, and must
// be swapped out once the real id is known.
func NewPlaceholderID() uint64 {
	return uint64(time.Now().UnixMilli())
}
