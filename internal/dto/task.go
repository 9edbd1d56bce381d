package dto

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/models"
)

// CreateTaskRequest is the outgoing wire shape for the
// /tasks/with-collaborators endpoint.
type CreateTaskRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	DueDate             string   `json:"dueDate,omitempty"`
	Status              string   `json:"status,omitempty"`
	Category            string   `json:"category,omitempty"`
	Priority            string   `json:"priority,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	CollaboratorUserIDs []uint64 `json:"collaboratorUserIds,omitempty"`
}

// UpdateTaskRequest is the outgoing wire shape for the
// /tasks/update-with-collaborators endpoint.
type UpdateTaskRequest struct {
	ID                  uint64   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description,omitempty"`
	DueDate             string   `json:"dueDate,omitempty"`
	Status              string   `json:"status,omitempty"`
	Category            string   `json:"category,omitempty"`
	Priority            string   `json:"priority,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	CollaboratorUserIDs []uint64 `json:"collaboratorUserIds,omitempty"`
}

// BuildCreateTaskRequest converts a canonical task into the create wire
// shape. Dates are sent as the local calendar date with no time component;
// collaborator ids are deduplicated and zero ids dropped.
func BuildCreateTaskRequest(task models.Task, collaboratorIDs []uint64) CreateTaskRequest {
	return CreateTaskRequest{
		Title:               task.Title,
		Description:         task.Description,
		DueDate:             formatLocalDate(task.DueDate),
		Status:              string(task.Status),
		Category:            task.Category,
		Priority:            string(task.Priority),
		Tags:                task.Tags,
		CollaboratorUserIDs: dedupeIDs(collaboratorIDs),
	}
}

// BuildUpdateTaskRequest converts a canonical task into the update wire
// shape.
func BuildUpdateTaskRequest(task models.Task, collaboratorIDs []uint64) UpdateTaskRequest {
	return UpdateTaskRequest{
		ID:                  task.ID,
		Title:               task.Title,
		Description:         task.Description,
		DueDate:             formatLocalDate(task.DueDate),
		Status:              string(task.Status),
		Category:            task.Category,
		Priority:            string(task.Priority),
		Tags:                task.Tags,
		CollaboratorUserIDs: dedupeIDs(collaboratorIDs),
	}
}

// CollaboratorIDs extracts the deduplicated ids of a collaborator set, the
// shape the server expects for collaboratorUserIds.
func CollaboratorIDs(collaborators []models.User) []uint64 {
	if len(collaborators) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(collaborators))
	for _, c := range collaborators {
		ids = append(ids, c.ID)
	}
	return dedupeIDs(ids)
}

// formatLocalDate renders the local calendar date of t as YYYY-MM-DD, the
// only date format the backend accepts on writes.
func formatLocalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(constants.LocalDateLayout)
}

// dedupeIDs drops zero and repeated ids, preserving first-seen order.
func dedupeIDs(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint64]bool, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
