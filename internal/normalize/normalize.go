// Package normalize reconciles the divergent response shapes of the remote
// task/user API into the canonical models. The backend is inconsistent
// about field names (active vs isActive, user vs owner, createDate vs
// createdAt), boolean encodings and list wrapping; everything funnels
// through here before any shell sees it.
//
// Per-record mapping is best-effort and never fails. The only error this
// package produces is NormalizationError, raised when a list endpoint
// returns a top-level shape that is not one of the accepted conventions.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/models"
)

// NormalizationError reports an unrecognized top-level response shape.
type NormalizationError struct {
	// Shape is the JSON type of the offending value (object, string, ...).
	Shape string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("invalid response format: expected array of users but got: %s", e.Shape)
}

// RawUser is the wire shape of a user record, carrying both canonical and
// legacy field names. Boolean-ish fields stay untyped because the backend
// sends booleans, "true"/"false" strings or 1/0 numbers interchangeably.
type RawUser struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  any    `json:"isActive"`
	Active    any    `json:"active"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Boolish decodes the backend's polymorphic boolean encodings: a real
// boolean, the strings "true"/"false" in any case, or the numbers 1/0.
// Anything else, including absence, yields the fallback.
func Boolish(v any, fallback bool) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true
		case "false":
			return false
		}
		return fallback
	case float64:
		// encoding/json decodes untyped numbers as float64.
		switch b {
		case 1:
			return true
		case 0:
			return false
		}
		return fallback
	case int:
		switch b {
		case 1:
			return true
		case 0:
			return false
		}
		return fallback
	default:
		return fallback
	}
}

// User maps a raw user record into the canonical shape. A missing role
// defaults to USER; a missing or unrecognized active flag defaults to
// active.
func User(raw RawUser) models.User {
	role := models.UserRole(strings.TrimSpace(raw.Role))
	if role == "" {
		role = models.RoleUser
	}

	return models.User{
		ID:        raw.ID,
		Username:  raw.Username,
		Email:     raw.Email,
		Role:      role,
		IsActive:  resolveActive(raw.IsActive, raw.Active, true),
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
	}
}

// resolveActive picks the effective active flag: canonical isActive first,
// then the legacy active field, then the fallback.
func resolveActive(isActive, active any, fallback bool) bool {
	if isActive != nil {
		return Boolish(isActive, fallback)
	}
	if active != nil {
		return Boolish(active, fallback)
	}
	return fallback
}

// UserList normalizes a raw list-users payload. Accepted shapes: a bare
// array, {"data": [...]}, {"users": [...]}, or null (empty list). Anything
// else is a NormalizationError. Individual records are decoded
// best-effort; a malformed record becomes a defaulted user, not an error.
func UserList(raw json.RawMessage) ([]models.User, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.User{}, nil
	}

	switch trimmed[0] {
	case '[':
		return decodeUserArray(trimmed), nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, &NormalizationError{Shape: jsonShape(trimmed)}
		}
		for _, key := range []string{"data", "users"} {
			inner, ok := wrapper[key]
			if !ok {
				continue
			}
			if innerTrimmed := bytes.TrimSpace(inner); len(innerTrimmed) > 0 && innerTrimmed[0] == '[' {
				return decodeUserArray(innerTrimmed), nil
			}
		}
		return nil, &NormalizationError{Shape: "object"}
	default:
		return nil, &NormalizationError{Shape: jsonShape(trimmed)}
	}
}

func decodeUserArray(raw json.RawMessage) []models.User {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return []models.User{}
	}

	users := make([]models.User, 0, len(elements))
	for _, element := range elements {
		var rawUser RawUser
		// Malformed records still produce a defaulted user.
		_ = json.Unmarshal(element, &rawUser)
		users = append(users, User(rawUser))
	}
	return users
}

// jsonShape names the JSON type of a raw value, for error reporting.
func jsonShape(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "empty"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// RawTask is the wire shape of a task record, carrying both canonical and
// legacy field names. Date fields stay strings until parsed.
type RawTask struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	DueDate        string    `json:"dueDate"`
	CompletionDate string    `json:"completionDate"`
	CreatedAt      string    `json:"createdAt"`
	CreateDate     string    `json:"createDate"`
	UpdatedAt      string    `json:"updatedAt"`
	UpdateDate     string    `json:"updateDate"`
	Owner          *RawUser  `json:"owner"`
	User           *RawUser  `json:"user"`
	Collaborators  []RawUser `json:"collaborators"`

	// CollaboratorUserIDs is set when the backend sends bare ids instead
	// of user objects.
	CollaboratorUserIDs []uint64 `json:"collaboratorUserIds"`
}

// Task maps a raw task record into the canonical shape: legacy field names
// folded into the canonical ones, the owner never left inside the
// collaborator set, completionDate only kept on completed tasks. Applying
// Task to an already-canonical record changes nothing.
func Task(raw RawTask) models.Task {
	status := models.TaskStatus(raw.Status)
	if status == "" {
		status = models.TaskStatusPending
	}
	priority := models.TaskPriority(raw.Priority)
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := models.Task{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Status:      status,
		Priority:    priority,
		Category:    raw.Category,
		Tags:        raw.Tags,
		DueDate:     parseDate(raw.DueDate),
		CreatedAt:   parseDate(firstNonEmpty(raw.CreatedAt, raw.CreateDate)),
		UpdatedAt:   parseDate(firstNonEmpty(raw.UpdatedAt, raw.UpdateDate)),
	}

	if status == models.TaskStatusCompleted {
		task.CompletionDate = parseDate(raw.CompletionDate)
	}

	rawOwner := raw.Owner
	if rawOwner == nil {
		rawOwner = raw.User
	}
	var ownerID uint64
	if rawOwner != nil {
		owner := User(*rawOwner)
		task.Owner = &owner
		ownerID = owner.ID
	}

	if len(raw.Collaborators) > 0 {
		collaborators := make([]models.User, 0, len(raw.Collaborators))
		for _, c := range raw.Collaborators {
			user := User(c)
			if ownerID != 0 && user.ID == ownerID {
				continue
			}
			collaborators = append(collaborators, user)
		}
		task.Collaborators = collaborators
	}

	if len(raw.CollaboratorUserIDs) > 0 {
		ids := make([]uint64, 0, len(raw.CollaboratorUserIDs))
		for _, id := range raw.CollaboratorUserIDs {
			if id == 0 || id == ownerID {
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			task.CollaboratorIDs = ids
		}
	}

	return task
}

// DecodeTask unmarshals and normalizes a single-task response body.
func DecodeTask(data []byte) (models.Task, error) {
	var raw RawTask
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Task{}, fmt.Errorf("failed to decode task response: %w", err)
	}
	return Task(raw), nil
}

// DecodeTaskList unmarshals and normalizes a list-tasks response body.
// The tasks endpoint returns a bare array; null normalizes to an empty
// list, any other shape is a NormalizationError.
func DecodeTaskList(data []byte) ([]models.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.Task{}, nil
	}
	if trimmed[0] != '[' {
		return nil, &NormalizationError{Shape: jsonShape(trimmed)}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return []models.Task{}, nil
	}

	tasks := make([]models.Task, 0, len(elements))
	for _, element := range elements {
		var raw RawTask
		_ = json.Unmarshal(element, &raw)
		tasks = append(tasks, Task(raw))
	}
	return tasks, nil
}

// ResolveCollaborators looks up unresolved collaborator ids in the
// currently loaded active-user set. Ids with no match are dropped and
// returned so the caller can log a warning; a missing user is not an
// error.
func ResolveCollaborators(ids []uint64, activeUsers []models.User) (resolved []models.User, dropped []uint64) {
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[uint64]models.User, len(activeUsers))
	for _, u := range activeUsers {
		byID[u.ID] = u
	}

	for _, id := range ids {
		if user, ok := byID[id]; ok {
			resolved = append(resolved, user)
		} else {
			dropped = append(dropped, id)
		}
	}
	return resolved, dropped
}

// ToggleUserStatus normalizes a status-update response. The server may
// echo the new flag under isActive, under active, or not at all; the
// effective value resolves in that priority order, falling back to what
// the caller requested.
func ToggleUserStatus(raw json.RawMessage, requestedIsActive bool) models.User {
	var rawUser RawUser
	if err := json.Unmarshal(bytes.TrimSpace(raw), &rawUser); err != nil {
		return models.User{IsActive: requestedIsActive, Role: models.RoleUser}
	}

	user := User(rawUser)
	user.IsActive = resolveActive(rawUser.IsActive, rawUser.Active, requestedIsActive)
	return user
}

// parseDate parses the wire date formats the backend uses. Unparseable
// values drop to nil rather than failing the record.
func parseDate(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", constants.LocalDateLayout} {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return &parsed
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
