// Package validation implements the shared field and form validation rules
// used by every front-end shell. All checks are pure: invalid input is an
// expected result reported as error strings, never a panic.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/models"
)

// Result is the outcome of a single field check.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func result(errs []string) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	lowercaseRe = regexp.MustCompile(`[a-z]`)
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	digitRe     = regexp.MustCompile(`\d`)
)

// timeNow is swapped out by tests that pin "today".
var timeNow = time.Now

// ValidateUsername checks length and charset. Length and charset violations
// are reported together when both apply.
func ValidateUsername(username string, required bool) Result {
	var errs []string

	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		if required {
			errs = append(errs, "Username is required - please enter a username")
		}
		return result(errs)
	}

	length := utf8.RuneCountInString(trimmed)
	if length < constants.UsernameMinLength {
		errs = append(errs, fmt.Sprintf("Username is too short (%d/%d minimum characters)", length, constants.UsernameMinLength))
	} else if length > constants.UsernameMaxLength {
		errs = append(errs, fmt.Sprintf("Username is too long (%d/%d maximum characters)", length, constants.UsernameMaxLength))
	}
	if !usernameRe.MatchString(trimmed) {
		errs = append(errs, "Username contains invalid characters - only letters, numbers, and underscores are allowed")
	}

	return result(errs)
}

// ValidateEmail checks length and a simple local@domain.tld shape.
func ValidateEmail(email string, required bool) Result {
	var errs []string

	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		if required {
			errs = append(errs, "Email address is required - please enter your email")
		}
		return result(errs)
	}

	if length := utf8.RuneCountInString(trimmed); length > constants.EmailMaxLength {
		errs = append(errs, fmt.Sprintf("Email is too long (%d/%d maximum characters)", length, constants.EmailMaxLength))
	}
	if !emailRe.MatchString(trimmed) {
		errs = append(errs, "Email format is invalid - please use format: user@domain.com")
	}

	return result(errs)
}

// ValidatePassword checks length and character-class composition: at least
// one lowercase letter, one uppercase letter and one digit.
func ValidatePassword(password string, required bool) Result {
	var errs []string

	if strings.TrimSpace(password) == "" {
		if required {
			errs = append(errs, "Password is required - please enter a password")
		}
		return result(errs)
	}

	length := utf8.RuneCountInString(password)
	if length < constants.PasswordMinLength {
		errs = append(errs, fmt.Sprintf("Password is too short (%d/%d minimum characters)", length, constants.PasswordMinLength))
	} else if length > constants.PasswordMaxLength {
		errs = append(errs, fmt.Sprintf("Password is too long (%d/%d maximum characters)", length, constants.PasswordMaxLength))
	}

	var missing []string
	if !lowercaseRe.MatchString(password) {
		missing = append(missing, "lowercase letter")
	}
	if !uppercaseRe.MatchString(password) {
		missing = append(missing, "uppercase letter")
	}
	if !digitRe.MatchString(password) {
		missing = append(missing, "number")
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("Password must contain at least one %s", strings.Join(missing, ", ")))
	}

	return result(errs)
}

// validateLoginPassword applies the relaxed login-only rule: the password
// just has to be present and within the length cap.
func validateLoginPassword(password string) []string {
	var errs []string
	if strings.TrimSpace(password) == "" {
		errs = append(errs, "Password is required")
	} else if utf8.RuneCountInString(password) > constants.PasswordMaxLength {
		errs = append(errs, fmt.Sprintf("Password must not exceed %d characters", constants.PasswordMaxLength))
	}
	return errs
}

// ValidateRole accepts exactly USER or ADMIN when non-empty.
func ValidateRole(role string, required bool) Result {
	var errs []string

	trimmed := strings.TrimSpace(role)
	if trimmed == "" {
		if required {
			errs = append(errs, "Role is required")
		}
		return result(errs)
	}

	if !models.UserRole(trimmed).Valid() {
		errs = append(errs, fmt.Sprintf("Role must be %s, %s", models.RoleUser, models.RoleAdmin))
	}

	return result(errs)
}

// ValidateUserID coerces a string-or-number id and requires it to be a
// positive integer.
func ValidateUserID(id any) Result {
	if _, ok := coerceID(id); !ok {
		return result([]string{"User ID must be positive"})
	}
	return result(nil)
}

// ValidateTaskID coerces a string-or-number id and requires it to be a
// positive integer.
func ValidateTaskID(id any) Result {
	if _, ok := coerceID(id); !ok {
		return result([]string{"Task ID must be positive"})
	}
	return result(nil)
}

// coerceID converts the common wire representations of an id into a
// positive integer. Anything unparseable or non-positive fails.
func coerceID(id any) (uint64, bool) {
	switch v := id.(type) {
	case nil:
		return 0, false
	case uint64:
		return v, v > 0
	case uint:
		return uint64(v), v > 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case float64:
		if v <= 0 || v != float64(int64(v)) {
			return 0, false
		}
		return uint64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || n <= 0 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}

// ValidateTaskTitle requires a non-blank title within the length cap.
func ValidateTaskTitle(title string) Result {
	var errs []string

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		errs = append(errs, "Task title is required - please enter a descriptive title")
	} else if length := utf8.RuneCountInString(trimmed); length > constants.TaskTitleMaxLength {
		errs = append(errs, fmt.Sprintf("Task title is too long (%d/%d maximum characters)", length, constants.TaskTitleMaxLength))
	}

	return result(errs)
}

// ValidateTaskDescription caps the optional description length.
func ValidateTaskDescription(description string) Result {
	var errs []string
	if length := utf8.RuneCountInString(description); length > constants.TaskDescriptionMaxLength {
		errs = append(errs, fmt.Sprintf("Description is too long (%d/%d maximum characters)", length, constants.TaskDescriptionMaxLength))
	}
	return result(errs)
}

// ValidateTaskDueDate accepts a time.Time, *time.Time or date string. The
// date must parse and must not fall on a calendar day before today; any
// time on the current day is accepted.
func ValidateTaskDueDate(dueDate any) Result {
	var errs []string

	date, present, ok := coerceDate(dueDate)
	if !present {
		return result(nil)
	}
	if !ok {
		errs = append(errs, "Due date format is invalid - please enter a valid date")
		return result(errs)
	}

	now := timeNow()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(startOfToday) {
		errs = append(errs, fmt.Sprintf("Due date cannot be in the past (selected: %s)", date.Format(constants.LocalDateLayout)))
	}

	return result(errs)
}

// dateLayouts are the accepted wire formats for date values, most specific
// first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	constants.LocalDateLayout,
}

// coerceDate converts the supported due-date representations. present is
// false for nil/empty input, ok is false when a value was given but does
// not parse.
func coerceDate(v any) (date time.Time, present, ok bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false, false
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false, false
		}
		return d, true, true
	case *time.Time:
		if d == nil || d.IsZero() {
			return time.Time{}, false, false
		}
		return *d, true, true
	case string:
		trimmed := strings.TrimSpace(d)
		if trimmed == "" {
			return time.Time{}, false, false
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
				return parsed, true, true
			}
		}
		return time.Time{}, true, false
	default:
		return time.Time{}, true, false
	}
}

// ValidateTaskStatus accepts one of the known status values when non-empty.
func ValidateTaskStatus(status string) Result {
	var errs []string
	if status != "" && !models.TaskStatus(status).Valid() {
		errs = append(errs, fmt.Sprintf("Status must be %s, %s, %s", models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted))
	}
	return result(errs)
}

// ValidateTaskPriority accepts one of the known priority values when
// non-empty.
func ValidateTaskPriority(priority string) Result {
	var errs []string
	if priority != "" && !models.TaskPriority(priority).Valid() {
		errs = append(errs, fmt.Sprintf("Priority must be %s, %s, %s", models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh))
	}
	return result(errs)
}

// ValidateTaskCategory caps the optional category length.
func ValidateTaskCategory(category string) Result {
	var errs []string
	if utf8.RuneCountInString(category) > constants.TaskCategoryMaxLength {
		errs = append(errs, fmt.Sprintf("Category must not exceed %d characters", constants.TaskCategoryMaxLength))
	}
	return result(errs)
}

// ValidateCollaborators checks the collaborator cap, duplicate ids and the
// per-entry requirements: a positive user id and a non-blank username.
func ValidateCollaborators(collaborators []models.User) Result {
	var errs []string

	if len(collaborators) == 0 {
		return result(nil)
	}

	if len(collaborators) > constants.MaxCollaborators {
		errs = append(errs, fmt.Sprintf("A task cannot have more than %d collaborators", constants.MaxCollaborators))
	}

	seen := make(map[uint64]bool, len(collaborators))
	duplicate := false
	for _, c := range collaborators {
		if c.ID == 0 {
			continue
		}
		if seen[c.ID] {
			duplicate = true
		}
		seen[c.ID] = true
	}
	if duplicate {
		errs = append(errs, "Duplicate collaborators are not allowed")
	}

	for i, c := range collaborators {
		if c.ID == 0 {
			errs = append(errs, fmt.Sprintf("Collaborator %d must have a valid user ID", i+1))
		}
		if strings.TrimSpace(c.Username) == "" {
			errs = append(errs, fmt.Sprintf("Collaborator %d must have a valid username", i+1))
		}
	}

	return result(errs)
}

// validateName caps an optional first/last name.
func validateName(label, value string) []string {
	if utf8.RuneCountInString(value) > constants.NameMaxLength {
		return []string{fmt.Sprintf("%s must not exceed %d characters", label, constants.NameMaxLength)}
	}
	return nil
}
