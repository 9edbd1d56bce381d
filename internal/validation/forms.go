package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taskdeck/taskdeck/internal/models"
)

// FieldErrors maps a form field to its error messages. An empty map means
// the form is valid.
type FieldErrors map[string][]string

// ValidateLoginForm checks the login screen inputs. The composition rules
// for passwords do not apply here, only presence and the length cap.
func ValidateLoginForm(username, password string) FieldErrors {
	errs := FieldErrors{}

	if r := ValidateUsername(username, true); !r.IsValid {
		errs["username"] = r.Errors
	}
	if pwErrs := validateLoginPassword(password); len(pwErrs) > 0 {
		errs["password"] = pwErrs
	}

	return errs
}

// RegistrationForm holds the new-account form fields.
type RegistrationForm struct {
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
}

// ValidateRegistrationForm checks a registration submission. Username,
// email and password are required; role and names are optional.
func ValidateRegistrationForm(form RegistrationForm) FieldErrors {
	errs := FieldErrors{}

	if r := ValidateUsername(form.Username, true); !r.IsValid {
		errs["username"] = r.Errors
	}
	if r := ValidateEmail(form.Email, true); !r.IsValid {
		errs["email"] = r.Errors
	}
	if r := ValidatePassword(form.Password, true); !r.IsValid {
		errs["password"] = r.Errors
	}
	if form.Role != "" {
		if r := ValidateRole(form.Role, false); !r.IsValid {
			errs["role"] = r.Errors
		}
	}
	if nameErrs := validateName("First name", form.FirstName); len(nameErrs) > 0 {
		errs["firstName"] = nameErrs
	}
	if nameErrs := validateName("Last name", form.LastName); len(nameErrs) > 0 {
		errs["lastName"] = nameErrs
	}

	return errs
}

// UserUpdateForm holds the admin user-edit form fields. ID accepts a
// string or number, matching what the form layer produces.
type UserUpdateForm struct {
	ID        any
	Username  string
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
}

// ValidateUserUpdateForm checks an admin user update. Only the id is
// required; every other field is validated when present.
func ValidateUserUpdateForm(form UserUpdateForm) FieldErrors {
	errs := FieldErrors{}

	if r := ValidateUserID(form.ID); !r.IsValid {
		errs["id"] = r.Errors
	}
	if form.Username != "" {
		if r := ValidateUsername(form.Username, false); !r.IsValid {
			errs["username"] = r.Errors
		}
	}
	if form.Email != "" {
		if r := ValidateEmail(form.Email, false); !r.IsValid {
			errs["email"] = r.Errors
		}
	}
	if form.Password != "" {
		if r := ValidatePassword(form.Password, false); !r.IsValid {
			errs["password"] = r.Errors
		}
	}
	if form.Role != "" {
		if r := ValidateRole(form.Role, false); !r.IsValid {
			errs["role"] = r.Errors
		}
	}
	if nameErrs := validateName("First name", form.FirstName); len(nameErrs) > 0 {
		errs["firstName"] = nameErrs
	}
	if nameErrs := validateName("Last name", form.LastName); len(nameErrs) > 0 {
		errs["lastName"] = nameErrs
	}

	return errs
}

// TaskForm holds the task create/edit form fields. DueDate accepts a
// time.Time or date string.
type TaskForm struct {
	Title         string
	Description   string
	DueDate       any
	Status        string
	Category      string
	Priority      string
	Collaborators []models.User
}

// ValidateTaskForm checks a task submission. The title is required; every
// other field is validated only when present.
func ValidateTaskForm(form TaskForm) FieldErrors {
	errs := FieldErrors{}

	if r := ValidateTaskTitle(form.Title); !r.IsValid {
		errs["title"] = r.Errors
	}
	if form.Description != "" {
		if r := ValidateTaskDescription(form.Description); !r.IsValid {
			errs["description"] = r.Errors
		}
	}
	if r := ValidateTaskDueDate(form.DueDate); !r.IsValid {
		errs["dueDate"] = r.Errors
	}
	if form.Status != "" {
		if r := ValidateTaskStatus(form.Status); !r.IsValid {
			errs["status"] = r.Errors
		}
	}
	if form.Category != "" {
		if r := ValidateTaskCategory(form.Category); !r.IsValid {
			errs["category"] = r.Errors
		}
	}
	if form.Priority != "" {
		if r := ValidateTaskPriority(form.Priority); !r.IsValid {
			errs["priority"] = r.Errors
		}
	}
	if len(form.Collaborators) > 0 {
		if r := ValidateCollaborators(form.Collaborators); !r.IsValid {
			errs["collaborators"] = r.Errors
		}
	}

	return errs
}

// HasErrors reports whether any field failed.
func HasErrors(errs FieldErrors) bool {
	return len(errs) > 0
}

// AllErrors flattens the per-field errors into one sequence. Fields are
// visited in sorted name order so the output is deterministic; within a
// field the check order is preserved.
func AllErrors(errs FieldErrors) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var all []string
	for _, field := range fields {
		all = append(all, errs[field]...)
	}
	return all
}

// FormatErrors joins every error into a single "; "-separated string.
func FormatErrors(errs FieldErrors) string {
	return strings.Join(AllErrors(errs), "; ")
}

// FormatErrorsWithContext prefixes each error with its field display name.
func FormatErrorsWithContext(errs FieldErrors) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		display := FieldDisplayName(field)
		for _, msg := range errs[field] {
			parts = append(parts, fmt.Sprintf("%s: %s", display, msg))
		}
	}
	return strings.Join(parts, "; ")
}

// Summary describes the overall validation outcome in one line.
func Summary(errs FieldErrors) string {
	errorCount := len(AllErrors(errs))
	fieldCount := len(errs)

	switch {
	case errorCount == 0:
		return "All fields are valid"
	case fieldCount == 1:
		var field string
		for f := range errs {
			field = f
		}
		plural := ""
		if errorCount > 1 {
			plural = "s"
		}
		return fmt.Sprintf("%s has %d error%s", FieldDisplayName(field), errorCount, plural)
	default:
		return fmt.Sprintf("%d fields have validation errors (%d total)", fieldCount, errorCount)
	}
}
