package validation

// Context tells ValidateField which form the field belongs to, which
// changes the required flag for username, email and password.
type Context string

const (
	ContextLogin      Context = "login"
	ContextRegister   Context = "register"
	ContextUserUpdate Context = "userUpdate"
	ContextTask       Context = "task"
)

// ValidateField runs the single-field check for real-time form feedback.
// Unknown field names validate clean. Values of an unexpected type produce
// an "invalid" error for that field rather than a panic, so batch
// validation of the rest of the form keeps working.
func ValidateField(name string, value any, ctx Context) []string {
	required := ctx != ContextUserUpdate

	switch name {
	case "username":
		s, ok := asString(value)
		if !ok {
			return []string{"Username is invalid"}
		}
		return ValidateUsername(s, required).Errors
	case "email":
		s, ok := asString(value)
		if !ok {
			return []string{"Email is invalid"}
		}
		return ValidateEmail(s, required).Errors
	case "password":
		s, ok := asString(value)
		if !ok {
			return []string{"Password is invalid"}
		}
		if ctx == ContextLogin {
			return validateLoginPassword(s)
		}
		return ValidatePassword(s, required).Errors
	case "role":
		s, ok := asString(value)
		if !ok {
			return []string{"Role is invalid"}
		}
		return ValidateRole(s, false).Errors
	case "title":
		s, ok := asString(value)
		if !ok {
			return []string{"Task title is invalid"}
		}
		return ValidateTaskTitle(s).Errors
	case "description":
		s, ok := asString(value)
		if !ok {
			return []string{"Description is invalid"}
		}
		return ValidateTaskDescription(s).Errors
	case "dueDate":
		return ValidateTaskDueDate(value).Errors
	case "status":
		s, ok := asString(value)
		if !ok {
			return []string{"Status is invalid"}
		}
		return ValidateTaskStatus(s).Errors
	case "category":
		s, ok := asString(value)
		if !ok {
			return []string{"Category is invalid"}
		}
		return ValidateTaskCategory(s).Errors
	case "priority":
		s, ok := asString(value)
		if !ok {
			return []string{"Priority is invalid"}
		}
		return ValidateTaskPriority(s).Errors
	default:
		return nil
	}
}

func asString(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	default:
		return "", false
	}
}

var fieldDisplayNames = map[string]string{
	"username":      "Username",
	"email":         "Email",
	"password":      "Password",
	"role":          "Role",
	"firstName":     "First Name",
	"lastName":      "Last Name",
	"id":            "ID",
	"title":         "Task Title",
	"description":   "Description",
	"dueDate":       "Due Date",
	"status":        "Status",
	"category":      "Category",
	"priority":      "Priority",
	"tags":          "Tags",
	"collaborators": "Collaborators",
}

// FieldDisplayName returns the user-facing label for a form field name.
func FieldDisplayName(name string) string {
	if display, ok := fieldDisplayNames[name]; ok {
		return display
	}
	return name
}
