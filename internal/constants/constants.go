package constants

// Field length limits shared by the validation layer and the form shells.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 50

	EmailMaxLength = 100

	PasswordMinLength = 6
	PasswordMaxLength = 100

	TaskTitleMaxLength       = 255
	TaskDescriptionMaxLength = 2000
	TaskCategoryMaxLength    = 100

	NameMaxLength = 50

	MaxCollaborators = 10
)

// Pagination bounds for list responses.
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Session keys used by the web shell.
const (
	SessionCookieName  = "taskdeck_session"
	SessionKeyToken    = "remote_token"
	SessionKeyUsername = "username"
)

// LocalDateLayout is the calendar-date format the backend expects for
// dueDate fields in outgoing requests.
const LocalDateLayout = "2006-01-02"
