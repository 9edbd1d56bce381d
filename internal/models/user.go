package models

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// UserRoles lists every role in declaration order.
var UserRoles = []UserRole{RoleUser, RoleAdmin}

// Valid reports whether r is one of the known role values.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the canonical in-memory user. The backend is inconsistent about
// field names and boolean encodings; the normalize package maps every
// variant into this shape.
type User struct {
	ID        uint64   `json:"id,omitempty"`
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Role      UserRole `json:"role"`
	IsActive  bool     `json:"isActive"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
}

// Persisted reports whether the user carries a server-assigned id.
func (u User) Persisted() bool {
	return u.ID > 0
}
