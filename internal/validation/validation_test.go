package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskdeck/taskdeck/internal/models"
)

func pinNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		required bool
		valid    bool
		contains string
	}{
		{"valid simple", "alice", true, true, ""},
		{"valid with underscore and digits", "alice_42", true, true, ""},
		{"minimum length", "abc", true, true, ""},
		{"maximum length", strings.Repeat("a", 50), true, true, ""},
		{"empty required", "", true, false, "required"},
		{"blank required", "   ", true, false, "required"},
		{"empty optional", "", false, true, ""},
		{"too short", "ab", true, false, "too short"},
		{"too long", strings.Repeat("a", 51), true, false, "too long"},
		{"invalid characters", "bad name!", true, false, "invalid characters"},
		{"surrounding whitespace trimmed", "  alice  ", true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateUsername(tt.username, tt.required)
			assert.Equal(t, tt.valid, r.IsValid)
			if tt.contains != "" {
				assert.Contains(t, strings.Join(r.Errors, "; "), tt.contains)
			}
		})
	}
}

func TestValidateUsername_ReportsLengthAndCharsetTogether(t *testing.T) {
	r := ValidateUsername("a!", true)
	assert.False(t, r.IsValid)
	assert.Len(t, r.Errors, 2)
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		required bool
		valid    bool
	}{
		{"valid", "user@example.com", true, true},
		{"valid subdomain", "user@mail.example.co.jp", true, true},
		{"empty required", "", true, false},
		{"empty optional", "", false, true},
		{"missing at", "userexample.com", true, false},
		{"missing tld", "user@example", true, false},
		{"whitespace inside", "us er@example.com", true, false},
		{"too long", strings.Repeat("a", 95) + "@example.com", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEmail(tt.email, tt.required).IsValid)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
		contains string
	}{
		{"valid", "Secret1", true, ""},
		{"empty required", "", false, "required"},
		{"too short", "Ab1", false, "too short"},
		{"too long", "Ab1" + strings.Repeat("x", 100), false, "too long"},
		{"missing lowercase", "SECRET1", false, "lowercase letter"},
		{"missing uppercase", "secret1", false, "uppercase letter"},
		{"missing digit", "Secrets", false, "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidatePassword(tt.password, true)
			assert.Equal(t, tt.valid, r.IsValid)
			if tt.contains != "" {
				assert.Contains(t, strings.Join(r.Errors, "; "), tt.contains)
			}
		})
	}
}

func TestValidatePassword_ListsEveryMissingClass(t *testing.T) {
	r := ValidatePassword("!!!!!!", true)
	assert.False(t, r.IsValid)
	joined := strings.Join(r.Errors, "; ")
	assert.Contains(t, joined, "lowercase letter")
	assert.Contains(t, joined, "uppercase letter")
	assert.Contains(t, joined, "number")
}

func TestValidateRole(t *testing.T) {
	assert.True(t, ValidateRole("USER", false).IsValid)
	assert.True(t, ValidateRole("ADMIN", false).IsValid)
	assert.True(t, ValidateRole("", false).IsValid)
	assert.False(t, ValidateRole("", true).IsValid)
	assert.False(t, ValidateRole("ROOT", false).IsValid)
	assert.False(t, ValidateRole("admin", false).IsValid)
}

func TestValidateUserID(t *testing.T) {
	assert.True(t, ValidateUserID(1).IsValid)
	assert.True(t, ValidateUserID(uint64(42)).IsValid)
	assert.True(t, ValidateUserID("7").IsValid)
	assert.True(t, ValidateUserID(float64(3)).IsValid)

	assert.False(t, ValidateUserID(0).IsValid)
	assert.False(t, ValidateUserID(-5).IsValid)
	assert.False(t, ValidateUserID("").IsValid)
	assert.False(t, ValidateUserID("abc").IsValid)
	assert.False(t, ValidateUserID(nil).IsValid)
	assert.False(t, ValidateUserID(struct{}{}).IsValid)
}

func TestValidateTaskID(t *testing.T) {
	assert.True(t, ValidateTaskID("12").IsValid)
	assert.False(t, ValidateTaskID("-3").IsValid)
	assert.False(t, ValidateTaskID(map[string]any{}).IsValid)
}

func TestValidateTaskTitle(t *testing.T) {
	assert.True(t, ValidateTaskTitle("Buy milk").IsValid)
	assert.True(t, ValidateTaskTitle(strings.Repeat("a", 255)).IsValid)
	assert.False(t, ValidateTaskTitle("").IsValid)
	assert.False(t, ValidateTaskTitle("   ").IsValid)
	assert.False(t, ValidateTaskTitle(strings.Repeat("a", 256)).IsValid)
}

func TestValidateTaskDescription(t *testing.T) {
	assert.True(t, ValidateTaskDescription("").IsValid)
	assert.True(t, ValidateTaskDescription(strings.Repeat("a", 2000)).IsValid)
	assert.False(t, ValidateTaskDescription(strings.Repeat("a", 2001)).IsValid)
}

func TestValidateTaskDueDate(t *testing.T) {
	pinNow(t, time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local))

	assert.True(t, ValidateTaskDueDate(nil).IsValid)
	assert.True(t, ValidateTaskDueDate("").IsValid)

	// Same calendar day passes regardless of time of day.
	assert.True(t, ValidateTaskDueDate("2024-06-15").IsValid)
	assert.True(t, ValidateTaskDueDate(time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)).IsValid)
	assert.True(t, ValidateTaskDueDate("2024-06-16").IsValid)
	assert.True(t, ValidateTaskDueDate("2025-01-01").IsValid)

	past := ValidateTaskDueDate("2024-06-14")
	assert.False(t, past.IsValid)
	assert.Contains(t, past.Errors[0], "in the past")

	invalid := ValidateTaskDueDate("not-a-date")
	assert.False(t, invalid.IsValid)
	assert.Contains(t, invalid.Errors[0], "invalid")

	assert.False(t, ValidateTaskDueDate(12345).IsValid)
}

func TestValidateTaskStatusAndPriority(t *testing.T) {
	assert.True(t, ValidateTaskStatus("").IsValid)
	assert.True(t, ValidateTaskStatus("PENDING").IsValid)
	assert.True(t, ValidateTaskStatus("IN_PROGRESS").IsValid)
	assert.True(t, ValidateTaskStatus("COMPLETED").IsValid)
	assert.False(t, ValidateTaskStatus("DONE").IsValid)

	assert.True(t, ValidateTaskPriority("").IsValid)
	assert.True(t, ValidateTaskPriority("MEDIUM").IsValid)
	assert.False(t, ValidateTaskPriority("URGENT").IsValid)
}

func TestValidateTaskCategory(t *testing.T) {
	assert.True(t, ValidateTaskCategory("").IsValid)
	assert.True(t, ValidateTaskCategory(strings.Repeat("a", 100)).IsValid)
	assert.False(t, ValidateTaskCategory(strings.Repeat("a", 101)).IsValid)
}

func TestValidateCollaborators(t *testing.T) {
	t.Run("empty is valid", func(t *testing.T) {
		assert.True(t, ValidateCollaborators(nil).IsValid)
	})

	t.Run("distinct collaborators pass", func(t *testing.T) {
		r := ValidateCollaborators([]models.User{
			{ID: 1, Username: "alice"},
			{ID: 2, Username: "bob"},
		})
		assert.True(t, r.IsValid)
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		r := ValidateCollaborators([]models.User{
			{ID: 1, Username: "a"},
			{ID: 1, Username: "a"},
		})
		assert.False(t, r.IsValid)
		assert.Contains(t, strings.Join(r.Errors, "; "), "Duplicate collaborators")
	})

	t.Run("over the cap reports both errors", func(t *testing.T) {
		many := make([]models.User, 11)
		for i := range many {
			many[i] = models.User{ID: 1, Username: "x"}
		}
		r := ValidateCollaborators(many)
		assert.False(t, r.IsValid)
		joined := strings.Join(r.Errors, "; ")
		assert.Contains(t, joined, "more than 10 collaborators")
		assert.Contains(t, joined, "Duplicate collaborators")
	})

	t.Run("missing id and username reported per entry", func(t *testing.T) {
		r := ValidateCollaborators([]models.User{
			{ID: 0, Username: "ok"},
			{ID: 3, Username: "  "},
		})
		assert.False(t, r.IsValid)
		joined := strings.Join(r.Errors, "; ")
		assert.Contains(t, joined, "Collaborator 1 must have a valid user ID")
		assert.Contains(t, joined, "Collaborator 2 must have a valid username")
	})
}
