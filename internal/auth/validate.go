package auth

import (
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)

// RegisterData carries the registration form fields.
type RegisterData struct {
	Name            string `form:"name"`
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

// Violation is a single validation failure with a human-readable reason.
type Violation struct {
	Field  string
	Reason string
}

// Validate checks the registration rules and returns every violation found.
// An empty slice means the data is acceptable.
func (d RegisterData) Validate() []Violation {
	var violations []Violation

	if !isPrintableASCII(d.Name) {
		violations = append(violations, Violation{
			Field:  "name",
			Reason: "name must contain only printable ASCII characters",
		})
	}
	if !usernamePattern.MatchString(d.Username) {
		violations = append(violations, Violation{
			Field:  "username",
			Reason: "username must be alphanumeric and at least 3 characters",
		})
	}
	if len(d.Password) < 8 {
		violations = append(violations, Violation{
			Field:  "password",
			Reason: "password must be at least 8 characters",
		})
	}
	if d.Password != d.ConfirmPassword {
		violations = append(violations, Violation{
			Field:  "confirmPassword",
			Reason: "passwords do not match",
		})
	}

	return violations
}

// Reasons joins the violation reasons into one message for the redirect flow.
func Reasons(violations []Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Reason)
	}
	return strings.Join(parts, "; ")
}

func isPrintableASCII(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return false
		}
	}
	return true
}
