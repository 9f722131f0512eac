package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterData() RegisterData {
	return RegisterData{
		Name:            "Jane Doe",
		Username:        "jane",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}
}

func TestRegisterData_Validate(t *testing.T) {
	assert.Empty(t, validRegisterData().Validate())
}

func TestRegisterData_Validate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterData)
		field  string
	}{
		{"empty name", func(d *RegisterData) { d.Name = "" }, "name"},
		{"non-ascii name", func(d *RegisterData) { d.Name = "Žane" }, "name"},
		{"control character in name", func(d *RegisterData) { d.Name = "Jane\tDoe" }, "name"},
		{"short username", func(d *RegisterData) { d.Username = "jd" }, "username"},
		{"username with symbols", func(d *RegisterData) { d.Username = "jane-doe" }, "username"},
		{"short password", func(d *RegisterData) {
			d.Password = "short"
			d.ConfirmPassword = "short"
		}, "password"},
		{"password mismatch", func(d *RegisterData) { d.ConfirmPassword = "different1" }, "confirmPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validRegisterData()
			tt.mutate(&data)

			violations := data.Validate()
			require.Len(t, violations, 1)
			assert.Equal(t, tt.field, violations[0].Field)
		})
	}
}

func TestRegisterData_Validate_CollectsEverything(t *testing.T) {
	data := RegisterData{
		Name:            "",
		Username:        "x",
		Password:        "short",
		ConfirmPassword: "other",
	}
	violations := data.Validate()
	assert.Len(t, violations, 4)
}

func TestReasons(t *testing.T) {
	violations := []Violation{
		{Field: "username", Reason: "username must be alphanumeric and at least 3 characters"},
		{Field: "password", Reason: "password must be at least 8 characters"},
	}
	assert.Equal(t,
		"username must be alphanumeric and at least 3 characters; password must be at least 8 characters",
		Reasons(violations))
}
