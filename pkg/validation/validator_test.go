package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Username string   `validate:"required,username"`
	Role     string   `validate:"omitempty,role"`
	Allowed  []string `validate:"omitempty,role_list"`
}

func TestUsernameRule(t *testing.T) {
	v := New()

	valid := []string{"alice", "bob_2", "first.last", "a-b-c", "abc"}
	for _, username := range valid {
		assert.NoError(t, v.Validate(registerForm{Username: username}), "username %q", username)
	}

	invalid := []string{"ab", "has space", "semi;colon", "way-too-long-username-over-32-characters", "тест"}
	for _, username := range invalid {
		assert.Error(t, v.Validate(registerForm{Username: username}), "username %q", username)
	}
}

func TestRoleRule(t *testing.T) {
	v := New()

	for _, role := range []string{"admin", "moderator", "customer"} {
		assert.NoError(t, v.Validate(registerForm{Username: "alice", Role: role}), "role %q", role)
	}

	assert.Error(t, v.Validate(registerForm{Username: "alice", Role: "superuser"}))
	assert.Error(t, v.Validate(registerForm{Username: "alice", Role: "Admin"}))
}

func TestRoleListRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(registerForm{Username: "alice", Allowed: []string{"customer", "moderator"}}))
	assert.Error(t, v.Validate(registerForm{Username: "alice", Allowed: []string{"customer", "root"}}))
}
