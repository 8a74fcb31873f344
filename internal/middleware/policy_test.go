package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolesOf(names ...string) func() ([]string, error) {
	return func() ([]string, error) { return names, nil }
}

func TestNewPolicyRequiresOwnerParam(t *testing.T) {
	assert.Panics(t, func() { NewPolicy(nil, true, "") })
	assert.NotPanics(t, func() { NewPolicy([]string{"admin"}, false, "") })

	p := NewPolicy([]string{" Admin ", ""}, false, "")
	assert.Equal(t, []string{"admin"}, p.Roles)
}

func TestPolicyEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		owner   string
		roles   []string
		granted bool
		outcome string
		message string
	}{
		{
			name:    "empty policy only needs authentication",
			policy:  Policy{},
			granted: true,
			outcome: OutcomeAuthenticated,
		},
		{
			name:    "owner bypasses roles",
			policy:  RolesOrOwner("user_id", "editor"),
			owner:   "u-1",
			granted: true,
			outcome: OutcomeOwner,
		},
		{
			name:    "role intersection grants",
			policy:  Roles("admin", "editor"),
			roles:   []string{"viewer", "EDITOR"},
			granted: true,
			outcome: OutcomeRole,
		},
		{
			name:    "no roles at all",
			policy:  Roles("admin"),
			roles:   nil,
			outcome: OutcomeNoRoles,
			message: "access denied: user has no roles assigned",
		},
		{
			name:    "wrong roles",
			policy:  Roles("admin", "editor"),
			roles:   []string{"viewer"},
			outcome: OutcomeDenied,
			message: "access denied, requires: one of roles: admin, editor",
		},
		{
			name:    "wrong roles and not owner",
			policy:  RolesOrOwner("user_id", "admin"),
			owner:   "someone-else",
			roles:   []string{"viewer"},
			outcome: OutcomeDenied,
			message: "access denied, requires: one of roles: admin or resource ownership",
		},
		{
			name:    "owner only and not owner",
			policy:  OwnerOnly("user_id"),
			owner:   "someone-else",
			outcome: OutcomeDenied,
			message: "access denied, requires: resource ownership",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := tt.policy.Evaluate("u-1", tt.owner, rolesOf(tt.roles...))
			require.NoError(t, err)
			assert.Equal(t, tt.granted, decision.Granted)
			assert.Equal(t, tt.outcome, decision.Outcome)
			assert.Equal(t, tt.message, decision.Message)
		})
	}
}

func TestPolicyEvaluateSkipsRoleLookupForOwner(t *testing.T) {
	called := false
	decision, err := RolesOrOwner("user_id", "admin").Evaluate("u-1", "u-1", func() ([]string, error) {
		called = true
		return nil, nil
	})

	require.NoError(t, err)
	assert.True(t, decision.Granted)
	assert.False(t, called)
}

func TestPolicyEvaluatePropagatesLookupError(t *testing.T) {
	_, err := Roles("admin").Evaluate("u-1", "", func() ([]string, error) {
		return nil, errors.New("db down")
	})
	assert.ErrorContains(t, err, "db down")
}
