package middleware

import (
	"fmt"
	"strings"
)

// Decision outcomes, also used as metric labels.
const (
	OutcomeAuthenticated = "granted_authenticated"
	OutcomeOwner         = "granted_owner"
	OutcomeRole          = "granted_role"
	OutcomeNoRoles       = "denied_no_roles"
	OutcomeDenied        = "denied"
)

// Policy grants access to the resource owner or to any holder of one of
// Roles. A policy with neither only requires authentication.
type Policy struct {
	Roles      []string
	AllowOwner bool
	OwnerParam string
}

// NewPolicy panics when ownership is allowed without naming the URL
// parameter that carries the owner id.
func NewPolicy(roles []string, allowOwner bool, ownerParam string) Policy {
	if allowOwner && strings.TrimSpace(ownerParam) == "" {
		panic("middleware: owner parameter is required when ownership is allowed")
	}

	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			normalized = append(normalized, role)
		}
	}

	return Policy{Roles: normalized, AllowOwner: allowOwner, OwnerParam: ownerParam}
}

func Roles(roles ...string) Policy {
	return NewPolicy(roles, false, "")
}

func RolesOrOwner(ownerParam string, roles ...string) Policy {
	return NewPolicy(roles, true, ownerParam)
}

func OwnerOnly(ownerParam string) Policy {
	return NewPolicy(nil, true, ownerParam)
}

type Decision struct {
	Granted bool
	Outcome string
	Message string
}

// Evaluate runs the ownership check and then the role check. loadRoles is
// only called when the ownership check did not already grant access.
func (p Policy) Evaluate(subjectID string, ownerValue string, loadRoles func() ([]string, error)) (Decision, error) {
	if p.AllowOwner && ownerValue != "" && ownerValue == subjectID {
		return Decision{Granted: true, Outcome: OutcomeOwner}, nil
	}

	if len(p.Roles) == 0 && !p.AllowOwner {
		return Decision{Granted: true, Outcome: OutcomeAuthenticated}, nil
	}

	if len(p.Roles) > 0 {
		held, err := loadRoles()
		if err != nil {
			return Decision{}, fmt.Errorf("load roles: %w", err)
		}

		if len(held) == 0 {
			return Decision{Outcome: OutcomeNoRoles, Message: "access denied: user has no roles assigned"}, nil
		}

		for _, role := range held {
			for _, required := range p.Roles {
				if strings.EqualFold(role, required) {
					return Decision{Granted: true, Outcome: OutcomeRole}, nil
				}
			}
		}
	}

	return Decision{Outcome: OutcomeDenied, Message: p.denialMessage()}, nil
}

func (p Policy) denialMessage() string {
	requirements := make([]string, 0, 2)
	if len(p.Roles) > 0 {
		requirements = append(requirements, "one of roles: "+strings.Join(p.Roles, ", "))
	}
	if p.AllowOwner {
		requirements = append(requirements, "resource ownership")
	}
	return "access denied, requires: " + strings.Join(requirements, " or ")
}
