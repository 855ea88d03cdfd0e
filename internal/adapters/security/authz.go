package security

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/jsamuelsen/foodgram/internal/ports"
)

//go:embed model.conf
var policyModel string

//go:embed policy.csv
var policyRules string

// PolicyAuthorizer evaluates the embedded RBAC policy with casbin.
type PolicyAuthorizer struct {
	enforcer *casbin.SyncedEnforcer
}

var _ ports.Authorizer = (*PolicyAuthorizer)(nil)

// NewPolicyAuthorizer loads the embedded model and policy.
func NewPolicyAuthorizer() (*PolicyAuthorizer, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("loading access model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("creating enforcer: %w", err)
	}

	if err := loadPolicy(enforcer, policyRules); err != nil {
		return nil, err
	}

	return &PolicyAuthorizer{enforcer: enforcer}, nil
}

// Allowed reports whether role may perform action on object.
func (a *PolicyAuthorizer) Allowed(role ports.Role, object, action string) (bool, error) {
	ok, err := a.enforcer.Enforce(string(role), object, action)
	if err != nil {
		return false, fmt.Errorf("enforcing %s %s %s: %w", role, object, action, err)
	}

	return ok, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, rules string) error {
	for _, line := range strings.Split(rules, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var err error
		switch {
		case parts[0] == "p" && len(parts) == 4:
			_, err = enforcer.AddPolicy(parts[1], parts[2], parts[3])
		case parts[0] == "g" && len(parts) == 3:
			_, err = enforcer.AddGroupingPolicy(parts[1], parts[2])
		default:
			err = fmt.Errorf("malformed rule %q", line)
		}
		if err != nil {
			return fmt.Errorf("loading policy: %w", err)
		}
	}

	return nil
}
