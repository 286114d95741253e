package guard

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/identity/domain"
)

const policyQuery = "data.bloodbank.route_guard.allow"

// DefaultPolicy is the Rego form of Decide.
const DefaultPolicy = `package bloodbank.route_guard

default allow := false

allow if {
	input.identity.is_admin == true
}
`

// PolicyGuard evaluates the admin rule as a Rego policy. Any evaluation failure falls back to
// Decide, so a broken policy never widens access beyond the built-in rule.
type PolicyGuard struct {
	query  rego.PreparedEvalQuery
	logger *zap.Logger
}

// NewPolicyGuard compiles module, or DefaultPolicy when module is empty. The module must define
// data.bloodbank.route_guard.allow.
func NewPolicyGuard(ctx context.Context, module string, logger *zap.Logger) (*PolicyGuard, error) {
	if module == "" {
		module = DefaultPolicy
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	compiler, err := ast.CompileModules(map[string]string{"route_guard.rego": module})
	if err != nil {
		return nil, fmt.Errorf("guard: compile policy: %w", err)
	}
	q, err := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("guard: prepare policy: %w", err)
	}
	return &PolicyGuard{query: q, logger: logger}, nil
}

// LoadPolicyGuard reads the module from path. An empty path uses DefaultPolicy.
func LoadPolicyGuard(ctx context.Context, path string, logger *zap.Logger) (*PolicyGuard, error) {
	if path == "" {
		return NewPolicyGuard(ctx, "", logger)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("guard: read policy: %w", err)
	}
	return NewPolicyGuard(ctx, string(raw), logger)
}

// Decide evaluates the policy for id. A nil identity is denied without evaluation.
func (g *PolicyGuard) Decide(ctx context.Context, id *domain.Identity) Decision {
	if id == nil {
		return Decide(nil)
	}
	allowed, err := g.eval(ctx, id)
	if err != nil {
		g.logger.Warn("guard: policy evaluation failed, using built-in rule", zap.Error(err))
		return Decide(id)
	}
	if allowed {
		return Decision{Allowed: true}
	}
	return Decision{RedirectTo: LoginPath}
}

func (g *PolicyGuard) eval(ctx context.Context, id *domain.Identity) (bool, error) {
	input := map[string]any{
		"identity": map[string]any{
			"id":       id.ID,
			"email":    id.Email,
			"is_admin": id.IsAdmin,
			"provider": string(id.Provider),
		},
	}
	rs, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, err
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("policy query returned no result")
	}
	allowed, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("policy result is %T, want bool", rs[0].Expressions[0].Value)
	}
	return allowed, nil
}

// HealthCheck evaluates the policy once for a synthetic admin.
func (g *PolicyGuard) HealthCheck(ctx context.Context) error {
	_, err := g.eval(ctx, &domain.Identity{ID: "healthcheck", IsAdmin: true})
	return err
}
