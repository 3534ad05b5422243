// Package policy gates which URLs may be forwarded for indexing.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the engine.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.index_policy.decision"),
		rego.Module("index_policy.rego", policyContent),
		rego.SetRegoVersion(ast.RegoV1),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// EvaluateURL checks whether a candidate URL may be indexed.
// Returns DecisionAllow or DecisionBlock.
func (e *Engine) EvaluateURL(ctx context.Context, url string) (string, error) {
	input := map[string]interface{}{"url": url}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result means the module
		// was misconfigured, so fail closed.
		return DecisionBlock, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionBlock, nil
}

// DefaultPolicy allows public http/https URLs and blocks everything else,
// including loopback targets.
const DefaultPolicy = `
package index_policy

default decision := "block"

decision := "allow" if {
	allowed_scheme
	not local_target
}

allowed_scheme if startswith(input.url, "https://")

allowed_scheme if startswith(input.url, "http://")

local_target if contains(input.url, "localhost")

local_target if contains(input.url, "127.0.0.1")

local_target if contains(input.url, "0.0.0.0")
`
