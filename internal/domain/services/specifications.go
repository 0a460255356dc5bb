package services

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/auditpack/internal/domain/entities"
)

// RuleEnv defines the variables available during filter expression evaluation.
type RuleEnv struct {
	ID       string  `expr:"id"`
	Title    string  `expr:"title"`
	Desc     string  `expr:"desc"`
	Impact   float64 `expr:"impact"`
	Severity string  `expr:"severity"`
	Group    string  `expr:"group"`
}

// RuleSpecification decides whether a rule summary belongs in a view.
type RuleSpecification interface {
	IsSatisfiedBy(group string, rule entities.RuleSummary) (bool, error)
}

// ExpressionSpecification filters rule summaries using an expr program.
type ExpressionSpecification struct {
	program *vm.Program
}

// CompileRuleFilter compiles a boolean filter expression against RuleEnv.
func CompileRuleFilter(expression string) (*ExpressionSpecification, error) {
	program, err := expr.Compile(expression, expr.Env(RuleEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &ExpressionSpecification{program: program}, nil
}

// IsSatisfiedBy evaluates the expr program against the rule summary.
func (s *ExpressionSpecification) IsSatisfiedBy(group string, rule entities.RuleSummary) (bool, error) {
	if s == nil || s.program == nil {
		return true, nil
	}

	env := RuleEnv{
		ID:       rule.ID,
		Title:    rule.Title,
		Desc:     rule.Description,
		Impact:   rule.Impact,
		Severity: rule.Severity,
		Group:    group,
	}

	output, err := expr.Run(s.program, env)
	if err != nil {
		return false, fmt.Errorf("filter expression error on %s: %w", rule.ID, err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression did not return boolean: %v", output)
	}
	return result, nil
}
