//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package conclusion provides evaluators for final verdicts and conditional
// reasoning rules.
package conclusion

import (
	"fmt"
	"strings"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/internal/extract"
	"github.com/agentbench/grader/question"
)

// DefaultPath is the structured field the conclusion is read from when no
// path is configured.
const DefaultPath = "conclusion"

// Checker verifies the answer's final verdict, either against a single
// expected value or against a closed set of allowed values.
type Checker struct {
	// ExactMatch is the expected verdict. Mutually exclusive with OneOf.
	ExactMatch string
	// OneOf lists the allowed verdicts.
	OneOf []string
	// Path is the structured field to read the verdict from.
	Path string
	// CaseSensitive disables case folding during comparison.
	CaseSensitive bool
	// PartialMatch accepts the expected value as a substring of the
	// extracted conclusion.
	PartialMatch bool
}

// NewChecker creates a conclusion checker from a validation rule.
func NewChecker(rule question.ValidationRule) *Checker {
	return &Checker{
		ExactMatch: rule.ConclusionExactMatch,
		OneOf:      rule.ConclusionMustBeOneOf,
		Path:       DefaultPath,
	}
}

// Name returns the rule type tag of this evaluator.
func (c *Checker) Name() string {
	return string(question.CheckConclusion)
}

// Evaluate extracts the answer's conclusion and compares it to the expected
// verdict. The comparison normalizes case and surrounding whitespace.
func (c *Checker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	conclusion, source := c.extract(in)
	details := map[string]any{
		"extracted": conclusion,
		"source":    source,
	}
	if conclusion == "" {
		return &evaluator.ValidationResult{
			RuleType: c.Name(),
			Passed:   false,
			Score:    0,
			MaxScore: 100,
			Message:  "could not extract a conclusion from the answer",
			Details:  details,
		}
	}

	normalized := c.normalize(conclusion)
	passed := false
	var message string
	switch {
	case c.ExactMatch != "":
		details["expected"] = c.ExactMatch
		passed = c.matches(normalized, c.ExactMatch)
		if passed {
			message = "conclusion matches expected value"
		} else {
			message = fmt.Sprintf("conclusion %q does not match expected %q", conclusion, c.ExactMatch)
		}
	case len(c.OneOf) > 0:
		details["allowed"] = c.OneOf
		for _, allowed := range c.OneOf {
			if c.matches(normalized, allowed) {
				passed = true
				break
			}
		}
		if passed {
			message = "conclusion is one of the allowed values"
		} else {
			message = fmt.Sprintf("conclusion %q is not among the allowed values", conclusion)
		}
	default:
		message = "no conclusion rule configured"
	}

	score := 0.0
	if passed {
		score = 100
	}
	return &evaluator.ValidationResult{
		RuleType: c.Name(),
		Passed:   passed,
		Score:    score,
		MaxScore: 100,
		Message:  message,
		Details:  details,
	}
}

// extract reads the conclusion from structured output first, then falls back
// to pattern scanning over the raw text.
func (c *Checker) extract(in *evaluator.Input) (conclusion, source string) {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	data := in.Parsed
	if data == nil {
		data, _, _ = extract.RecoverJSON(in.Text)
	}
	if data != nil {
		if value, ok := extract.Lookup(data, path); ok {
			if s, ok := value.(string); ok && s != "" {
				return s, "structured"
			}
		}
	}
	if s, ok := extract.ConclusionFromText(in.Text); ok {
		return s, "text"
	}
	return "", ""
}

// matches compares an already-normalized extracted conclusion to one
// expected value.
func (c *Checker) matches(extracted, expected string) bool {
	want := c.normalize(expected)
	if c.PartialMatch {
		return strings.Contains(extracted, want)
	}
	return extracted == want
}

func (c *Checker) normalize(s string) string {
	s = strings.TrimSpace(s)
	if c.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// LogicRuleEngine evaluates conditional reasoning rules of the form
// "if all conditions appear, the consequence must appear too". A rule whose
// conditions are not all present is not applicable and does not count.
type LogicRuleEngine struct {
	// Rules lists the conditional rules to check.
	Rules []question.LogicRule
}

// NewLogicRuleEngine creates a logic rule engine from a validation rule.
func NewLogicRuleEngine(rule question.ValidationRule) *LogicRuleEngine {
	return &LogicRuleEngine{Rules: rule.LogicRules}
}

// Name returns the rule type tag of this evaluator.
func (e *LogicRuleEngine) Name() string {
	return string(question.CheckLogic)
}

// Evaluate scores the fraction of applicable rules whose consequence holds.
// When no rule is applicable the check passes vacuously with full score.
func (e *LogicRuleEngine) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	text := strings.ToLower(in.Text)
	applicable := 0
	passed := 0
	ruleResults := make([]map[string]any, 0, len(e.Rules))
	for _, rule := range e.Rules {
		triggered := true
		for _, condition := range rule.If {
			if !strings.Contains(text, strings.ToLower(condition)) {
				triggered = false
				break
			}
		}
		entry := map[string]any{
			"if":         rule.If,
			"then":       rule.Then,
			"applicable": triggered,
		}
		if triggered {
			applicable++
			satisfied := strings.Contains(text, strings.ToLower(rule.Then))
			entry["satisfied"] = satisfied
			if satisfied {
				passed++
			}
		}
		ruleResults = append(ruleResults, entry)
	}

	score := 100.0
	allPassed := true
	message := "no logic rules applicable"
	if applicable > 0 {
		score = float64(passed) / float64(applicable) * 100
		allPassed = passed == applicable
		message = fmt.Sprintf("logic rules: %d/%d applicable rules satisfied", passed, applicable)
	}
	return &evaluator.ValidationResult{
		RuleType: e.Name(),
		Passed:   allPassed,
		Score:    score,
		MaxScore: 100,
		Message:  message,
		Details: map[string]any{
			"rules":      ruleResults,
			"applicable": applicable,
			"satisfied":  passed,
		},
	}
}
