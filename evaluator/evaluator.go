//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package evaluator defines the contract for pluggable grading rules.
// Concrete evaluators live in subpackages.
package evaluator

import "github.com/agentbench/grader/adapter"

// Input carries one agent answer into an evaluator.
type Input struct {
	// Text is the raw agent output.
	Text string
	// Parsed is the structured output recovered from Text, when any.
	Parsed map[string]any
	// ToolCalls lists the tool invocations reported by the adapter.
	ToolCalls []adapter.ToolCall
}

// ValidationResult is the atomic grading verdict from one evaluator.
// It is immutable once produced. Scores are evaluator-local, conventionally 0-100.
type ValidationResult struct {
	// RuleType identifies which evaluator produced the result.
	RuleType string `json:"ruleType"`
	// Passed reports whether the check passed.
	Passed bool `json:"passed"`
	// Score is the points obtained on this check.
	Score float64 `json:"score"`
	// MaxScore is the maximum points of this check.
	MaxScore float64 `json:"maxScore"`
	// Message is a human-readable verdict.
	Message string `json:"message,omitempty"`
	// Details holds structured diagnostics, e.g. missing keywords.
	Details map[string]any `json:"details,omitempty"`
}

// Evaluator grades one validation strategy against an agent answer.
// Implementations must be pure functions of the input plus their own
// configuration so that the same (question, answer) pair always grades
// identically; this is what makes regression runs reproducible.
type Evaluator interface {
	// Name returns the rule type tag stamped on produced results.
	Name() string
	// Evaluate grades the answer and returns the verdict.
	Evaluate(in *Input) *ValidationResult
}
