//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package toolcall provides an evaluator for agent tool usage: required
// tools, invocation order and call arguments.
package toolcall

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/agentbench/grader/adapter"
	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/internal/extract"
	"github.com/agentbench/grader/question"
)

// Scoring tunables. Scoring starts at 100 and debits per violation; the
// final score never goes below zero.
const (
	// MissingToolPenalty is deducted for each required tool never called.
	MissingToolPenalty = 25.0
	// SequencePenalty is deducted once when a strict expected sequence is
	// not matched.
	SequencePenalty = 30.0
	// ParamPenalty is deducted for each failed parameter check.
	ParamPenalty = 10.0
	// PassThreshold is the minimum score required to pass. A missing
	// required tool fails the check regardless of score.
	PassThreshold = 60.0
)

// Checker verifies that the agent called the required tools, optionally in a
// strict order, with expected argument values.
type Checker struct {
	// RequiredTools lists tools that must be called at least once.
	RequiredTools []string
	// Sequence is the expected order of tool invocations.
	Sequence []string
	// Strict requires the actual invocation names to equal Sequence exactly.
	Strict bool
	// ParamChecks lists expected argument values on individual calls.
	ParamChecks []question.ParamCheck
}

// NewChecker creates a tool call checker from a validation rule.
func NewChecker(rule question.ValidationRule) *Checker {
	return &Checker{
		RequiredTools: rule.RequiredTools,
		Sequence:      rule.ToolSequence,
		Strict:        rule.ToolSequenceStrict,
		ParamChecks:   rule.ParamChecks,
	}
}

// Name returns the rule type tag of this evaluator.
func (c *Checker) Name() string {
	return string(question.CheckToolCall)
}

// Evaluate scores the answer's tool usage. Scoring starts at 100, debits
// MissingToolPenalty per missing required tool, SequencePenalty when a strict
// sequence is violated and ParamPenalty per failed parameter check, then
// floors the result at zero.
func (c *Checker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	calls := c.resolveCalls(in)
	callNames := make([]string, 0, len(calls))
	for _, call := range calls {
		callNames = append(callNames, call.Name)
	}

	score := 100.0
	var failures *multierror.Error

	missing := make([]string, 0)
	for _, required := range c.RequiredTools {
		if !containsName(calls, required) {
			missing = append(missing, required)
			score -= MissingToolPenalty
			failures = multierror.Append(failures,
				fmt.Errorf("required tool %q was not called", required))
		}
	}

	sequenceOK := true
	if c.Strict && len(c.Sequence) > 0 {
		sequenceOK = sequencesEqual(c.Sequence, callNames)
		if !sequenceOK {
			score -= SequencePenalty
			failures = multierror.Append(failures,
				fmt.Errorf("tool calls do not follow the expected sequence %v", c.Sequence))
		}
	}

	paramFailures := make([]string, 0)
	for _, check := range c.ParamChecks {
		if !paramSatisfied(calls, check) {
			desc := fmt.Sprintf("%s.%s != %v", check.Tool, check.Param, check.Expected)
			paramFailures = append(paramFailures, desc)
			score -= ParamPenalty
			failures = multierror.Append(failures,
				fmt.Errorf("parameter check failed: %s", desc))
		}
	}

	if score < 0 {
		score = 0
	}
	passed := score >= PassThreshold && len(missing) == 0

	message := "tool call checks passed"
	if err := failures.ErrorOrNil(); err != nil {
		message = err.Error()
	}
	return &evaluator.ValidationResult{
		RuleType: c.Name(),
		Passed:   passed,
		Score:    score,
		MaxScore: 100,
		Message:  message,
		Details: map[string]any{
			"calledTools":   callNames,
			"missingTools":  missing,
			"sequenceOK":    sequenceOK,
			"paramFailures": paramFailures,
		},
	}
}

// resolveCalls returns the recorded tool calls, falling back to calls
// recovered from the structured output when the transcript carries none.
func (c *Checker) resolveCalls(in *evaluator.Input) []adapter.ToolCall {
	if len(in.ToolCalls) > 0 {
		return in.ToolCalls
	}
	data := in.Parsed
	if data == nil {
		data, _, _ = extract.RecoverJSON(in.Text)
	}
	if data == nil {
		return nil
	}
	for _, key := range []string{"toolCalls", "tool_calls"} {
		raw, ok := data[key].([]any)
		if !ok {
			continue
		}
		calls := make([]adapter.ToolCall, 0, len(raw))
		for _, item := range raw {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name, _ := entry["name"].(string)
			if name == "" {
				continue
			}
			call := adapter.ToolCall{Name: name}
			if args, ok := entry["arguments"].(map[string]any); ok {
				call.Arguments = args
			}
			calls = append(calls, call)
		}
		return calls
	}
	return nil
}

func containsName(calls []adapter.ToolCall, name string) bool {
	for _, call := range calls {
		if call.Name == name {
			return true
		}
	}
	return false
}

// sequencesEqual reports whether got matches want element for element; any
// extra, missing or reordered call breaks the sequence.
func sequencesEqual(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// paramSatisfied reports whether any call to the checked tool carries the
// expected argument value. Numeric values compare by magnitude so JSON
// decoding differences do not matter.
func paramSatisfied(calls []adapter.ToolCall, check question.ParamCheck) bool {
	for _, call := range calls {
		if call.Name != check.Tool {
			continue
		}
		actual, ok := call.Arguments[check.Param]
		if !ok {
			continue
		}
		if valuesEqual(actual, check.Expected) {
			return true
		}
	}
	return false
}

func valuesEqual(actual, expected any) bool {
	if a, ok := extract.Number(actual); ok {
		if e, ok := extract.Number(expected); ok {
			return a == e
		}
	}
	return fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected)
}
