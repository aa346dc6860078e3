//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentbench/grader/adapter"
	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/question"
)

func TestCheckerAllRequirementsMet(t *testing.T) {
	checker := NewChecker(question.ValidationRule{
		RequiredTools:      []string{"rate_lookup", "premium_calc"},
		ToolSequence:       []string{"rate_lookup", "premium_calc"},
		ToolSequenceStrict: true,
		ParamChecks: []question.ParamCheck{
			{Tool: "premium_calc", Param: "age", Expected: 35},
		},
	})
	got := checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "rate_lookup", Arguments: map[string]any{"product": "term-life"}},
		{Name: "premium_calc", Arguments: map[string]any{"age": 35.0}},
	}})
	assert.True(t, got.Passed)
	assert.Equal(t, 100.0, got.Score)
}

func TestCheckerMissingToolFailsRegardlessOfScore(t *testing.T) {
	checker := &Checker{RequiredTools: []string{"rate_lookup", "premium_calc"}}
	got := checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "rate_lookup"},
	}})
	assert.False(t, got.Passed)
	assert.Equal(t, 100.0-MissingToolPenalty, got.Score)
	assert.Equal(t, []string{"premium_calc"}, got.Details["missingTools"])
}

func TestCheckerScoreFloorsAtZero(t *testing.T) {
	checker := &Checker{RequiredTools: []string{"a", "b", "c", "d", "e"}}
	got := checker.Evaluate(&evaluator.Input{})
	assert.False(t, got.Passed)
	assert.Equal(t, 0.0, got.Score, "five missing tools debit 125 but the floor is 0")
}

func TestCheckerStrictSequence(t *testing.T) {
	checker := &Checker{
		Sequence: []string{"rate_lookup", "premium_calc"},
		Strict:   true,
	}
	got := checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "premium_calc"},
		{Name: "rate_lookup"},
	}})
	assert.True(t, got.Passed, "70 clears the pass threshold with no missing tools")
	assert.Equal(t, 100.0-SequencePenalty, got.Score)
	assert.Equal(t, false, got.Details["sequenceOK"])

	// An extra call interleaved into the expected order still breaks a
	// strict sequence: the observed names must equal the sequence exactly.
	got = checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "rate_lookup"},
		{Name: "audit_log"},
		{Name: "premium_calc"},
	}})
	assert.Equal(t, 100.0-SequencePenalty, got.Score)
	assert.Equal(t, false, got.Details["sequenceOK"])

	got = checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "rate_lookup"},
		{Name: "premium_calc"},
	}})
	assert.True(t, got.Passed)
	assert.Equal(t, 100.0, got.Score)
}

func TestCheckerParamPenalty(t *testing.T) {
	checker := &Checker{ParamChecks: []question.ParamCheck{
		{Tool: "premium_calc", Param: "age", Expected: 35},
		{Tool: "premium_calc", Param: "smoker", Expected: true},
	}}
	got := checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "premium_calc", Arguments: map[string]any{"age": 35.0, "smoker": false}},
	}})
	assert.True(t, got.Passed, "a single param failure stays above the threshold")
	assert.Equal(t, 100.0-ParamPenalty, got.Score)
	assert.Equal(t, []string{"premium_calc.smoker != true"}, got.Details["paramFailures"])
}

func TestCheckerNamesCompareExactly(t *testing.T) {
	checker := &Checker{RequiredTools: []string{"rate_lookup"}}
	got := checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "Rate_Lookup"},
	}})
	assert.False(t, got.Passed)
	assert.Equal(t, []string{"rate_lookup"}, got.Details["missingTools"])
}

func TestCheckerRecoversCallsFromOutput(t *testing.T) {
	checker := &Checker{RequiredTools: []string{"rate_lookup"}}
	got := checker.Evaluate(&evaluator.Input{
		Text: `{"tool_calls": [{"name": "rate_lookup", "arguments": {"product": "term"}}]}`,
	})
	assert.True(t, got.Passed)
	assert.Equal(t, []string{"rate_lookup"}, got.Details["calledTools"])
}

func TestCheckerPassThreshold(t *testing.T) {
	// Four failed param checks debit 40: no missing tools, yet 60 is the
	// lowest passing score.
	checker := &Checker{ParamChecks: []question.ParamCheck{
		{Tool: "t", Param: "a", Expected: 1},
		{Tool: "t", Param: "b", Expected: 1},
		{Tool: "t", Param: "c", Expected: 1},
		{Tool: "t", Param: "d", Expected: 1},
	}}
	got := checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "t", Arguments: map[string]any{}},
	}})
	assert.Equal(t, PassThreshold, got.Score)
	assert.True(t, got.Passed)

	checker.ParamChecks = append(checker.ParamChecks,
		question.ParamCheck{Tool: "t", Param: "e", Expected: 1})
	got = checker.Evaluate(&evaluator.Input{ToolCalls: []adapter.ToolCall{
		{Name: "t", Arguments: map[string]any{}},
	}})
	assert.False(t, got.Passed)
}
