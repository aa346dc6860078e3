//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/question"
)

var premiumSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"premium":    map[string]any{"type": "number"},
		"conclusion": map[string]any{"type": "string"},
	},
	"required": []any{"premium", "conclusion"},
}

func TestValidatorNoStructuredData(t *testing.T) {
	v := NewValidator(&question.ExpectedSchema{
		SchemaDefinition: premiumSchema,
		RequiredFields:   []string{"premium"},
	})
	got := v.Evaluate(&evaluator.Input{Text: "plain prose, nothing structured"})
	assert.False(t, got.Passed)
	assert.Equal(t, 0.0, got.Score)
	assert.Equal(t, false, got.Details["isValidJSON"])
}

func TestValidatorFullConformance(t *testing.T) {
	v := NewValidator(&question.ExpectedSchema{
		SchemaDefinition: premiumSchema,
		RequiredFields:   []string{"premium", "conclusion"},
	})
	got := v.Evaluate(&evaluator.Input{Parsed: map[string]any{
		"premium":    5000.4,
		"conclusion": "approved",
	}})
	assert.True(t, got.Passed)
	assert.Equal(t, 100.0, got.Score)
}

func TestValidatorSchemaFailureKeepsPartialCredit(t *testing.T) {
	v := NewValidator(&question.ExpectedSchema{
		SchemaDefinition: premiumSchema,
		RequiredFields:   []string{"premium", "conclusion"},
	})
	// Both fields present but premium has the wrong type.
	got := v.Evaluate(&evaluator.Input{Parsed: map[string]any{
		"premium":    true,
		"conclusion": "approved",
	}})
	assert.False(t, got.Passed)
	assert.Equal(t, 90.0, got.Score)
	assert.Equal(t, false, got.Details["schemaValid"])
}

func TestValidatorMissingFieldsScaleComponent(t *testing.T) {
	v := &Validator{RequiredFields: []string{"premium", "conclusion"}}
	got := v.Evaluate(&evaluator.Input{Parsed: map[string]any{"premium": 5000.4}})
	assert.False(t, got.Passed)
	assert.Equal(t, 25.0, got.Score)
	assert.Equal(t, []string{"conclusion"}, got.Details["missingFields"])
}

func TestValidatorNoSchemaAllFieldsPresent(t *testing.T) {
	v := &Validator{RequiredFields: []string{"premium"}}
	got := v.Evaluate(&evaluator.Input{Parsed: map[string]any{"premium": 5000.4}})
	assert.True(t, got.Passed)
	assert.Equal(t, 100.0, got.Score)
}

func TestValidatorRecoversFromText(t *testing.T) {
	v := &Validator{RequiredFields: []string{"premium"}}
	got := v.Evaluate(&evaluator.Input{
		Text: "Result follows.\n```json\n{\"premium\": 5000.4}\n```",
	})
	assert.True(t, got.Passed)
	assert.Equal(t, true, got.Details["extractionUsed"])
}

func TestFieldTypeChecker(t *testing.T) {
	checker := &FieldTypeChecker{Checks: []FieldCheck{
		{Path: "premium", Type: "number", Min: 0, Max: 10000, Range: true},
		{Path: "conclusion", Type: "string"},
		{Path: "count", Type: "integer"},
	}}
	got := checker.Evaluate(&evaluator.Input{Parsed: map[string]any{
		"premium":    5000.4,
		"conclusion": "approved",
		"count":      2.5,
	}})
	assert.False(t, got.Passed, "2.5 is not an integer")
	assert.InDelta(t, 100.0*2/3, got.Score, 1e-9)
}

func TestFieldTypeCheckerRangeViolation(t *testing.T) {
	checker := &FieldTypeChecker{Checks: []FieldCheck{
		{Path: "rate", Type: "number", Min: 0, Max: 1, Range: true},
	}}
	got := checker.Evaluate(&evaluator.Input{Parsed: map[string]any{"rate": 1.5}})
	assert.False(t, got.Passed)
	assert.Equal(t, 0.0, got.Score)
}
