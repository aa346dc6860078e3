//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package schema provides structural conformance evaluators for structured
// agent output.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/internal/extract"
	"github.com/agentbench/grader/question"
)

// Scoring components: required fields and schema conformance split the scale
// evenly; a schema that validates with errors keeps partial credit.
const (
	fieldComponentScore  = 50.0
	schemaComponentScore = 50.0
	partialSchemaScore   = 40.0
)

// Validator validates structured output against required field paths and an
// optional JSON Schema.
type Validator struct {
	// SchemaDefinition is the JSON Schema the output must conform to.
	SchemaDefinition map[string]any
	// RequiredFields lists dotted paths that must be present.
	RequiredFields []string
}

// NewValidator creates a schema validator from a question's expected schema.
func NewValidator(expected *question.ExpectedSchema) *Validator {
	if expected == nil {
		return &Validator{}
	}
	return &Validator{
		SchemaDefinition: expected.SchemaDefinition,
		RequiredFields:   expected.RequiredFields,
	}
}

// Name returns the rule type tag of this evaluator.
func (v *Validator) Name() string {
	return string(question.CheckSchema)
}

// Evaluate checks that the answer carries valid structured data, that all
// required fields are present, and that the data conforms to the schema.
func (v *Validator) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	details := map[string]any{
		"isValidJSON": false,
		"schemaValid": false,
	}

	data := in.Parsed
	if data == nil {
		recovered, _, ok := extract.RecoverJSON(in.Text)
		if !ok {
			return &evaluator.ValidationResult{
				RuleType: v.Name(),
				Passed:   false,
				Score:    0,
				MaxScore: 100,
				Message:  "no structured data found",
				Details:  details,
			}
		}
		data = recovered
		details["extractionUsed"] = true
	}
	details["isValidJSON"] = true

	score := 0.0
	missing := make([]string, 0)
	if len(v.RequiredFields) > 0 {
		for _, field := range v.RequiredFields {
			if _, ok := extract.Lookup(data, field); !ok {
				missing = append(missing, field)
			}
		}
		score += fieldComponentScore * (1 - float64(len(missing))/float64(len(v.RequiredFields)))
	}
	details["missingFields"] = missing

	schemaValid := false
	if len(v.SchemaDefinition) > 0 {
		result, err := gojsonschema.Validate(
			gojsonschema.NewGoLoader(v.SchemaDefinition),
			gojsonschema.NewGoLoader(data),
		)
		switch {
		case err != nil:
			details["schemaError"] = err.Error()
			score += partialSchemaScore
		case result.Valid():
			schemaValid = true
			score += schemaComponentScore
		default:
			errs := make([]string, 0, len(result.Errors()))
			for _, e := range result.Errors() {
				errs = append(errs, e.String())
			}
			details["schemaError"] = strings.Join(errs, "; ")
			score += partialSchemaScore
		}
		details["schemaValid"] = schemaValid
	} else if len(missing) == 0 {
		// No schema configured: valid structured data with all fields present
		// earns full credit.
		score = 100
	}

	passed := len(missing) == 0
	if len(v.SchemaDefinition) > 0 {
		passed = passed && schemaValid
	}
	return &evaluator.ValidationResult{
		RuleType: v.Name(),
		Passed:   passed,
		Score:    score,
		MaxScore: 100,
		Message:  v.buildMessage(missing, schemaValid),
		Details:  details,
	}
}

func (v *Validator) buildMessage(missing []string, schemaValid bool) string {
	var messages []string
	if len(missing) > 0 {
		messages = append(messages, fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")))
	}
	if len(v.SchemaDefinition) > 0 && !schemaValid {
		messages = append(messages, "schema validation failed")
	}
	if len(messages) == 0 {
		return "schema validation passed"
	}
	return strings.Join(messages, "; ")
}

// FieldCheck verifies the type, and optionally the numeric range, of one field.
type FieldCheck struct {
	// Path is the dotted path of the field.
	Path string
	// Type is one of string, integer, number, boolean, array, object.
	Type string
	// Min and Max bound numeric fields when Range is true.
	Min, Max float64
	// Range enables the Min/Max bound check.
	Range bool
}

// FieldTypeChecker verifies that individual fields carry the expected type
// and, for numeric fields, fall inside an expected range.
type FieldTypeChecker struct {
	// Checks lists the fields to verify.
	Checks []FieldCheck
}

// Name returns the rule type tag of this evaluator.
func (c *FieldTypeChecker) Name() string {
	return "field_type_check"
}

// Evaluate verifies every configured field against the structured output.
func (c *FieldTypeChecker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	data := in.Parsed
	if data == nil {
		data, _, _ = extract.RecoverJSON(in.Text)
	}

	checks := make([]map[string]any, 0, len(c.Checks))
	passedCount := 0
	for _, check := range c.Checks {
		entry := map[string]any{
			"path":         check.Path,
			"expectedType": check.Type,
			"typeMatch":    false,
			"rangeMatch":   true,
		}
		value, ok := extract.Lookup(data, check.Path)
		if ok {
			entry["actualValue"] = value
			typeMatch := matchesType(value, check.Type)
			entry["typeMatch"] = typeMatch
			if typeMatch && check.Range {
				if number, ok := extract.Number(value); ok && (number < check.Min || number > check.Max) {
					entry["rangeMatch"] = false
				}
			}
			if entry["typeMatch"] == true && entry["rangeMatch"] == true {
				passedCount++
			}
		}
		checks = append(checks, entry)
	}

	score := 0.0
	if len(c.Checks) > 0 {
		score = float64(passedCount) / float64(len(c.Checks)) * 100
	}
	return &evaluator.ValidationResult{
		RuleType: c.Name(),
		Passed:   passedCount == len(c.Checks),
		Score:    score,
		MaxScore: 100,
		Message:  fmt.Sprintf("field type checks: %d/%d passed", passedCount, len(c.Checks)),
		Details: map[string]any{
			"checks":      checks,
			"passedCount": passedCount,
			"totalCount":  len(c.Checks),
		},
	}
}

// matchesType checks a decoded JSON value against a schema type name.
func matchesType(value any, typeName string) bool {
	switch typeName {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	case "number":
		_, ok := extract.Number(value)
		return ok
	case "integer":
		number, ok := extract.Number(value)
		return ok && number == math.Trunc(number)
	default:
		return false
	}
}
