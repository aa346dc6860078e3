//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package numeric provides tolerance-based numeric answer evaluators.
package numeric

import (
	"fmt"
	"math"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/internal/extract"
	"github.com/agentbench/grader/question"
)

// Checker validates a single numeric value against an expected value within
// a tolerance. The outcome is binary: numeric correctness is exact-or-wrong,
// unlike keyword checks which degrade gracefully.
type Checker struct {
	// Expected is the reference value.
	Expected float64
	// Tolerance is the allowed error.
	Tolerance float64
	// ToleranceType selects absolute or relative error. Defaults to absolute.
	ToleranceType question.ToleranceType
	// Path is the dotted path of the value in the structured output.
	Path string
}

// Name returns the rule type tag of this evaluator.
func (c *Checker) Name() string {
	return string(question.CheckNumeric)
}

// Evaluate extracts the numeric answer and compares it against the expected value.
// Extraction precedence: parsed-output path, JSON recovered from text, then a
// last-resort text scan. Failing to extract anything scores 0 with a distinct
// message from an out-of-tolerance value.
func (c *Checker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	details := map[string]any{
		"expected":      c.Expected,
		"tolerance":     c.Tolerance,
		"toleranceType": string(c.toleranceType()),
		"path":          c.Path,
	}
	actual, method, ok := c.extractValue(in)
	if !ok {
		details["extractionMethod"] = ""
		return &evaluator.ValidationResult{
			RuleType: c.Name(),
			Passed:   false,
			Score:    0,
			MaxScore: 100,
			Message:  "could not extract numeric value",
			Details:  details,
		}
	}
	details["extracted"] = actual
	details["extractionMethod"] = method

	within, errValue := withinTolerance(actual, c.Expected, c.Tolerance, c.toleranceType())
	details["withinTolerance"] = within
	details["error"] = errValue

	if within {
		return &evaluator.ValidationResult{
			RuleType: c.Name(),
			Passed:   true,
			Score:    100,
			MaxScore: 100,
			Message:  fmt.Sprintf("value correct: %v (expected %v, error %.4f)", actual, c.Expected, errValue),
			Details:  details,
		}
	}
	return &evaluator.ValidationResult{
		RuleType: c.Name(),
		Passed:   false,
		Score:    0,
		MaxScore: 100,
		Message: fmt.Sprintf("value incorrect: %v (expected %v, error %.4f, tolerance %v)",
			actual, c.Expected, errValue, c.Tolerance),
		Details: details,
	}
}

func (c *Checker) toleranceType() question.ToleranceType {
	if c.ToleranceType == "" {
		return question.ToleranceAbsolute
	}
	return c.ToleranceType
}

// extractValue walks the extraction precedence chain and reports which
// strategy produced the value.
func (c *Checker) extractValue(in *evaluator.Input) (float64, string, bool) {
	if in.Parsed != nil && c.Path != "" {
		if raw, ok := extract.Lookup(in.Parsed, c.Path); ok {
			if value, ok := extract.Number(raw); ok {
				return value, "parsed_output", true
			}
		}
	}
	if c.Path != "" {
		if _, raw, ok := extract.RecoverJSON(in.Text); ok {
			if value, ok := extract.NumberAtPath(raw, c.Path); ok {
				return value, "recovered_json", true
			}
		}
	}
	if value, ok := extract.NumberFromText(in.Text); ok {
		return value, "text_scan", true
	}
	return 0, "", false
}

// withinTolerance computes the measurement error and whether it is tolerable.
// A relative comparison against an expected value of zero passes only when
// the actual value is exactly zero.
func withinTolerance(actual, expected, tolerance float64, toleranceType question.ToleranceType) (bool, float64) {
	if toleranceType == question.ToleranceRelative {
		if expected == 0 {
			return actual == 0, math.Abs(actual)
		}
		errValue := math.Abs(actual-expected) / math.Abs(expected)
		return errValue <= tolerance, errValue
	}
	errValue := math.Abs(actual - expected)
	return errValue <= tolerance, errValue
}

// MultiChecker validates several named values independently and awards
// 100/len(checks) points per passing check.
type MultiChecker struct {
	// Checks lists the values to verify.
	Checks []question.NumericCheck
}

// Name returns the rule type tag of this evaluator.
func (c *MultiChecker) Name() string {
	return string(question.CheckMultiNumeric)
}

// Evaluate verifies every configured value against the structured output.
func (c *MultiChecker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	data := in.Parsed
	if data == nil {
		data, _, _ = extract.RecoverJSON(in.Text)
	}

	checks := make([]map[string]any, 0, len(c.Checks))
	passedCount := 0
	totalScore := 0.0
	for _, check := range c.Checks {
		entry := map[string]any{
			"path":     check.Path,
			"expected": check.Expected,
			"passed":   false,
		}
		if raw, ok := extract.Lookup(data, check.Path); ok {
			if actual, ok := extract.Number(raw); ok {
				entry["extracted"] = actual
				tolerance := check.Tolerance
				toleranceType := check.ToleranceType
				if toleranceType == "" {
					toleranceType = question.ToleranceAbsolute
				}
				if within, _ := withinTolerance(actual, check.Expected, tolerance, toleranceType); within {
					entry["passed"] = true
					passedCount++
					totalScore += 100 / float64(len(c.Checks))
				}
			}
		}
		checks = append(checks, entry)
	}

	return &evaluator.ValidationResult{
		RuleType: c.Name(),
		Passed:   passedCount == len(c.Checks),
		Score:    totalScore,
		MaxScore: 100,
		Message:  fmt.Sprintf("numeric checks: %d/%d passed", passedCount, len(c.Checks)),
		Details: map[string]any{
			"checks":      checks,
			"passedCount": passedCount,
			"totalCount":  len(c.Checks),
		},
	}
}
