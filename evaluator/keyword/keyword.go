//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package keyword provides keyword and regex presence evaluators.
package keyword

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/question"
)

// Checker validates required, any-of and prohibited keywords in an answer.
//
// Scoring precedence: a shortfall of required keywords scales the score by the
// fraction found, an unmatched any-of list halves it, and any prohibited
// keyword zeroes it unconditionally (hard compliance violation).
type Checker struct {
	// MustContain lists keywords that must all appear.
	MustContain []string
	// MustContainAny lists keywords of which at least one must appear.
	MustContainAny []string
	// Prohibited lists keywords that must not appear.
	Prohibited []string
	// CaseSensitive disables lowercase comparison when true.
	CaseSensitive bool
}

// NewChecker creates a keyword checker from a validation rule.
func NewChecker(rule question.ValidationRule) *Checker {
	return &Checker{
		MustContain:    rule.MustContainKeywords,
		MustContainAny: rule.MustContainAny,
		Prohibited:     rule.ProhibitedKeywords,
	}
}

// Name returns the rule type tag of this evaluator.
func (c *Checker) Name() string {
	return string(question.CheckKeyword)
}

// Evaluate runs the keyword checks against the answer text.
func (c *Checker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	text := in.Text
	if !c.CaseSensitive {
		text = strings.ToLower(text)
	}
	contains := func(keyword string) bool {
		if !c.CaseSensitive {
			keyword = strings.ToLower(keyword)
		}
		return strings.Contains(text, keyword)
	}

	found := make([]string, 0, len(c.MustContain))
	missing := make([]string, 0)
	for _, keyword := range c.MustContain {
		if contains(keyword) {
			found = append(found, keyword)
		} else {
			missing = append(missing, keyword)
		}
	}
	anyFound := make([]string, 0)
	for _, keyword := range c.MustContainAny {
		if contains(keyword) {
			anyFound = append(anyFound, keyword)
			break
		}
	}
	prohibitedFound := make([]string, 0)
	for _, keyword := range c.Prohibited {
		if contains(keyword) {
			prohibitedFound = append(prohibitedFound, keyword)
		}
	}

	passed := true
	score := 100.0
	var messages []string
	if len(missing) > 0 {
		passed = false
		score *= float64(len(c.MustContain)-len(missing)) / float64(len(c.MustContain))
		messages = append(messages, fmt.Sprintf("missing keywords: %s", strings.Join(missing, ", ")))
	}
	if len(c.MustContainAny) > 0 && len(anyFound) == 0 {
		passed = false
		score *= 0.5
		messages = append(messages, fmt.Sprintf("none of the required alternatives found: %s",
			strings.Join(c.MustContainAny, ", ")))
	}
	// A prohibited keyword is a hard compliance violation and zeroes the
	// score regardless of anything found above.
	if len(prohibitedFound) > 0 {
		passed = false
		score = 0
		messages = append(messages, fmt.Sprintf("prohibited keywords present: %s",
			strings.Join(prohibitedFound, ", ")))
	}

	message := "keyword check passed"
	if len(messages) > 0 {
		message = strings.Join(messages, "; ")
	}
	return &evaluator.ValidationResult{
		RuleType: c.Name(),
		Passed:   passed,
		Score:    score,
		MaxScore: 100,
		Message:  message,
		Details: map[string]any{
			"mustContainFound":    found,
			"mustContainMissing":  missing,
			"mustContainAnyFound": anyFound,
			"prohibitedFound":     prohibitedFound,
		},
	}
}

// RegexChecker validates required and prohibited regular expression patterns.
// It applies the same precedence as Checker with pattern search instead of
// substring containment.
type RegexChecker struct {
	// RequiredPatterns lists patterns that must all match.
	RequiredPatterns []string
	// ProhibitedPatterns lists patterns that must not match.
	ProhibitedPatterns []string
}

// Name returns the rule type tag of this evaluator.
func (c *RegexChecker) Name() string {
	return "regex_check"
}

// Evaluate runs the pattern checks against the answer text.
func (c *RegexChecker) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	matched := make([]string, 0, len(c.RequiredPatterns))
	missing := make([]string, 0)
	invalid := make([]string, 0)
	for _, pattern := range c.RequiredPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			invalid = append(invalid, pattern)
			missing = append(missing, pattern)
			continue
		}
		if re.MatchString(in.Text) {
			matched = append(matched, pattern)
		} else {
			missing = append(missing, pattern)
		}
	}
	prohibitedMatched := make([]string, 0)
	for _, pattern := range c.ProhibitedPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			invalid = append(invalid, pattern)
			continue
		}
		if re.MatchString(in.Text) {
			prohibitedMatched = append(prohibitedMatched, pattern)
		}
	}

	passed := true
	score := 100.0
	var messages []string
	if len(missing) > 0 {
		passed = false
		score *= float64(len(c.RequiredPatterns)-len(missing)) / float64(len(c.RequiredPatterns))
		messages = append(messages, fmt.Sprintf("%d required patterns unmatched", len(missing)))
	}
	if len(prohibitedMatched) > 0 {
		passed = false
		score = 0
		messages = append(messages, fmt.Sprintf("%d prohibited patterns matched", len(prohibitedMatched)))
	}

	message := "regex check passed"
	if len(messages) > 0 {
		message = strings.Join(messages, "; ")
	}
	details := map[string]any{
		"requiredMatched":   matched,
		"requiredMissing":   missing,
		"prohibitedMatched": prohibitedMatched,
	}
	if len(invalid) > 0 {
		details["invalidPatterns"] = invalid
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
