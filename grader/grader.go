//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package grader combines per-check validation results into a composite
// question score.
package grader

import (
	"fmt"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/evaluator/factory"
	"github.com/agentbench/grader/question"
)

// Outcome is the composite grading result of one question.
type Outcome struct {
	// Score is the earned portion of the question's declared points.
	Score float64 `json:"score"`
	// MaxScore is the question's declared point value.
	MaxScore float64 `json:"maxScore"`
	// Passed reports whether every individual check passed.
	Passed bool `json:"passed"`
	// Results lists the individual check results in evaluation order.
	Results []*evaluator.ValidationResult `json:"results"`
	// PassedChecks counts the checks that passed.
	PassedChecks int `json:"passedChecks"`
	// FailedChecks counts the checks that failed.
	FailedChecks int `json:"failedChecks"`
}

// Option configures the grader.
type Option func(*options)

type options struct {
	registry *factory.Registry
}

// WithRegistry sets the evaluator registry used to build check chains.
func WithRegistry(registry *factory.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// Grader runs a question's evaluator chain and rescales the combined check
// scores onto the question's declared point value.
type Grader struct {
	registry *factory.Registry
}

// New creates a grader. Without options it uses the built-in evaluator
// registry.
func New(opts ...Option) *Grader {
	o := &options{registry: factory.NewRegistry()}
	for _, opt := range opts {
		opt(o)
	}
	return &Grader{registry: o.registry}
}

// Grade evaluates the answer against every active check of the question and
// combines the results: the earned score is the summed check scores divided
// by the summed check maxima, rescaled to the question's point value. The
// outcome passes only when every check passed.
func (g *Grader) Grade(q *question.Question, in *evaluator.Input) (*Outcome, error) {
	evaluators, err := g.registry.ForQuestion(q)
	if err != nil {
		return nil, fmt.Errorf("grade question %s: %w", q.ID, err)
	}

	outcome := &Outcome{
		MaxScore: q.Score,
		Passed:   true,
		Results:  make([]*evaluator.ValidationResult, 0, len(evaluators)),
	}
	var earned, possible float64
	for _, ev := range evaluators {
		result := ev.Evaluate(in)
		outcome.Results = append(outcome.Results, result)
		earned += result.Score
		possible += result.MaxScore
		if result.Passed {
			outcome.PassedChecks++
		} else {
			outcome.FailedChecks++
			outcome.Passed = false
		}
	}
	if possible > 0 {
		outcome.Score = earned / possible * q.Score
	}
	return outcome, nil
}
