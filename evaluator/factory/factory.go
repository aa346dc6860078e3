//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package factory builds the evaluator chain for a question from its
// validation rules.
package factory

import (
	"fmt"
	"os"
	"sync"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/evaluator/conclusion"
	"github.com/agentbench/grader/evaluator/keyword"
	"github.com/agentbench/grader/evaluator/numeric"
	"github.com/agentbench/grader/evaluator/schema"
	"github.com/agentbench/grader/evaluator/toolcall"
	"github.com/agentbench/grader/internal/extract"
	"github.com/agentbench/grader/question"
)

// Builder constructs an evaluator for a question. A nil return means the
// check does not apply to this question.
type Builder func(q *question.Question) evaluator.Evaluator

// Registry maps check kinds to evaluator builders. The zero value is not
// usable; create instances with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	builders map[question.CheckKind]Builder
}

// NewRegistry creates a registry pre-populated with the built-in evaluator
// builders.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[question.CheckKind]Builder)}
	r.Register(question.CheckSchema, buildSchema)
	r.Register(question.CheckKeyword, buildKeyword)
	r.Register(question.CheckConclusion, buildConclusion)
	r.Register(question.CheckNumeric, buildNumeric)
	r.Register(question.CheckMultiNumeric, buildMultiNumeric)
	r.Register(question.CheckToolCall, buildToolCall)
	r.Register(question.CheckLogic, buildLogic)
	return r
}

// Register registers a builder for the given check kind, replacing any
// existing builder.
func (r *Registry) Register(kind question.CheckKind, builder Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[kind] = builder
}

// Get returns the builder registered for the given check kind.
func (r *Registry) Get(kind question.CheckKind) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	builder, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("no builder registered for check kind %q: %w", kind, os.ErrNotExist)
	}
	return builder, nil
}

// List returns the registered check kinds in unspecified order.
func (r *Registry) List() []question.CheckKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]question.CheckKind, 0, len(r.builders))
	for kind := range r.builders {
		kinds = append(kinds, kind)
	}
	return kinds
}

// ForQuestion builds the evaluator chain for a question. Schema validation
// runs first when the question declares an expected schema; the remaining
// evaluators follow the question's active checks in a fixed order. A question
// with no applicable checks falls back to a keyword check so that every
// question produces at least one validation result.
func (r *Registry) ForQuestion(q *question.Question) ([]evaluator.Evaluator, error) {
	kinds := make([]question.CheckKind, 0, 8)
	if q.ExpectedSchema != nil {
		kinds = append(kinds, question.CheckSchema)
	}
	kinds = append(kinds, q.Rules.ActiveChecks()...)

	evaluators := make([]evaluator.Evaluator, 0, len(kinds))
	for _, kind := range kinds {
		builder, err := r.Get(kind)
		if err != nil {
			return nil, fmt.Errorf("build evaluator chain for question %s: %w", q.ID, err)
		}
		if ev := builder(q); ev != nil {
			evaluators = append(evaluators, ev)
		}
	}
	if len(evaluators) == 0 {
		evaluators = append(evaluators, keyword.NewChecker(q.Rules))
	}
	return evaluators, nil
}

func buildSchema(q *question.Question) evaluator.Evaluator {
	if q.ExpectedSchema == nil {
		return nil
	}
	return schema.NewValidator(q.ExpectedSchema)
}

func buildKeyword(q *question.Question) evaluator.Evaluator {
	return keyword.NewChecker(q.Rules)
}

func buildConclusion(q *question.Question) evaluator.Evaluator {
	return conclusion.NewChecker(q.Rules)
}

// buildNumeric requires both a configured path and a numeric ground truth
// under the "result" key; otherwise the single-value check does not apply.
func buildNumeric(q *question.Question) evaluator.Evaluator {
	if q.Rules.NumericPath == "" {
		return nil
	}
	raw, ok := q.GroundTruth["result"]
	if !ok {
		return nil
	}
	expected, ok := extract.Number(raw)
	if !ok {
		return nil
	}
	return &numeric.Checker{
		Expected:      expected,
		Tolerance:     q.Rules.NumericTolerance,
		ToleranceType: q.Rules.NumericToleranceType,
		Path:          q.Rules.NumericPath,
	}
}

func buildMultiNumeric(q *question.Question) evaluator.Evaluator {
	if len(q.Rules.NumericChecks) == 0 {
		return nil
	}
	return &numeric.MultiChecker{Checks: q.Rules.NumericChecks}
}

func buildToolCall(q *question.Question) evaluator.Evaluator {
	return toolcall.NewChecker(q.Rules)
}

func buildLogic(q *question.Question) evaluator.Evaluator {
	return conclusion.NewLogicRuleEngine(q.Rules)
}
