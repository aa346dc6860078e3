//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package grader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/evaluator/factory"
	"github.com/agentbench/grader/question"
)

type fixedEvaluator struct {
	name   string
	score  float64
	passed bool
}

func (f *fixedEvaluator) Name() string {
	return f.name
}

func (f *fixedEvaluator) Evaluate(in *evaluator.Input) *evaluator.ValidationResult {
	return &evaluator.ValidationResult{
		RuleType: f.name,
		Passed:   f.passed,
		Score:    f.score,
		MaxScore: 100,
	}
}

func TestGradeRescalesToQuestionPoints(t *testing.T) {
	reg := factory.NewRegistry()
	reg.Register(question.CheckKeyword, func(q *question.Question) evaluator.Evaluator {
		return &fixedEvaluator{name: "a", score: 50, passed: false}
	})
	reg.Register(question.CheckConclusion, func(q *question.Question) evaluator.Evaluator {
		return &fixedEvaluator{name: "b", score: 100, passed: true}
	})

	g := New(WithRegistry(reg))
	q := &question.Question{
		ID:    "q1",
		Score: 40,
		Rules: question.ValidationRule{
			MustContainKeywords:  []string{"x"},
			ConclusionExactMatch: "approved",
		},
	}
	outcome, err := g.Grade(q, &evaluator.Input{Text: "answer"})
	require.NoError(t, err)

	// (50+100)/200 scaled onto 40 points.
	assert.InDelta(t, 30.0, outcome.Score, 1e-9)
	assert.Equal(t, 40.0, outcome.MaxScore)
	assert.False(t, outcome.Passed, "one failing check fails the question")
	assert.Equal(t, 1, outcome.PassedChecks)
	assert.Equal(t, 1, outcome.FailedChecks)
	assert.Len(t, outcome.Results, 2)
}

func TestGradeAllChecksPass(t *testing.T) {
	g := New()
	q := &question.Question{
		ID:    "q1",
		Score: 10,
		Rules: question.ValidationRule{MustContainKeywords: []string{"premium"}},
	}
	outcome, err := g.Grade(q, &evaluator.Input{Text: "the premium is 5000"})
	require.NoError(t, err)
	assert.True(t, outcome.Passed)
	assert.InDelta(t, 10.0, outcome.Score, 1e-9)
}

func TestGradeDefaultFallbackNeverZeroChecks(t *testing.T) {
	g := New()
	outcome, err := g.Grade(&question.Question{ID: "bare", Score: 5}, &evaluator.Input{Text: "anything"})
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	assert.True(t, outcome.Passed, "empty keyword checker has nothing to violate")
	assert.InDelta(t, 5.0, outcome.Score, 1e-9)
}
