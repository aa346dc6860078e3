//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package result defines evaluation run results and their storage interface.
package result

import (
	"context"
	"fmt"
	"time"

	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/question"
)

// Status is the lifecycle state of an evaluation run or of a single question.
type Status int

const (
	// StatusPending means the evaluation has not started yet.
	StatusPending Status = iota
	// StatusRunning means the evaluation is in progress.
	StatusRunning
	// StatusCompleted means the evaluation finished normally.
	StatusCompleted
	// StatusFailed means the evaluation finished with an error.
	StatusFailed
	// StatusTimeout means the evaluation was cut off by its deadline.
	StatusTimeout
)

var statusNames = map[Status]string{
	StatusPending:   "pending",
	StatusRunning:   "running",
	StatusCompleted: "completed",
	StatusFailed:    "failed",
	StatusTimeout:   "timeout",
}

// String returns the lowercase name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// MarshalJSON encodes the status as its string name.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the status from its string name.
func (s *Status) UnmarshalJSON(data []byte) error {
	name := string(data)
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
	}
	for status, candidate := range statusNames {
		if candidate == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", name)
}

// QuestionResult records the grading outcome of one question.
type QuestionResult struct {
	// QuestionID identifies the graded question.
	QuestionID string `json:"questionId"`
	// Dimension is the grading category of the question.
	Dimension question.Dimension `json:"dimension"`
	// Status is the per-question lifecycle state.
	Status Status `json:"status"`
	// Answer is the raw answer text returned by the agent.
	Answer string `json:"answer,omitempty"`
	// ToolCallCount is the number of tool calls the agent made.
	ToolCallCount int `json:"toolCallCount,omitempty"`
	// Score is the earned portion of the question's points.
	Score float64 `json:"score"`
	// MaxScore is the question's declared point value.
	MaxScore float64 `json:"maxScore"`
	// Passed reports whether every check on the question passed.
	Passed bool `json:"passed"`
	// Validations lists the per-check results.
	Validations []*evaluator.ValidationResult `json:"validations,omitempty"`
	// Error carries the failure reason when Status is failed or timeout.
	Error string `json:"error,omitempty"`
	// LatencyMs is the wall time of the agent call in milliseconds.
	LatencyMs int64 `json:"latencyMs"`
	// ExecutedAt is when the agent call started.
	ExecutedAt time.Time `json:"executedAt,omitempty"`
}

// DimensionScore aggregates the results of one grading dimension.
type DimensionScore struct {
	// Dimension is the grading category.
	Dimension question.Dimension `json:"dimension"`
	// Score is the summed earned points in this dimension.
	Score float64 `json:"score"`
	// MaxScore is the summed declared points in this dimension.
	MaxScore float64 `json:"maxScore"`
	// Percentage is Score/MaxScore expressed as a percentage.
	Percentage float64 `json:"percentage"`
	// QuestionCount is the number of questions in this dimension.
	QuestionCount int `json:"questionCount"`
	// PassedCount is the number of passed questions in this dimension.
	PassedCount int `json:"passedCount"`
}

// EvaluationResult is the complete record of one evaluation run.
type EvaluationResult struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`
	// AgentID identifies the evaluated agent.
	AgentID string `json:"agentId"`
	// AgentName is a human-readable agent label.
	AgentName string `json:"agentName,omitempty"`
	// QuestionSetID identifies the evaluated question set.
	QuestionSetID string `json:"questionSetId,omitempty"`
	// Status is the run lifecycle state.
	Status Status `json:"status"`
	// Progress is the percentage of questions finished so far; 100 once the
	// run completes.
	Progress float64 `json:"progress"`
	// TotalScore is the summed earned points across all questions.
	TotalScore float64 `json:"totalScore"`
	// MaxScore is the summed declared points across all questions.
	MaxScore float64 `json:"maxScore"`
	// OverallPercentage is TotalScore/MaxScore expressed as a percentage.
	OverallPercentage float64 `json:"overallPercentage"`
	// PassRate is the fraction of questions that passed.
	PassRate float64 `json:"passRate"`
	// TotalQuestions is the number of graded questions.
	TotalQuestions int `json:"totalQuestions"`
	// CompletedCount counts questions that finished normally.
	CompletedCount int `json:"completedCount"`
	// FailedCount counts questions that ended in error.
	FailedCount int `json:"failedCount"`
	// TimeoutCount counts questions cut off by their deadline.
	TimeoutCount int `json:"timeoutCount"`
	// TotalLatencyMs is the summed agent call latency.
	TotalLatencyMs int64 `json:"totalLatencyMs"`
	// AvgLatencyMs is the mean latency over completed questions.
	AvgLatencyMs float64 `json:"avgLatencyMs"`
	// DimensionScores aggregates results per grading dimension.
	DimensionScores map[question.Dimension]*DimensionScore `json:"dimensionScores"`
	// QuestionResults lists per-question outcomes in completion order.
	QuestionResults []*QuestionResult `json:"questionResults"`
	// StartedAt is when the run started.
	StartedAt time.Time `json:"startedAt"`
	// CompletedAt is when the run finished.
	CompletedAt time.Time `json:"completedAt,omitempty"`
	// Error carries the run-level failure reason, if any.
	Error string `json:"error,omitempty"`
}

// Manager stores and retrieves evaluation results.
type Manager interface {
	// Save persists an evaluation result, replacing any result with the same ID.
	Save(ctx context.Context, result *EvaluationResult) error
	// Get returns the evaluation result with the given ID. It returns an
	// error wrapping os.ErrNotExist when no such result exists.
	Get(ctx context.Context, id string) (*EvaluationResult, error)
	// List returns all stored evaluation results.
	List(ctx context.Context) ([]*EvaluationResult, error)
	// Close releases resources held by the manager.
	Close() error
}
