//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbench/grader/question"
	"github.com/agentbench/grader/result"
)

func TestManagerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(result.WithBaseDir(dir))
	ctx := context.Background()

	res := &result.EvaluationResult{
		ID:      "run-1",
		AgentID: "agent-a",
		Status:  result.StatusCompleted,
		QuestionResults: []*result.QuestionResult{
			{QuestionID: "q1", Dimension: question.DimensionKnowledge, Status: result.StatusCompleted,
				Score: 10, MaxScore: 10, Passed: true},
		},
	}
	res.Summarize()
	require.NoError(t, m.Save(ctx, res))

	// The file lands under the configured suffix.
	_, err := os.Stat(filepath.Join(dir, "run-1.eval_result.json"))
	require.NoError(t, err)

	got, err := m.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, result.StatusCompleted, got.Status)
	assert.Equal(t, res.TotalScore, got.TotalScore)
	require.Len(t, got.QuestionResults, 1)
	assert.Equal(t, "q1", got.QuestionResults[0].QuestionID)
}

func TestManagerList(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(result.WithBaseDir(dir))
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, &result.EvaluationResult{ID: "run-1", AgentID: "a"}))
	require.NoError(t, m.Save(ctx, &result.EvaluationResult{ID: "run-2", AgentID: "a"}))
	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	all, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestManagerListMissingDir(t *testing.T) {
	m := NewManager(result.WithBaseDir(filepath.Join(t.TempDir(), "never-created")))
	all, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestManagerGetMissing(t *testing.T) {
	m := NewManager(result.WithBaseDir(t.TempDir()))
	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManagerSaveValidation(t *testing.T) {
	m := NewManager(result.WithBaseDir(t.TempDir()))
	ctx := context.Background()
	assert.Error(t, m.Save(ctx, nil))
	assert.Error(t, m.Save(ctx, &result.EvaluationResult{}))
}
