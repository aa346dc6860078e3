//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbench/grader/result"
)

func newMockManager(t *testing.T) (result.Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m, err := New(WithDB(db), WithSkipDBInit(true))
	require.NoError(t, err)
	return m, mock
}

func TestNewRequiresConnection(t *testing.T) {
	_, err := New(WithSkipDBInit(true))
	assert.Error(t, err)
}

func TestNewInitializesSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS grader_eval_results").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = New(WithDB(db))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUpserts(t *testing.T) {
	m, mock := newMockManager(t)

	res := &result.EvaluationResult{ID: "run-1", AgentID: "agent-a", Status: result.StatusCompleted}
	payload, err := json.Marshal(res)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO grader_eval_results").
		WithArgs("run-1", "agent-a", "", "completed", payload).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, m.Save(context.Background(), res))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAssignsID(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectExec("INSERT INTO grader_eval_results").
		WillReturnResult(sqlmock.NewResult(1, 1))

	res := &result.EvaluationResult{AgentID: "agent-a"}
	require.NoError(t, m.Save(context.Background(), res))
	assert.NotEmpty(t, res.ID)
	assert.Contains(t, res.ID, "agent-a_")
}

func TestSaveValidation(t *testing.T) {
	m, _ := newMockManager(t)
	ctx := context.Background()
	assert.Error(t, m.Save(ctx, nil))
	assert.Error(t, m.Save(ctx, &result.EvaluationResult{}))
}

func TestGet(t *testing.T) {
	m, mock := newMockManager(t)

	stored := &result.EvaluationResult{ID: "run-1", AgentID: "agent-a", TotalScore: 15, Status: result.StatusCompleted}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT payload FROM grader_eval_results").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := m.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-a", got.AgentID)
	assert.Equal(t, 15.0, got.TotalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	m, mock := newMockManager(t)

	mock.ExpectQuery("SELECT payload FROM grader_eval_results").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := m.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestList(t *testing.T) {
	m, mock := newMockManager(t)

	first, _ := json.Marshal(&result.EvaluationResult{ID: "run-2", AgentID: "a"})
	second, _ := json.Marshal(&result.EvaluationResult{ID: "run-1", AgentID: "a"})
	mock.ExpectQuery("SELECT payload FROM grader_eval_results ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(first).AddRow(second))

	results, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "run-2", results[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseKeepsInjectedHandleOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m, err := New(WithDB(db), WithSkipDBInit(true))
	require.NoError(t, err)
	require.NoError(t, m.Close())

	// The injected handle still works after Close.
	mock.ExpectQuery("SELECT payload FROM grader_eval_results").
		WithArgs("run-1").
		WillReturnError(sql.ErrNoRows)
	_, err = m.Get(context.Background(), "run-1")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
