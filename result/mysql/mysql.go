//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package mysql provides a MySQL-backed result manager.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	// Register the MySQL driver for DSN-based connections.
	_ "github.com/go-sql-driver/mysql"

	"github.com/agentbench/grader/result"
)

var _ result.Manager = (*manager)(nil)

type manager struct {
	db      *sql.DB
	table   string
	ownedDB bool
}

// New creates a MySQL-backed result manager. The connection comes from
// WithDB when set, otherwise from WithDSN.
func New(opts ...Option) (result.Manager, error) {
	options := newOptions(opts...)
	db := options.db
	ownedDB := false
	if db == nil {
		if options.dsn == "" {
			return nil, errors.New("mysql result manager requires a DSN or an injected database handle")
		}
		opened, err := sql.Open("mysql", options.dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql connection: %w", err)
		}
		db = opened
		ownedDB = true
	}
	m := &manager{
		db:      db,
		table:   options.tablePrefix + "eval_results",
		ownedDB: ownedDB,
	}
	if !options.skipDBInit {
		ctx, cancel := context.WithTimeout(context.Background(), options.initTimeout)
		defer cancel()
		if err := m.ensureSchema(ctx); err != nil {
			if ownedDB {
				_ = db.Close()
			}
			return nil, fmt.Errorf("init database failed: %w", err)
		}
	}
	return m, nil
}

func (m *manager) ensureSchema(ctx context.Context) error {
	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
		   result_id VARCHAR(190) NOT NULL,
		   agent_id VARCHAR(190) NOT NULL,
		   question_set_id VARCHAR(190) NOT NULL DEFAULT '',
		   status VARCHAR(32) NOT NULL,
		   payload JSON NOT NULL,
		   created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		   updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
		   PRIMARY KEY (result_id),
		   KEY idx_agent (agent_id)
		 )`,
		m.table,
	)
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// Save upserts an evaluation result into MySQL. A result without an ID gets
// one assigned from its agent ID and a fresh UUID.
func (m *manager) Save(ctx context.Context, res *result.EvaluationResult) error {
	if res == nil {
		return errors.New("result is nil")
	}
	if res.AgentID == "" {
		return errors.New("agent id is empty")
	}
	if res.ID == "" {
		res.ID = fmt.Sprintf("%s_%s", res.AgentID, uuid.New().String())
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal evaluation result: %w", err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (result_id, agent_id, question_set_id, status, payload)
		 VALUES (?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   agent_id = VALUES(agent_id),
		   question_set_id = VALUES(question_set_id),
		   status = VALUES(status),
		   payload = VALUES(payload),
		   updated_at = CURRENT_TIMESTAMP(6)`,
		m.table,
	)
	if _, err := m.db.ExecContext(ctx, query, res.ID, res.AgentID, res.QuestionSetID, res.Status.String(), payload); err != nil {
		return fmt.Errorf("store evaluation result %s: %w", res.ID, err)
	}
	return nil
}

// Get loads an evaluation result from MySQL.
func (m *manager) Get(ctx context.Context, id string) (*result.EvaluationResult, error) {
	if id == "" {
		return nil, errors.New("result id is empty")
	}
	query := fmt.Sprintf("SELECT payload FROM %s WHERE result_id = ?", m.table)
	var payload []byte
	if err := m.db.QueryRowContext(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("evaluation result %s not found: %w", id, os.ErrNotExist)
		}
		return nil, fmt.Errorf("load evaluation result %s: %w", id, err)
	}
	var res result.EvaluationResult
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation result %s: %w", id, err)
	}
	return &res, nil
}

// List returns all stored evaluation results, newest first.
func (m *manager) List(ctx context.Context) ([]*result.EvaluationResult, error) {
	query := fmt.Sprintf("SELECT payload FROM %s ORDER BY created_at DESC", m.table)
	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list evaluation results: %w", err)
	}
	defer rows.Close()
	results := make([]*result.EvaluationResult, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan evaluation result: %w", err)
		}
		var res result.EvaluationResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("unmarshal evaluation result: %w", err)
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list evaluation results: %w", err)
	}
	return results, nil
}

// Close releases the database handle when the manager opened it.
func (m *manager) Close() error {
	if m.db == nil || !m.ownedDB {
		return nil
	}
	return m.db.Close()
}
