//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory result manager for tests and embedding.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/agentbench/grader/result"
)

var _ result.Manager = (*manager)(nil)

// manager implements result.Manager backed by a map.
type manager struct {
	mu      sync.RWMutex
	results map[string]*result.EvaluationResult
}

// NewManager creates an empty in-memory result manager.
func NewManager() result.Manager {
	return &manager{results: make(map[string]*result.EvaluationResult)}
}

// Save stores an evaluation result, replacing any result with the same ID.
func (m *manager) Save(ctx context.Context, res *result.EvaluationResult) error {
	_ = ctx
	if res == nil {
		return errors.New("result is nil")
	}
	if res.ID == "" {
		return errors.New("result id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[res.ID] = res
	return nil
}

// Get returns the evaluation result with the given ID.
func (m *manager) Get(ctx context.Context, id string) (*result.EvaluationResult, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.results[id]
	if !ok {
		return nil, fmt.Errorf("evaluation result %s not found: %w", id, os.ErrNotExist)
	}
	return res, nil
}

// List returns all stored evaluation results.
func (m *manager) List(ctx context.Context) ([]*result.EvaluationResult, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]*result.EvaluationResult, 0, len(m.results))
	for _, res := range m.results {
		results = append(results, res)
	}
	return results, nil
}

// Close implements result.Manager.
func (m *manager) Close() error {
	return nil
}
