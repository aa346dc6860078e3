//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file storage implementation for evaluation results.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/agentbench/grader/result"
)

const resultSuffix = ".eval_result.json"

var _ result.Manager = (*manager)(nil)

// manager implements the result.Manager interface using local file storage.
type manager struct {
	baseDir string
	mu      sync.Mutex
}

// NewManager creates a new local file evaluation result manager.
// Use functional options to override the default directory.
func NewManager(opt ...result.Option) result.Manager {
	opts := result.NewOptions(opt...)
	return &manager{baseDir: opts.BaseDir}
}

// Save stores an evaluation result to a local file. The write goes through a
// temporary file and a rename so readers never see a partial result.
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
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return err
	}
	path := m.resultPath(res.ID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Get retrieves an evaluation result by ID from local file.
func (m *manager) Get(ctx context.Context, id string) (*result.EvaluationResult, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

// List returns all stored evaluation results from local files.
func (m *manager) List(ctx context.Context) ([]*result.EvaluationResult, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*result.EvaluationResult{}, nil
		}
		return nil, err
	}
	var results []*result.EvaluationResult
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, resultSuffix) {
			continue
		}
		res, err := m.load(strings.TrimSuffix(name, resultSuffix))
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Close implements result.Manager.
func (m *manager) Close() error {
	return nil
}

func (m *manager) resultPath(id string) string {
	return filepath.Join(m.baseDir, id+resultSuffix)
}

func (m *manager) load(id string) (*result.EvaluationResult, error) {
	f, err := os.Open(m.resultPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("evaluation result %s not found: %w", id, os.ErrNotExist)
		}
		return nil, err
	}
	defer f.Close()
	var res result.EvaluationResult
	if err := json.NewDecoder(f).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode evaluation result %s: %w", id, err)
	}
	return &res, nil
}
