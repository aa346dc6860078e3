//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package question

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Set groups questions for a single evaluation run.
type Set struct {
	// ID uniquely identifies the set.
	ID string `json:"id"`
	// Name is a human-readable label.
	Name string `json:"name,omitempty"`
	// QuestionIDs lists member questions in submission order.
	QuestionIDs []string `json:"questionIds"`
}

// Bank provides read access to questions. The pipeline consumes questions
// through this boundary and never mutates or persists them.
type Bank interface {
	// Get retrieves a question by ID.
	Get(ctx context.Context, id string) (*Question, error)
	// Questions resolves a set into its member questions, preserving order.
	Questions(ctx context.Context, setID string) ([]*Question, error)
}

// InMemoryBank implements Bank using in-memory storage.
type InMemoryBank struct {
	mu        sync.RWMutex
	questions map[string]*Question
	sets      map[string]*Set
}

// NewInMemoryBank creates an empty in-memory question bank.
func NewInMemoryBank() *InMemoryBank {
	return &InMemoryBank{
		questions: make(map[string]*Question),
		sets:      make(map[string]*Set),
	}
}

// Add stores a question in the bank. Same ID overwrites.
func (b *InMemoryBank) Add(q *Question) error {
	if q == nil {
		return errors.New("question is nil")
	}
	if q.ID == "" {
		return errors.New("question id is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.questions[q.ID] = q
	return nil
}

// AddSet stores a question set in the bank. Same ID overwrites.
func (b *InMemoryBank) AddSet(s *Set) error {
	if s == nil {
		return errors.New("set is nil")
	}
	if s.ID == "" {
		return errors.New("set id is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sets[s.ID] = s
	return nil
}

// Get retrieves a question by ID.
// Returns os.ErrNotExist if the question is not found.
func (b *InMemoryBank) Get(_ context.Context, id string) (*Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.questions[id]
	if !ok {
		return nil, fmt.Errorf("get question %s: %w", id, os.ErrNotExist)
	}
	return q, nil
}

// Questions resolves a set into its member questions, preserving the set's
// declared order and skipping dangling IDs.
func (b *InMemoryBank) Questions(_ context.Context, setID string) ([]*Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sets[setID]
	if !ok {
		return nil, fmt.Errorf("get question set %s: %w", setID, os.ErrNotExist)
	}
	questions := make([]*Question, 0, len(s.QuestionIDs))
	for _, id := range s.QuestionIDs {
		if q, ok := b.questions[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
