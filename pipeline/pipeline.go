//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package pipeline runs a question set against an agent and grades the answers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/agentbench/grader/adapter"
	"github.com/agentbench/grader/evaluator"
	"github.com/agentbench/grader/grader"
	"github.com/agentbench/grader/internal/extract"
	"github.com/agentbench/grader/log"
	"github.com/agentbench/grader/question"
	"github.com/agentbench/grader/result"
)

// Pipeline evaluates questions against an agent with bounded concurrency.
// One slow or failing question never sinks the run: its result records the
// failure and the other questions proceed.
type Pipeline struct {
	adapter       adapter.Adapter
	grader        *grader.Grader
	resultManager result.Manager
	toolSpecs     []adapter.ToolSpec
	agentID       string
	agentName     string
	questionSetID string
	timeout       time.Duration
	pool          *ants.PoolWithFunc
}

// New creates an evaluation pipeline for the given agent adapter.
func New(a adapter.Adapter, opt ...Option) (*Pipeline, error) {
	if a == nil {
		return nil, errors.New("adapter is nil")
	}
	opts := NewOptions(opt...)
	if opts.Timeout <= 0 {
		return nil, errors.New("timeout must be greater than 0")
	}
	pool, err := createQuestionEvalPool(opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("create question eval pool: %w", err)
	}
	return &Pipeline{
		adapter:       a,
		grader:        grader.New(grader.WithRegistry(opts.Registry)),
		resultManager: opts.ResultManager,
		toolSpecs:     opts.ToolSpecs,
		agentID:       opts.AgentID,
		agentName:     opts.AgentName,
		questionSetID: opts.QuestionSetID,
		timeout:       opts.Timeout,
		pool:          pool,
	}, nil
}

// Close releases the worker pool. It does not close the adapter or the
// result manager; their owners close them.
func (p *Pipeline) Close() error {
	if p.pool != nil {
		p.pool.Release()
	}
	return nil
}

// runState accumulates question results as workers complete and keeps the
// run's progress percentage current.
type runState struct {
	mu        sync.Mutex
	run       *result.EvaluationResult
	results   []*result.QuestionResult
	completed int
	total     int
}

func (s *runState) record(qr *result.QuestionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, qr)
	s.completed++
	s.run.Progress = float64(s.completed) / float64(s.total) * 100
	log.Infof("evaluated question %s (%d/%d): score=%.1f/%.1f passed=%t",
		qr.QuestionID, s.completed, s.total, qr.Score, qr.MaxScore, qr.Passed)
}

// Run evaluates every question and returns the summarized run result.
// Results appear in completion order. When a result manager is configured
// the run is persisted; a persistence failure is logged but does not fail
// the run.
func (p *Pipeline) Run(ctx context.Context, questions []*question.Question) (*result.EvaluationResult, error) {
	return p.run(ctx, questions, p.questionSetID)
}

// RunSet resolves a question set through the bank and evaluates it.
func (p *Pipeline) RunSet(ctx context.Context, bank question.Bank, setID string) (*result.EvaluationResult, error) {
	if bank == nil {
		return nil, errors.New("bank is nil")
	}
	questions, err := bank.Questions(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("resolve question set %s: %w", setID, err)
	}
	return p.run(ctx, questions, setID)
}

func (p *Pipeline) run(ctx context.Context, questions []*question.Question, setID string) (*result.EvaluationResult, error) {
	if len(questions) == 0 {
		return nil, errors.New("no questions to evaluate")
	}
	run := &result.EvaluationResult{
		ID:            uuid.New().String(),
		AgentID:       p.agentID,
		AgentName:     p.agentName,
		QuestionSetID: setID,
		Status:        result.StatusRunning,
		StartedAt:     time.Now(),
	}
	state := &runState{run: run, total: len(questions)}

	var wg sync.WaitGroup
	for _, q := range questions {
		wg.Add(1)
		param := questionEvalParamPool.Get().(*questionEvalParam)
		param.ctx = ctx
		param.q = q
		param.pipeline = p
		param.run = state
		param.wg = &wg
		if err := p.pool.Invoke(param); err != nil {
			wg.Done()
			param.reset()
			questionEvalParamPool.Put(param)
			state.record(p.failedResult(q, 0, fmt.Sprintf("submit question: %v", err)))
		}
	}
	wg.Wait()

	run.QuestionResults = state.results
	run.Status = result.StatusCompleted
	run.CompletedAt = time.Now()
	run.Summarize()

	if p.resultManager != nil {
		if err := p.resultManager.Save(ctx, run); err != nil {
			log.Errorf("save evaluation result %s: %v", run.ID, err)
		}
	}
	return run, nil
}

// evaluateQuestion runs one question end to end: prompt, agent call, grading.
// Call errors and timeouts become zero-score results instead of run failures.
func (p *Pipeline) evaluateQuestion(ctx context.Context, q *question.Question) *result.QuestionResult {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.adapter.Invoke(callCtx, &adapter.Request{
		Prompt: BuildPrompt(q),
		Tools:  p.toolSpecs,
	})
	latency := time.Since(start).Milliseconds()
	if err != nil {
		if adapter.IsTimeout(err) {
			qr := p.failedResult(q, p.timeout.Milliseconds(), err.Error())
			qr.Status = result.StatusTimeout
			qr.ExecutedAt = start
			return qr
		}
		qr := p.failedResult(q, latency, err.Error())
		qr.ExecutedAt = start
		return qr
	}

	in := &evaluator.Input{
		Text:      resp.Content,
		ToolCalls: resp.ToolCalls,
	}
	if parsed, _, ok := extract.RecoverJSON(resp.Content); ok {
		in.Parsed = parsed
	}
	outcome, err := p.grader.Grade(q, in)
	if err != nil {
		qr := p.failedResult(q, latency, err.Error())
		qr.ExecutedAt = start
		return qr
	}
	return &result.QuestionResult{
		QuestionID:    q.ID,
		Dimension:     q.Dimension,
		Status:        result.StatusCompleted,
		Answer:        resp.Content,
		ToolCallCount: len(resp.ToolCalls),
		Score:         outcome.Score,
		MaxScore:      q.Score,
		Passed:        outcome.Passed,
		Validations:   outcome.Results,
		LatencyMs:     latency,
		ExecutedAt:    start,
	}
}

func (p *Pipeline) failedResult(q *question.Question, latencyMs int64, message string) *result.QuestionResult {
	return &result.QuestionResult{
		QuestionID: q.ID,
		Dimension:  q.Dimension,
		Status:     result.StatusFailed,
		Score:      0,
		MaxScore:   q.Score,
		Passed:     false,
		Error:      message,
		LatencyMs:  latencyMs,
	}
}
