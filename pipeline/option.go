//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"time"

	"github.com/agentbench/grader/adapter"
	"github.com/agentbench/grader/evaluator/factory"
	"github.com/agentbench/grader/result"
)

const (
	defaultConcurrency = 3
	defaultTimeout     = 60 * time.Second
)

// Options carries the pipeline settings.
type Options struct {
	// Concurrency is the number of questions evaluated in parallel.
	Concurrency int
	// Timeout bounds each individual agent call.
	Timeout time.Duration
	// AgentID identifies the evaluated agent in the run result.
	AgentID string
	// AgentName is a human-readable agent label.
	AgentName string
	// QuestionSetID labels the run with the evaluated question set.
	QuestionSetID string
	// ResultManager persists the run result when set.
	ResultManager result.Manager
	// Registry overrides the evaluator registry used for grading.
	Registry *factory.Registry
	// ToolSpecs lists the tools offered to the agent on every call.
	ToolSpecs []adapter.ToolSpec
}

// NewOptions applies the given options on top of the defaults.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		Concurrency: defaultConcurrency,
		Timeout:     defaultTimeout,
		Registry:    factory.NewRegistry(),
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the evaluation pipeline.
type Option func(*Options)

// WithConcurrency sets the number of questions evaluated in parallel.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithTimeout bounds each individual agent call.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithAgentID identifies the evaluated agent in the run result.
func WithAgentID(id string) Option {
	return func(o *Options) {
		o.AgentID = id
	}
}

// WithAgentName sets a human-readable agent label.
func WithAgentName(name string) Option {
	return func(o *Options) {
		o.AgentName = name
	}
}

// WithQuestionSetID labels the run with the evaluated question set.
func WithQuestionSetID(id string) Option {
	return func(o *Options) {
		o.QuestionSetID = id
	}
}

// WithResultManager persists run results through the given manager.
func WithResultManager(manager result.Manager) Option {
	return func(o *Options) {
		o.ResultManager = manager
	}
}

// WithRegistry overrides the evaluator registry used for grading.
func WithRegistry(registry *factory.Registry) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

// WithToolSpecs lists the tools offered to the agent on every call.
func WithToolSpecs(specs []adapter.ToolSpec) Option {
	return func(o *Options) {
		o.ToolSpecs = specs
	}
}
