//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package result

// Options carries the settings shared by result manager implementations.
type Options struct {
	// BaseDir is the directory file-backed managers store results under.
	BaseDir string
}

// NewOptions applies the given options on top of the defaults.
func NewOptions(opt ...Option) *Options {
	opts := &Options{
		BaseDir: "eval_results",
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures a result manager.
type Option func(*Options)

// WithBaseDir overrides the default base directory used to store results.
func WithBaseDir(dir string) Option {
	return func(o *Options) {
		o.BaseDir = dir
	}
}
