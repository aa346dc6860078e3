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
	"database/sql"
	"time"
)

type options struct {
	dsn         string
	db          *sql.DB
	tablePrefix string
	skipDBInit  bool
	initTimeout time.Duration
}

func newOptions(opt ...Option) *options {
	opts := &options{
		tablePrefix: "grader_",
		initTimeout: 10 * time.Second,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// Option configures the MySQL result manager.
type Option func(*options)

// WithDSN sets the MySQL data source name used to open the connection.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithDB injects an existing database handle instead of opening one from a
// DSN. The manager does not close an injected handle.
func WithDB(db *sql.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithTablePrefix overrides the default table name prefix.
func WithTablePrefix(prefix string) Option {
	return func(o *options) {
		o.tablePrefix = prefix
	}
}

// WithSkipDBInit skips creating the results table on startup.
func WithSkipDBInit(skip bool) Option {
	return func(o *options) {
		o.skipDBInit = skip
	}
}

// WithInitTimeout bounds the schema initialization on startup.
func WithInitTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.initTimeout = timeout
	}
}
