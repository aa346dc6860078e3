//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package adapter defines the contract between the evaluation pipeline and
// the agent under test. Concrete adapters live in subpackages.
package adapter

import (
	"context"
	"errors"
)

// ToolSpec describes a tool made available to the agent for a request.
type ToolSpec struct {
	// Name is the tool name.
	Name string `json:"name"`
	// Description tells the agent what the tool does.
	Description string `json:"description,omitempty"`
	// Parameters is a JSON Schema describing the tool arguments.
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ToolCall records one tool invocation emitted by the agent.
type ToolCall struct {
	// Name is the invoked tool name.
	Name string `json:"name"`
	// Arguments holds the call arguments.
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Request carries one prompt to the agent.
type Request struct {
	// Prompt is the full text sent to the agent.
	Prompt string
	// Tools lists the tools the agent may invoke.
	Tools []ToolSpec
}

// Response is the agent's answer to one request.
type Response struct {
	// Content is the free-text answer.
	Content string
	// ToolCalls lists tool invocations in emission order.
	ToolCalls []ToolCall
	// Usage holds token accounting when the agent reports it.
	Usage map[string]int
	// LatencyMs is the wall-clock latency measured by the adapter.
	LatencyMs int64
	// FinishReason reports why generation stopped.
	FinishReason string
}

// Adapter is the single operation the pipeline requires of an agent.
// Invoke may fail or hang; the pipeline bounds each call with a deadline.
type Adapter interface {
	// Invoke sends one prompt and returns the agent's response.
	Invoke(ctx context.Context, req *Request) (*Response, error)
	// Close releases adapter-owned resources.
	Close() error
}

// ErrorKind classifies adapter failures.
type ErrorKind int

const (
	// ErrorKindTransport covers connection-level failures.
	ErrorKindTransport ErrorKind = iota
	// ErrorKindAPI covers failures reported by the agent's API.
	ErrorKindAPI
	// ErrorKindTimeout covers deadline-exceeding invocations.
	ErrorKindTimeout
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindAPI:
		return "api"
	case ErrorKindTimeout:
		return "timeout"
	default:
		return "transport"
	}
}

// Error is a classified adapter failure.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Message describes the failure.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout-classified adapter error.
func NewTimeoutError(message string, err error) *Error {
	return &Error{Kind: ErrorKindTimeout, Message: message, Err: err}
}

// NewAPIError creates an API-classified adapter error.
func NewAPIError(message string, err error) *Error {
	return &Error{Kind: ErrorKindAPI, Message: message, Err: err}
}

// NewTransportError creates a transport-classified adapter error.
func NewTransportError(message string, err error) *Error {
	return &Error{Kind: ErrorKindTransport, Message: message, Err: err}
}

// IsTimeout reports whether err represents a timed-out invocation, either
// classified by the adapter or caused by an expired context deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == ErrorKindTimeout
	}
	return false
}
