//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package openaichat adapts an OpenAI-compatible chat completion endpoint to
// the agent adapter interface.
package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/agentbench/grader/adapter"
	"github.com/agentbench/grader/log"
)

var _ adapter.Adapter = (*Adapter)(nil)

// Adapter invokes an agent behind an OpenAI-compatible chat endpoint.
type Adapter struct {
	client openai.Client
	opts   *options
}

type options struct {
	apiKey      string
	baseURL     string
	model       string
	temperature *float64
	maxTokens   *int64
}

// Option configures the OpenAI chat adapter.
type Option func(*options)

// WithAPIKey sets the API key used to authenticate requests.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithBaseURL overrides the endpoint base URL, e.g. for compatible gateways.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithModel sets the model name sent with every request.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(o *options) {
		o.temperature = &temperature
	}
}

// WithMaxTokens bounds the completion length.
func WithMaxTokens(maxTokens int64) Option {
	return func(o *options) {
		o.maxTokens = &maxTokens
	}
}

// New creates an OpenAI chat adapter.
func New(opt ...Option) (*Adapter, error) {
	opts := &options{}
	for _, o := range opt {
		o(opts)
	}
	if opts.model == "" {
		return nil, errors.New("model is empty")
	}
	var clientOpts []openaiopt.RequestOption
	if opts.apiKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(opts.apiKey))
	}
	if opts.baseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(opts.baseURL))
	}
	return &Adapter{
		client: openai.NewClient(clientOpts...),
		opts:   opts,
	}, nil
}

// Invoke sends the prompt as a single-turn chat completion and maps the
// first choice back to an adapter response.
func (a *Adapter) Invoke(ctx context.Context, req *adapter.Request) (*adapter.Response, error) {
	if req == nil {
		return nil, errors.New("request is nil")
	}
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(a.opts.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Tools: convertTools(req.Tools),
	}
	if a.opts.temperature != nil {
		params.Temperature = openai.Float(*a.opts.temperature)
	}
	if a.opts.maxTokens != nil {
		params.MaxCompletionTokens = openai.Int(*a.opts.maxTokens)
	}

	start := time.Now()
	completion, err := a.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, classifyError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, adapter.NewAPIError("chat completion returned no choices", nil)
	}
	choice := completion.Choices[0]
	resp := &adapter.Response{
		Content:      choice.Message.Content,
		ToolCalls:    convertToolCalls(choice.Message.ToolCalls),
		FinishReason: string(choice.FinishReason),
		LatencyMs:    latency,
		Usage: map[string]int{
			"promptTokens":     int(completion.Usage.PromptTokens),
			"completionTokens": int(completion.Usage.CompletionTokens),
			"totalTokens":      int(completion.Usage.TotalTokens),
		},
	}
	return resp, nil
}

// Close implements adapter.Adapter. The underlying HTTP client needs no
// explicit shutdown.
func (a *Adapter) Close() error {
	return nil
}

func convertTools(tools []adapter.ToolSpec) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, t := range tools {
		var parameters shared.FunctionParameters
		if t.Parameters != nil {
			schemaBytes, err := json.Marshal(t.Parameters)
			if err != nil {
				log.Errorf("marshal tool schema for %s: %v", t.Name, err)
				continue
			}
			if err := json.Unmarshal(schemaBytes, &parameters); err != nil {
				log.Errorf("unmarshal tool schema for %s: %v", t.Name, err)
				continue
			}
		}
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  parameters,
			},
		})
	}
	return result
}

func convertToolCalls(calls []openai.ChatCompletionMessageToolCall) []adapter.ToolCall {
	result := make([]adapter.ToolCall, 0, len(calls))
	for _, call := range calls {
		converted := adapter.ToolCall{Name: call.Function.Name}
		if call.Function.Arguments != "" {
			var args map[string]any
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				log.Errorf("unmarshal tool call arguments for %s: %v", call.Function.Name, err)
			} else {
				converted.Arguments = args
			}
		}
		result = append(result, converted)
	}
	return result
}

// classifyError maps transport-level failures onto adapter error kinds so the
// pipeline can tell a timeout from an endpoint failure.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return adapter.NewTimeoutError("chat completion timed out", err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return adapter.NewAPIError(fmt.Sprintf("chat completion failed with status %d", apiErr.StatusCode), err)
	}
	return adapter.NewTransportError("chat completion request failed", err)
}
