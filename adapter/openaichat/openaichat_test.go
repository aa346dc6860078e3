//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package openaichat

import (
	"context"
	"testing"

	openai "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbench/grader/adapter"
)

func TestNewRequiresModel(t *testing.T) {
	_, err := New(WithAPIKey("sk-test"))
	assert.Error(t, err)

	a, err := New(WithModel("gpt-4o-mini"), WithAPIKey("sk-test"), WithBaseURL("http://localhost:1"))
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}

func TestInvokeValidation(t *testing.T) {
	a, err := New(WithModel("gpt-4o-mini"))
	require.NoError(t, err)
	_, err = a.Invoke(context.Background(), nil)
	assert.Error(t, err)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]adapter.ToolSpec{
		{
			Name:        "rate_lookup",
			Description: "looks up a rate",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"product": map[string]any{"type": "string"},
				},
			},
		},
		{Name: "noop"},
	})
	require.Len(t, tools, 2)
	assert.Equal(t, "rate_lookup", tools[0].Function.Name)
	assert.Contains(t, tools[0].Function.Parameters, "properties")
	assert.Equal(t, "noop", tools[1].Function.Name)
}

func TestConvertToolCalls(t *testing.T) {
	calls := convertToolCalls([]openai.ChatCompletionMessageToolCall{
		{
			Function: openai.ChatCompletionMessageToolCallFunction{
				Name:      "rate_lookup",
				Arguments: `{"product": "term", "age": 35}`,
			},
		},
		{
			Function: openai.ChatCompletionMessageToolCallFunction{
				Name:      "broken",
				Arguments: `not json`,
			},
		},
	})
	require.Len(t, calls, 2)
	assert.Equal(t, "rate_lookup", calls[0].Name)
	assert.Equal(t, "term", calls[0].Arguments["product"])
	assert.Equal(t, 35.0, calls[0].Arguments["age"])
	assert.Equal(t, "broken", calls[1].Name)
	assert.Nil(t, calls[1].Arguments)
}

func TestClassifyError(t *testing.T) {
	err := classifyError(context.DeadlineExceeded)
	assert.True(t, adapter.IsTimeout(err))

	var kindErr *adapter.Error
	err = classifyError(assert.AnError)
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, adapter.ErrorKindTransport, kindErr.Kind)
}
