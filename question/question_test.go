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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveChecks(t *testing.T) {
	tests := []struct {
		name string
		rule ValidationRule
		want []CheckKind
	}{
		{
			name: "empty rule",
			rule: ValidationRule{},
			want: nil,
		},
		{
			name: "keywords only",
			rule: ValidationRule{MustContainKeywords: []string{"waiting period"}},
			want: []CheckKind{CheckKeyword},
		},
		{
			name: "prohibited only still keyword",
			rule: ValidationRule{ProhibitedKeywords: []string{"guaranteed return"}},
			want: []CheckKind{CheckKeyword},
		},
		{
			name: "everything",
			rule: ValidationRule{
				MustContainKeywords:  []string{"a"},
				ConclusionExactMatch: "approve",
				NumericPath:          "result.premium",
				NumericChecks:        []NumericCheck{{Path: "result.rate", Expected: 0.02}},
				RequiredTools:        []string{"rate_lookup"},
				LogicRules:           []LogicRule{{If: []string{"smoker"}, Then: "surcharge"}},
			},
			want: []CheckKind{
				CheckKeyword, CheckConclusion, CheckNumeric,
				CheckMultiNumeric, CheckToolCall, CheckLogic,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.ActiveChecks())
		})
	}
}

func TestInMemoryBank(t *testing.T) {
	bank := NewInMemoryBank()
	ctx := context.Background()

	require.NoError(t, bank.Add(&Question{ID: "q1", Dimension: DimensionKnowledge, Content: "a", Score: 10}))
	require.NoError(t, bank.Add(&Question{ID: "q2", Dimension: DimensionReasoning, Content: "b", Score: 20}))
	require.NoError(t, bank.AddSet(&Set{ID: "s1", QuestionIDs: []string{"q2", "q1", "dangling"}}))

	q, err := bank.Get(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "q1", q.ID)

	_, err = bank.Get(ctx, "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)

	questions, err := bank.Questions(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q2", questions[0].ID)
	assert.Equal(t, "q1", questions[1].ID)

	_, err = bank.Questions(ctx, "missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestInMemoryBankValidation(t *testing.T) {
	bank := NewInMemoryBank()
	assert.Error(t, bank.Add(nil))
	assert.Error(t, bank.Add(&Question{}))
	assert.Error(t, bank.AddSet(nil))
	assert.Error(t, bank.AddSet(&Set{}))
}
