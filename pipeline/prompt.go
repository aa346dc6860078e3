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
	"strings"

	"github.com/agentbench/grader/question"
)

// BuildPrompt renders the agent prompt for a question. Sections appear in a
// fixed order and empty sections are omitted, so the same question always
// produces the same prompt.
func BuildPrompt(q *question.Question) string {
	var b strings.Builder
	if q.Title != "" {
		b.WriteString("# ")
		b.WriteString(q.Title)
		b.WriteString("\n\n")
	}
	if q.Description != "" {
		b.WriteString(q.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("## Question\n")
	b.WriteString(q.Content)
	b.WriteString("\n")
	if q.Context != "" {
		b.WriteString("\n## Context\n")
		b.WriteString(q.Context)
		b.WriteString("\n")
	}
	if q.ExpectedSchema != nil && q.ExpectedSchema.OutputInstructions != "" {
		b.WriteString("\n## Output Requirements\n")
		b.WriteString(q.ExpectedSchema.OutputInstructions)
		b.WriteString("\n")
	}
	return b.String()
}
