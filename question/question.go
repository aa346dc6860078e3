//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package question defines the grading unit consumed by the evaluation pipeline.
package question

// Dimension is the coarse grading category used for report rollups.
type Dimension string

const (
	// DimensionKnowledge covers domain knowledge questions.
	DimensionKnowledge Dimension = "knowledge"
	// DimensionUnderstanding covers intent and requirement understanding questions.
	DimensionUnderstanding Dimension = "understanding"
	// DimensionReasoning covers multi-step professional reasoning questions.
	DimensionReasoning Dimension = "reasoning"
	// DimensionCompliance covers safety and compliance questions.
	DimensionCompliance Dimension = "compliance"
	// DimensionTools covers tool invocation questions.
	DimensionTools Dimension = "tools"
)

// String returns the dimension name.
func (d Dimension) String() string {
	return string(d)
}

// ToleranceType selects how a numeric error is measured against the tolerance.
type ToleranceType string

const (
	// ToleranceAbsolute compares |actual-expected| against the tolerance.
	ToleranceAbsolute ToleranceType = "absolute"
	// ToleranceRelative compares |actual-expected|/|expected| against the tolerance.
	ToleranceRelative ToleranceType = "relative"
)

// NumericCheck verifies a single value at a dotted path in the structured output.
type NumericCheck struct {
	// Path is the dotted path of the value, e.g. "result.premium".
	Path string `json:"path"`
	// Expected is the reference value.
	Expected float64 `json:"expected"`
	// Tolerance is the allowed error.
	Tolerance float64 `json:"tolerance,omitempty"`
	// ToleranceType selects absolute or relative error. Defaults to absolute.
	ToleranceType ToleranceType `json:"toleranceType,omitempty"`
}

// ParamCheck verifies a named argument of a named tool call.
type ParamCheck struct {
	// Tool is the tool name whose call is inspected.
	Tool string `json:"tool"`
	// Param is the argument name inside the tool call.
	Param string `json:"param"`
	// Expected is the argument value the call must carry.
	Expected any `json:"expected"`
}

// LogicRule states that when all If conditions appear in the answer, the Then
// conclusion must appear as well.
type LogicRule struct {
	// If lists the textual conditions that make the rule applicable.
	If []string `json:"if"`
	// Then is the conclusion expected when the rule applies.
	Then string `json:"then"`
}

// ValidationRule enumerates which checks apply to a question and their parameters.
// Presence of a field activates the corresponding evaluator; see ActiveChecks.
type ValidationRule struct {
	// MustContainKeywords lists keywords that must all appear in the answer.
	MustContainKeywords []string `json:"mustContainKeywords,omitempty"`
	// MustContainAny lists keywords of which at least one must appear.
	MustContainAny []string `json:"mustContainAny,omitempty"`
	// ProhibitedKeywords lists keywords that must not appear (hallucination / compliance guard).
	ProhibitedKeywords []string `json:"prohibitedKeywords,omitempty"`

	// ConclusionExactMatch requires the extracted conclusion to equal this value.
	ConclusionExactMatch string `json:"conclusionExactMatch,omitempty"`
	// ConclusionMustBeOneOf requires the extracted conclusion to equal one of these values.
	ConclusionMustBeOneOf []string `json:"conclusionMustBeOneOf,omitempty"`

	// NumericPath is the dotted path of the numeric answer, e.g. "result.premium".
	NumericPath string `json:"numericPath,omitempty"`
	// NumericTolerance is the allowed error for the numeric answer.
	NumericTolerance float64 `json:"numericTolerance,omitempty"`
	// NumericToleranceType selects absolute or relative error. Defaults to absolute.
	NumericToleranceType ToleranceType `json:"numericToleranceType,omitempty"`
	// NumericChecks verifies several intermediate values independently.
	NumericChecks []NumericCheck `json:"numericChecks,omitempty"`

	// RequiredTools lists tools the agent must invoke.
	RequiredTools []string `json:"requiredTools,omitempty"`
	// ToolSequence is the expected call-name sequence when ToolSequenceStrict is set.
	ToolSequence []string `json:"toolSequence,omitempty"`
	// ToolSequenceStrict requires the observed call sequence to equal ToolSequence exactly.
	ToolSequenceStrict bool `json:"toolSequenceStrict,omitempty"`
	// ParamChecks verifies arguments of individual tool calls.
	ParamChecks []ParamCheck `json:"paramChecks,omitempty"`

	// LogicRules verifies condition/conclusion pairs against the raw answer text.
	LogicRules []LogicRule `json:"logicRules,omitempty"`
}

// CheckKind tags one category of validation check.
type CheckKind string

const (
	// CheckSchema validates structured output against the expected schema.
	CheckSchema CheckKind = "schema_validation"
	// CheckKeyword validates required / any / prohibited keywords.
	CheckKeyword CheckKind = "keyword_check"
	// CheckConclusion validates the extracted conclusion.
	CheckConclusion CheckKind = "conclusion_check"
	// CheckNumeric validates the numeric answer within tolerance.
	CheckNumeric CheckKind = "numeric_check"
	// CheckMultiNumeric validates several intermediate values.
	CheckMultiNumeric CheckKind = "multi_numeric_check"
	// CheckToolCall validates required tools, sequence and parameters.
	CheckToolCall CheckKind = "tool_call_check"
	// CheckLogic validates logic rules against the raw text.
	CheckLogic CheckKind = "logic_rule"
)

// ExpectedSchema is the structural contract the answer should satisfy.
type ExpectedSchema struct {
	// SchemaDefinition is a JSON Schema document.
	SchemaDefinition map[string]any `json:"schemaDefinition,omitempty"`
	// RequiredFields lists dotted paths that must be present in the output.
	RequiredFields []string `json:"requiredFields,omitempty"`
	// OutputInstructions is appended to the prompt to request the format.
	OutputInstructions string `json:"outputInstructions,omitempty"`
}

// Question is an immutable grading unit. The pipeline never mutates questions.
type Question struct {
	// ID uniquely identifies the question.
	ID string `json:"id"`
	// Dimension is the grading category of the question.
	Dimension Dimension `json:"dimension"`
	// Title is an optional short heading included in the prompt.
	Title string `json:"title,omitempty"`
	// Description is optional guidance included in the prompt.
	Description string `json:"description,omitempty"`
	// Content is the question body sent to the agent.
	Content string `json:"content"`
	// Context is optional background material, e.g. policy clauses.
	Context string `json:"context,omitempty"`
	// ExpectedSchema constrains the structure of the answer when set.
	ExpectedSchema *ExpectedSchema `json:"expectedSchema,omitempty"`
	// Rules enumerates the validation checks applied to the answer.
	Rules ValidationRule `json:"validationRules"`
	// GroundTruth holds reference values consumed by numeric/conclusion checks.
	GroundTruth map[string]any `json:"groundTruth,omitempty"`
	// Score is the declared point value of the question.
	Score float64 `json:"score"`
	// Tags carries free-form labels.
	Tags []string `json:"tags,omitempty"`
}

// ActiveChecks derives which check categories this rule activates, in the
// order the evaluator factory instantiates them. The schema check is driven
// by Question.ExpectedSchema and is not part of this derivation.
func (r ValidationRule) ActiveChecks() []CheckKind {
	var kinds []CheckKind
	if len(r.MustContainKeywords) > 0 || len(r.MustContainAny) > 0 || len(r.ProhibitedKeywords) > 0 {
		kinds = append(kinds, CheckKeyword)
	}
	if r.ConclusionExactMatch != "" || len(r.ConclusionMustBeOneOf) > 0 {
		kinds = append(kinds, CheckConclusion)
	}
	if r.NumericPath != "" {
		kinds = append(kinds, CheckNumeric)
	}
	if len(r.NumericChecks) > 0 {
		kinds = append(kinds, CheckMultiNumeric)
	}
	if len(r.RequiredTools) > 0 || len(r.ToolSequence) > 0 || len(r.ParamChecks) > 0 {
		kinds = append(kinds, CheckToolCall)
	}
	if len(r.LogicRules) > 0 {
		kinds = append(kinds, CheckLogic)
	}
	return kinds
}
