//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

package result

import "github.com/agentbench/grader/question"

// Summarize recomputes the run-level aggregates from the question results:
// score totals, status counts, latency statistics and per-dimension rollups.
// It is called once after all questions finish and is safe to call again
// after the result set changes.
func (r *EvaluationResult) Summarize() {
	r.TotalScore = 0
	r.MaxScore = 0
	r.OverallPercentage = 0
	r.PassRate = 0
	r.TotalQuestions = len(r.QuestionResults)
	r.CompletedCount = 0
	r.FailedCount = 0
	r.TimeoutCount = 0
	r.TotalLatencyMs = 0
	r.AvgLatencyMs = 0
	r.DimensionScores = make(map[question.Dimension]*DimensionScore)

	passed := 0
	var completedLatency int64
	for _, qr := range r.QuestionResults {
		r.TotalScore += qr.Score
		r.MaxScore += qr.MaxScore
		r.TotalLatencyMs += qr.LatencyMs
		if qr.Passed {
			passed++
		}
		switch qr.Status {
		case StatusFailed:
			r.FailedCount++
		case StatusTimeout:
			r.TimeoutCount++
		default:
			r.CompletedCount++
			completedLatency += qr.LatencyMs
		}

		ds, ok := r.DimensionScores[qr.Dimension]
		if !ok {
			ds = &DimensionScore{Dimension: qr.Dimension}
			r.DimensionScores[qr.Dimension] = ds
		}
		ds.Score += qr.Score
		ds.MaxScore += qr.MaxScore
		ds.QuestionCount++
		if qr.Passed {
			ds.PassedCount++
		}
	}
	for _, ds := range r.DimensionScores {
		if ds.MaxScore > 0 {
			ds.Percentage = ds.Score / ds.MaxScore * 100
		}
	}
	if r.MaxScore > 0 {
		r.OverallPercentage = r.TotalScore / r.MaxScore * 100
	}
	if r.TotalQuestions > 0 {
		r.PassRate = float64(passed) / float64(r.TotalQuestions)
	}
	if r.CompletedCount > 0 {
		r.AvgLatencyMs = float64(completedLatency) / float64(r.CompletedCount)
	}
}
