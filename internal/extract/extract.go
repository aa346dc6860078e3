//
// AgentBench is pleased to support the open source community by making agentbench-grader available.
//
// Copyright (C) 2025 AgentBench.  All rights reserved.
//
// agentbench-grader is licensed under the Apache License Version 2.0.
//
//

// Package extract provides best-effort extraction of structured data, numbers
// and conclusions from agent output. Agents are not guaranteed to emit pure
// structured output even when instructed to, so every helper here degrades
// through an ordered chain of strategies and reports absence instead of failing.
package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	jsonFencePattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFencePattern  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// jsonCandidates is the ordered list of strategies that locate a JSON
// document inside free text. Each strategy returns a candidate substring;
// the caller keeps the first candidate that parses.
var jsonCandidates = []func(text string) (string, bool){
	func(text string) (string, bool) {
		return text, true
	},
	func(text string) (string, bool) {
		m := jsonFencePattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	},
	func(text string) (string, bool) {
		m := anyFencePattern.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	},
	func(text string) (string, bool) {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return "", false
		}
		return text[start : end+1], true
	},
}

// RecoverJSON attempts to recover a JSON object from free text: direct parse,
// then a ```json fence, then any fence, then the outermost brace-delimited
// substring. It returns the parsed object, the raw candidate it parsed, and
// whether anything was found.
func RecoverJSON(text string) (map[string]any, string, bool) {
	for _, candidate := range jsonCandidates {
		raw, ok := candidate(text)
		if !ok {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil && parsed != nil {
			return parsed, raw, true
		}
	}
	return nil, "", false
}

// Lookup traverses data along a dotted path, e.g. "result.premium".
// Integer segments index into arrays. It never panics; any missing segment
// or type mismatch reports false.
func Lookup(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}
			current = node[index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Number coerces a looked-up value into a float64.
func Number(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", ""), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// NumberAtPath reads a numeric value at a dotted path from a raw JSON document.
func NumberAtPath(raw, path string) (float64, bool) {
	if raw == "" || path == "" {
		return 0, false
	}
	result := gjson.Get(raw, path)
	switch result.Type {
	case gjson.Number:
		return result.Num, true
	case gjson.String:
		return Number(result.Str)
	default:
		return 0, false
	}
}

// numberPatterns match labeled results ("result: 1234"), equations ("= 1234")
// and currency-suffixed amounts ("1234元", "$1234"), in that order.
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:result|answer|total|amount|premium|结果|答案|保费|金额|计算结果|最终结果)\s*[:：]\s*(-?[\d,]+\.?\d*)`),
	regexp.MustCompile(`[=＝]\s*(-?[\d,]+\.?\d*)`),
	regexp.MustCompile(`(-?[\d,]+\.?\d*)\s*(?:元|块|￥|\$)`),
	regexp.MustCompile(`[￥\$]\s*(-?[\d,]+\.?\d*)`),
}

// NumberFromText scans free text for a result-announcing numeric value.
// This is the last-resort extraction strategy for numeric grading.
func NumberFromText(text string) (float64, bool) {
	for _, pattern := range numberPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return value, true
	}
	return 0, false
}

// conclusionPatterns match conclusion-announcing phrases and capture the
// remainder of the line.
var conclusionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:conclusion|verdict|decision|判定|结论|处理意见|理赔结论|核保结论)\s*[:：]\s*(.+?)(?:\n|$)`),
	regexp.MustCompile(`(?i)(?:therefore|thus|in conclusion|因此|所以|综上)[,:，：]?\s*(.+?)(?:\n|$)`),
}

// ConclusionFromText scans free text for a stated conclusion.
func ConclusionFromText(text string) (string, bool) {
	for _, pattern := range conclusionPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		conclusion := strings.TrimSpace(m[1])
		if conclusion != "" {
			return conclusion, true
		}
	}
	return "", false
}
