// Package decomposer splits a model's free-text reply into an ordered block
// of actionable steps and a short encouragement. Model output shape is
// unpredictable, so the split is a layered heuristic that degrades to fixed
// fallback text rather than failing.
package decomposer

import (
	"strings"

	"github.com/guardian-ai/apiserver/types"
)

// Fallback text used when the reply cannot be split confidently.
const (
	FallbackSteps             = "Could not identify clear steps in the response."
	FallbackEncouragement     = "Remember, just starting is a win!"
	FallbackListEncouragement = "Focus on that first step, you can do it!"
	FallbackFirstStep         = "Just taking the first step is progress!"
	FallbackNoSteps           = "No specific steps identified."
	FallbackOneStepAtATime    = "Remember to take it one step at a time."
)

type lineClass int

const (
	lineBlank lineClass = iota
	lineListItem
	lineProse
)

// Decompose splits raw completion text into steps and encouragement.
// It is total and deterministic: the same input always yields the same
// result, and both fields are filled from raw text or fallback defaults.
func Decompose(raw string) types.DecompositionResult {
	paragraphs := splitParagraphs(raw)
	stepBlock, hasStepBlock := findStepBlock(raw)
	n := len(paragraphs)

	steps := FallbackSteps
	encouragement := FallbackEncouragement

	switch {
	case hasStepBlock && n > 1:
		steps = stepBlock
		last := paragraphs[n-1]
		if startsWithListItem(last) {
			// The trailing paragraph is itself a list; there is no prose
			// encouragement to lift out.
			encouragement = FallbackListEncouragement
		} else {
			encouragement = last
		}
	case n > 1:
		steps = strings.Join(paragraphs[:n-1], "\n\n")
		encouragement = paragraphs[n-1]
	case n == 1:
		if hasStepBlock {
			steps = raw
			encouragement = FallbackFirstStep
		} else {
			steps = FallbackNoSteps
			encouragement = paragraphs[0]
		}
	default:
		// Nothing but whitespace. Hand the raw text back as-is.
		steps = raw
		encouragement = FallbackOneStepAtATime
	}

	return types.DecompositionResult{
		Steps:         steps,
		Encouragement: encouragement,
	}
}

// classifyLine assigns a single line to one of three classes. A list item
// is optional indentation, then either a digit 1-9 followed by "." or ")",
// or one of "*", "-", "+", then at least one space or tab.
func classifyLine(line string) lineClass {
	i := 0
	for i < len(line) && isSpace(line[i]) {
		i++
	}
	if i == len(line) {
		return lineBlank
	}

	c := line[i]
	switch {
	case c >= '1' && c <= '9':
		if i+2 < len(line) && (line[i+1] == '.' || line[i+1] == ')') && isSpace(line[i+2]) {
			return lineListItem
		}
	case c == '*' || c == '-' || c == '+':
		if i+1 < len(line) && isSpace(line[i+1]) {
			return lineListItem
		}
	}
	return lineProse
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// splitParagraphs returns the trimmed non-empty paragraphs of raw, in
// order. A paragraph is a maximal run of non-blank lines separated from
// its neighbors by one or more blank lines.
func splitParagraphs(raw string) []string {
	lines := strings.Split(raw, "\n")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(current, "\n"))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
		current = current[:0]
	}

	for _, line := range lines {
		if classifyLine(line) == lineBlank {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// findStepBlock scans raw for the first maximal run of consecutive
// list-item lines. Blank lines terminate a run; a run of one line counts.
func findStepBlock(raw string) (string, bool) {
	lines := strings.Split(raw, "\n")

	start := -1
	for i, line := range lines {
		if classifyLine(line) == lineListItem {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return strings.TrimSpace(strings.Join(lines[start:i], "\n")), true
		}
	}
	if start >= 0 {
		return strings.TrimSpace(strings.Join(lines[start:], "\n")), true
	}
	return "", false
}

// startsWithListItem reports whether the first line of a trimmed paragraph
// looks like a list item.
func startsWithListItem(paragraph string) bool {
	first := paragraph
	if idx := strings.IndexByte(paragraph, '\n'); idx >= 0 {
		first = paragraph[:idx]
	}
	return classifyLine(first) == lineListItem
}
