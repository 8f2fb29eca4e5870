package llm

import (
	"fmt"
	"strings"

	"github.com/riggerhq/rigger/internal/utils"
)

// ExtractedTask is the schema a PRD-parsing / task-extraction LLM response
// is expected to match, strictly.
type ExtractedTask struct {
	Title     string `json:"title"`
	Assignee  string `json:"assignee,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// ExtractedComprehensionTest is the schema a comprehension-test generation
// response is expected to match, strictly.
type ExtractedComprehensionTest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
}

// fieldAliases documents the alias table as data: each canonical field name
// maps to the list of keys an LLM might use instead. Kept as data, not code
// branches, so new aliases are a config change (per original_source's
// json-tolerance design note).
var fieldAliases = map[string][]string{
	"title":          {"title", "task", "action", "item", "summary", "description", "name"},
	"assignee":       {"assignee", "owner", "assigned_to", "responsible", "who"},
	"due_date":       {"due_date", "due", "deadline", "date", "due_by"},
	"question":       {"question", "q", "prompt"},
	"correct_answer": {"correct_answer", "answer", "correct", "solution"},
	"options":        {"options", "choices", "answer_options", "alternatives"},
}

// ExtractBracketedSubstring returns the largest top-level-bracket-delimited
// substring of s: the outermost '[' through the last ']', or outermost '{'
// through the last '}', whichever is present. It does not itself validate
// JSON; callers parse the result.
func ExtractBracketedSubstring(s string) (string, error) {
	arrStart := strings.Index(s, "[")
	arrEnd := strings.LastIndex(s, "]")
	if arrStart >= 0 && arrEnd > arrStart {
		return s[arrStart : arrEnd+1], nil
	}
	objStart := strings.Index(s, "{")
	objEnd := strings.LastIndex(s, "}")
	if objStart >= 0 && objEnd > objStart {
		return s[objStart : objEnd+1], nil
	}
	return "", fmt.Errorf("no JSON array or object found in response")
}

// ParseTasksTolerant parses a possibly noisy LLM response into extracted
// tasks: extract the largest bracketed substring, try strict
// deserialization, and on failure fall back to alias-table-driven field
// rewriting. Entries missing a title after aliasing are dropped; if zero
// valid entries remain the operation fails.
func ParseTasksTolerant(responseText string) ([]ExtractedTask, error) {
	jsonStr, err := ExtractBracketedSubstring(responseText)
	if err != nil {
		return nil, err
	}

	if strict, err := utils.ExtractAndParseJSON[[]ExtractedTask](jsonStr); err == nil {
		if len(strict) == 0 {
			return nil, fmt.Errorf("no tasks found in response")
		}
		titled := true
		for _, et := range strict {
			if strings.TrimSpace(et.Title) == "" {
				titled = false
				break
			}
		}
		if titled {
			return strict, nil
		}
	}

	// Strict decoding failed even after utils' repair pass (missing commas,
	// single-quoted keys, etc.), or it left an entry without a title; fall
	// back to alias-table field rewriting on whatever map-shaped JSON the
	// repair pass could still recover.
	raw, err := utils.ExtractAndParseJSON[[]map[string]any](jsonStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	var out []ExtractedTask
	for _, obj := range raw {
		title := extractString(obj, fieldAliases["title"])
		if title == "" {
			continue
		}
		assignee := normalizeAssignee(extractString(obj, fieldAliases["assignee"]))
		dueDate := extractString(obj, fieldAliases["due_date"])

		out = append(out, ExtractedTask{
			Title:    title,
			Assignee: assignee,
			DueDate:  dueDate,
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: no valid tasks after alias mapping")
	}
	return out, nil
}

// ParseComprehensionTestTolerant mirrors ParseTasksTolerant for a single
// comprehension-test object (not an array).
func ParseComprehensionTestTolerant(responseText string) (*ExtractedComprehensionTest, error) {
	jsonStr, err := ExtractBracketedSubstring(responseText)
	if err != nil {
		return nil, err
	}

	if strict, err := utils.ExtractAndParseJSON[ExtractedComprehensionTest](jsonStr); err == nil && strict.Question != "" && strict.CorrectAnswer != "" {
		return &strict, nil
	}

	raw, err := utils.ExtractAndParseJSON[map[string]any](jsonStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	question := extractString(raw, fieldAliases["question"])
	correctAnswer := extractString(raw, fieldAliases["correct_answer"])
	if question == "" || correctAnswer == "" {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: missing required fields after alias mapping")
	}

	var options []string
	for _, key := range fieldAliases["options"] {
		if v, ok := raw[key]; ok {
			if arr, ok := v.([]any); ok {
				for _, item := range arr {
					if s, ok := item.(string); ok {
						options = append(options, s)
					}
				}
				break
			}
		}
	}

	return &ExtractedComprehensionTest{
		Question:      question,
		Options:       options,
		CorrectAnswer: correctAnswer,
	}, nil
}

// extractString returns the first non-empty string-like value found under
// any of keys, trimmed of surrounding whitespace.
func extractString(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			if s := strings.TrimSpace(val); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%v", val)
		case bool:
			return fmt.Sprintf("%v", val)
		}
	}
	return ""
}

// normalizeAssignee reduces an assignee value to its first
// whitespace-separated token, per spec.md §4.2.
func normalizeAssignee(assignee string) string {
	fields := strings.Fields(assignee)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
