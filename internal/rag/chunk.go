// Package rag implements the knowledge-ingestion pipeline: splitting raw
// text into chunks, embedding them, and persisting them as retrievable
// Artifacts. Grounded on TaskWing's internal/knowledge ingestion shape
// (chunk, embed, persist) simplified to Rigger's flat artifact model —
// without the knowledge-graph node linking TaskWing layers on top, which
// this spec does not call for.
package rag

import "strings"

// ChunkText splits text into paragraph-sized chunks on runs of 2+
// newlines, trims surrounding whitespace from each chunk, and discards
// empty chunks.
func ChunkText(text string) []string {
	raw := splitOnBlankLines(text)
	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		chunks = append(chunks, trimmed)
	}
	return chunks
}

// splitOnBlankLines splits on any run of consecutive newlines of length 2
// or more, collapsing longer runs (3+ newlines) into a single boundary.
func splitOnBlankLines(text string) []string {
	var chunks []string
	var current strings.Builder
	newlineRun := 0

	flush := func() {
		chunks = append(chunks, current.String())
		current.Reset()
	}

	for _, r := range text {
		if r == '\n' {
			newlineRun++
			if newlineRun == 2 {
				flush()
			}
			continue
		}
		if newlineRun >= 2 {
			newlineRun = 0
		} else if newlineRun == 1 {
			// Single newline inside a paragraph: keep it as whitespace.
			current.WriteRune('\n')
			newlineRun = 0
		}
		current.WriteRune(r)
	}
	flush()
	return chunks
}
