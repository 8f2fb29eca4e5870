package rag

import "testing"

func TestChunkText_SplitsOnBlankLines(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\n\nThird paragraph after extra blank lines."
	chunks := ChunkText(text)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %v", len(chunks), chunks)
	}
	if chunks[0] != "First paragraph." || chunks[2] != "Third paragraph after extra blank lines." {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}

func TestChunkText_PreservesSingleNewlinesWithinAParagraph(t *testing.T) {
	text := "line one\nline two\n\nsecond paragraph"
	chunks := ChunkText(text)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %v", len(chunks), chunks)
	}
	if chunks[0] != "line one\nline two" {
		t.Errorf("chunk[0] = %q, want %q", chunks[0], "line one\nline two")
	}
}

func TestChunkText_DiscardsEmptyChunks(t *testing.T) {
	text := "only paragraph\n\n\n\n   \n\n"
	chunks := ChunkText(text)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1: %v", len(chunks), chunks)
	}
}

func TestChunkText_EmptyInput(t *testing.T) {
	if chunks := ChunkText(""); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %v", chunks)
	}
}
