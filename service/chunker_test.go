package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinChunks(t *testing.T, text string, max int) []string {
	t.Helper()
	chunks := Chunk(text, max)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, i > 0, c.IsContinuation)
		texts[i] = c.Text
	}
	return texts
}

func TestChunkReconstructsInput(t *testing.T) {
	var lines []string
	for i := 0; i < 200; i++ {
		lines = append(lines, fmt.Sprintf("Item %03d  6/10 LB  %d.25  CS", i, i))
	}
	text := strings.Join(lines, "\n")

	texts := joinChunks(t, text, 500)
	require.Greater(t, len(texts), 1)
	assert.Equal(t, text, strings.Join(texts, "\n"))
	for _, c := range texts {
		assert.LessOrEqual(t, len(c), 500)
	}
}

func TestChunkKeepsOversizedLineWhole(t *testing.T) {
	long := strings.Repeat("x", 120)
	text := "short one\n" + long + "\nshort two"

	texts := joinChunks(t, text, 50)
	require.Len(t, texts, 3)
	assert.Equal(t, long, texts[1])
	assert.Equal(t, text, strings.Join(texts, "\n"))
}

func TestChunkPreservesBlankLines(t *testing.T) {
	text := "a\n\n\nb\n"
	texts := joinChunks(t, text, 2)
	assert.Equal(t, text, strings.Join(texts, "\n"))
}

func TestChunkSmallInputIsSingleChunk(t *testing.T) {
	chunks := Chunk("Description Qty Price\nApples 2 1.50", 0)
	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].IsContinuation)
	assert.Contains(t, chunks[0].HeaderContext, "Description Qty Price")
}

func TestChunkEmptyInput(t *testing.T) {
	assert.Empty(t, Chunk("", 100))
}

func TestHeaderContext(t *testing.T) {
	var lines []string
	lines = append(lines, "ACME FOODS INC", "Invoice 1234", "Item Description | Pack | Size | Price")
	lines = append(lines, "a,b,c,d")
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("Total due %d", i))
	}
	ctx := HeaderContext(strings.Join(lines, "\n"))
	got := strings.Split(ctx, "\n")

	assert.Len(t, got, headerContextCap)
	assert.Equal(t, "Item Description | Pack | Size | Price", got[0])
	assert.Equal(t, "a,b,c,d", got[1])
	assert.NotContains(t, ctx, "ACME FOODS INC")
}

func TestHeaderContextScansOnlyLeadingLines(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = "nothing here"
	}
	lines[22] = "Description,Price,Quantity"
	assert.Empty(t, HeaderContext(strings.Join(lines, "\n")))
}
