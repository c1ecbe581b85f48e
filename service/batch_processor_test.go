package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// lineItemGenerator turns every line of the prompt's document text into a
// CSV row. Continuation chunks are answered without a header line.
func lineItemGenerator() *promptGenerator {
	return &promptGenerator{fn: func(req dto.GenerateRequest) (string, error) {
		idx := strings.Index(req.Prompt, "Document Text:\n")
		if idx < 0 {
			return "", fmt.Errorf("prompt has no document text")
		}
		body := req.Prompt[idx+len("Document Text:\n"):]
		var out []string
		if !strings.HasPrefix(req.Prompt, "This text continues") {
			out = append(out, canonicalHeaderLine)
		}
		for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
			fields := strings.Fields(line)
			if len(fields) < 3 {
				continue
			}
			out = append(out, fmt.Sprintf("%s,%s,%s,,,,,,,,,45", fields[0], fields[1], fields[2]))
		}
		return strings.Join(out, "\n"), nil
	}}
}

func invoiceText(names ...string) string {
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = fmt.Sprintf("%s %d.50 %d", n, i+1, i+2)
	}
	return strings.Join(lines, "\n")
}

func TestProcessDocumentReassemblesChunksWithOneHeader(t *testing.T) {
	const url = "https://files.example.test/invoice.pdf"
	text := invoiceText("Apples", "Milk", "Rice", "Beans")
	gen := lineItemGenerator()

	bp := NewBatchProcessor(
		&fakeFetcher{files: map[string][]byte{url: pdfBytes}},
		&fakeTextSource{texts: map[string]string{url: text}},
		NewExtractionClient(gen, 3, 0),
		len("Apples 1.50 2\nMilk 2.50 3"),
		4,
	)

	result := bp.ProcessDocument(context.Background(), "test", url, NewFoodIndex(testFoodIndex))

	require.Empty(t, result.Error)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, "pdf", result.Kind)
	assert.Equal(t, 2, gen.calls)

	lines := strings.Split(result.CSV, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, canonicalHeaderLine, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Apples,"))
	assert.True(t, strings.HasPrefix(lines[2], "Milk,"))
	assert.True(t, strings.HasPrefix(lines[3], "Rice,"))
	assert.True(t, strings.HasPrefix(lines[4], "Beans,"))
}

func TestProcessDocumentFallsBackToDocumentMode(t *testing.T) {
	const url = "https://files.example.test/scan.pdf"
	gen := &scriptedGenerator{responses: []string{validOutput(2)}}

	bp := NewBatchProcessor(
		&fakeFetcher{files: map[string][]byte{url: pdfBytes}},
		&fakeTextSource{texts: map[string]string{}},
		NewExtractionClient(gen, 3, 0),
		0, 0,
	)

	result := bp.ProcessDocument(context.Background(), "test", url, NewFoodIndex(testFoodIndex))

	require.Empty(t, result.Error)
	assert.Equal(t, 2, result.Rows)
	require.Len(t, gen.requests, 1)
	assert.Equal(t, pdfBytes, gen.requests[0].Document)
	assert.Equal(t, "application/pdf", gen.requests[0].DocumentMIME)
}

func TestProcessDocumentRejectsUnknownFileType(t *testing.T) {
	const url = "https://files.example.test/notes.txt"
	bp := NewBatchProcessor(
		&fakeFetcher{files: map[string][]byte{url: []byte("plain text")}},
		&fakeTextSource{},
		NewExtractionClient(&scriptedGenerator{}, 3, 0),
		0, 0,
	)

	result := bp.ProcessDocument(context.Background(), "test", url, NewFoodIndex(testFoodIndex))
	assert.Equal(t, "unknown", result.Kind)
	assert.Contains(t, result.Error, "unsupported file type")
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	good1 := "https://files.example.test/a.pdf"
	good2 := "https://files.example.test/b.pdf"
	missing := "https://files.example.test/missing.pdf"

	bp := NewBatchProcessor(
		&fakeFetcher{files: map[string][]byte{good1: pdfBytes, good2: pdfBytes}},
		&fakeTextSource{texts: map[string]string{
			good1: invoiceText("Apples", "Milk"),
			good2: invoiceText("Rice"),
		}},
		NewExtractionClient(lineItemGenerator(), 3, 0),
		0, 2,
	)

	results := bp.ProcessBatch(context.Background(), "test", []string{good1, missing, good2}, NewFoodIndex(testFoodIndex))
	require.Len(t, results, 3)

	byURL := make(map[string]dto.DocumentResult)
	for _, r := range results {
		byURL[r.URL] = r
	}
	assert.Contains(t, byURL[missing].Error, "download failed")
	assert.Empty(t, byURL[good1].Error)
	assert.Equal(t, 2, byURL[good1].Rows)
	assert.Equal(t, 1, byURL[good2].Rows)

	rows := CombineResults(results)
	assert.Len(t, rows, 3)
}

type panickingExtractor struct{}

func (panickingExtractor) Extract(ctx context.Context, req ExtractionRequest) ExtractionResult {
	panic("boom")
}

func TestProcessBatchRecoversFromPanics(t *testing.T) {
	url := "https://files.example.test/a.pdf"
	bp := NewBatchProcessor(
		&fakeFetcher{files: map[string][]byte{url: pdfBytes}},
		&fakeTextSource{texts: map[string]string{url: invoiceText("Apples")}},
		panickingExtractor{},
		0, 0,
	)

	results := bp.ProcessBatch(context.Background(), "test", []string{url}, NewFoodIndex(testFoodIndex))
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "internal error")
}
