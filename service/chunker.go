package service

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

const (
	DefaultMaxChunkSize = 8000

	headerScanLines   = 20
	headerContextCap  = 10
	headerMinDelimits = 3
)

var headerKeywordPattern = regexp.MustCompile(`(?i)\b(description|item|price|qty|quantity|pack|size|unit|uom|total|code)\b`)

// Chunk splits text into chunks of at most maxChunkSize characters, breaking
// only between lines. A single line longer than the budget becomes its own
// chunk. Joining the chunk texts with "\n" reproduces text exactly.
func Chunk(text string, maxChunkSize int) []dto.Chunk {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if text == "" {
		return nil
	}

	headerContext := HeaderContext(text)
	lines := strings.Split(text, "\n")

	var chunks []dto.Chunk
	var current []string
	size := 0

	flush := func() {
		idx := len(chunks)
		chunks = append(chunks, dto.Chunk{
			Index:          idx,
			Text:           strings.Join(current, "\n"),
			IsContinuation: idx > 0,
			HeaderContext:  headerContext,
		})
		current = nil
		size = 0
	}

	for _, line := range lines {
		added := len(line)
		if len(current) > 0 {
			added++ // joining newline
		}
		if len(current) > 0 && size+added > maxChunkSize {
			flush()
			added = len(line)
		}
		current = append(current, line)
		size += added
	}
	if len(current) > 0 {
		flush()
	}
	return chunks
}

// HeaderContext collects likely column-description lines from the start of a
// document so continuation chunks can be given the same table structure.
func HeaderContext(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > headerScanLines {
		lines = lines[:headerScanLines]
	}

	var matched []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if headerKeywordPattern.MatchString(trimmed) || countDelimiters(trimmed) >= headerMinDelimits {
			matched = append(matched, trimmed)
			if len(matched) == headerContextCap {
				break
			}
		}
	}
	return strings.Join(matched, "\n")
}

func countDelimiters(line string) int {
	return strings.Count(line, ",") + strings.Count(line, "|") + strings.Count(line, "\t")
}
