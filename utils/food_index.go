package utils

import (
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// ParseFoodIndex parses "code: description" lines. Lines without a colon are
// kept as free text entries.
func ParseFoodIndex(content string) []dto.FoodIndexEntry {
	var entries []dto.FoodIndexEntry
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) == 2 {
			entries = append(entries, dto.FoodIndexEntry{
				Code:        strings.TrimSpace(parts[0]),
				Description: strings.TrimSpace(parts[1]),
			})
			continue
		}
		entries = append(entries, dto.FoodIndexEntry{Text: line})
	}
	return entries
}
