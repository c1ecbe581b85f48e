package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

// FoodIndex is the read-only classification reference shared by every
// extraction task.
type FoodIndex struct {
	raw     string
	entries []dto.FoodIndexEntry
	byCode  map[string]dto.FoodIndexEntry
}

// LoadFoodIndex reads the index file. A missing or empty file is fatal for a
// batch because nothing can be classified without it.
func LoadFoodIndex(path string) (*FoodIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrFoodIndexUnavailable, err)
	}
	idx := NewFoodIndex(string(data))
	if len(idx.entries) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", dto.ErrFoodIndexUnavailable, path)
	}
	log.Printf("Loaded food index from %s with %d entries", path, len(idx.entries))
	return idx, nil
}

func NewFoodIndex(content string) *FoodIndex {
	entries := utils.ParseFoodIndex(content)
	byCode := make(map[string]dto.FoodIndexEntry, len(entries))
	for _, e := range entries {
		if e.Code == "" {
			continue
		}
		code := NormalizeFoodcode(e.Code)
		if code == "" {
			code = e.Code
		}
		if _, dup := byCode[code]; !dup {
			byCode[code] = e
		}
	}
	return &FoodIndex{
		raw:     strings.TrimSpace(content),
		entries: entries,
		byCode:  byCode,
	}
}

// Text is the index as embedded in prompts.
func (f *FoodIndex) Text() string {
	return f.raw
}

func (f *FoodIndex) Entries() []dto.FoodIndexEntry {
	out := make([]dto.FoodIndexEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Lookup finds the entry for a food code, normalizing the code first.
func (f *FoodIndex) Lookup(code string) (dto.FoodIndexEntry, bool) {
	norm := NormalizeFoodcode(code)
	if norm == "" {
		return dto.FoodIndexEntry{}, false
	}
	e, ok := f.byCode[norm]
	return e, ok
}

// Category returns the description of a food code, or "" when unknown.
func (f *FoodIndex) Category(code string) string {
	if e, ok := f.Lookup(code); ok {
		return e.Description
	}
	return ""
}

// HasCode reports whether code is a known index code or the unknown sentinel.
func (f *FoodIndex) HasCode(code string) bool {
	if code == dto.UnknownFoodcode {
		return true
	}
	_, ok := f.Lookup(code)
	return ok
}
