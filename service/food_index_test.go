package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

func TestLoadFoodIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "food_index.txt")
	require.NoError(t, os.WriteFile(path, []byte(testFoodIndex), 0o644))

	idx, err := LoadFoodIndex(path)
	require.NoError(t, err)
	assert.Len(t, idx.Entries(), 3)
	assert.Contains(t, idx.Text(), "100046: Milk, fluid")
}

func TestLoadFoodIndexMissingFile(t *testing.T) {
	_, err := LoadFoodIndex(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, dto.ErrFoodIndexUnavailable)
}

func TestLoadFoodIndexEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	_, err := LoadFoodIndex(path)
	assert.ErrorIs(t, err, dto.ErrFoodIndexUnavailable)
}

func TestFoodIndexLookup(t *testing.T) {
	idx := NewFoodIndex(testFoodIndex + "45: Pears\n")

	e, ok := idx.Lookup("100045.0")
	require.True(t, ok)
	assert.Equal(t, "Apples, fresh", e.Description)

	assert.Equal(t, "Pears", idx.Category("000045"))
	assert.Equal(t, "", idx.Category("123456"))
	assert.True(t, idx.HasCode(dto.UnknownFoodcode))
	assert.False(t, idx.HasCode(""))
}
