package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

func purchase(school, category string, year int) dto.PurchaseRow {
	return dto.PurchaseRow{Description: category + " item", SchoolName: school, ItemCategory: category, DocumentYear: year}
}

func TestFilterQuerySplitsOwnAndOtherSchools(t *testing.T) {
	store := &memoryRowStore{rows: []dto.PurchaseRow{
		purchase("Lincoln", "Milk, fluid", 2020),
		purchase("Lincoln", "Apples, fresh", 2021),
		purchase("Lincoln", "Milk, fluid", 2016),
		purchase("Roosevelt", "Milk, fluid", 2019),
		purchase("Roosevelt", "Apples, fresh", 2019),
	}}
	svc := NewPurchaseService(store)

	resp, err := svc.FilterQuery(context.Background(), dto.FilterQueryRequest{
		SchoolName:           "Lincoln",
		SelectedItemCategory: "Milk, fluid",
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2020, resp.Items[0].DocumentYear)
	require.Len(t, resp.OtherSFAItems, 1)
	assert.Equal(t, "Roosevelt", resp.OtherSFAItems[0].SchoolName)

	require.Len(t, store.queries, 2)
	assert.Equal(t, 2018, store.queries[0].YearMin)
	assert.Equal(t, 2023, store.queries[0].YearMax)
}

func TestFilterQueryAllCategories(t *testing.T) {
	store := &memoryRowStore{rows: []dto.PurchaseRow{
		purchase("Lincoln", "Milk, fluid", 2020),
		purchase("Lincoln", "Apples, fresh", 2021),
	}}
	resp, err := NewPurchaseService(store).FilterQuery(context.Background(), dto.FilterQueryRequest{
		SchoolName: "Lincoln",
		YearRange:  dto.YearRange{Min: 2019, Max: 2022},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Empty(t, store.queries[0].ItemCategory)
}

func TestFilterQueryRejectsInvertedRange(t *testing.T) {
	_, err := NewPurchaseService(&memoryRowStore{}).FilterQuery(context.Background(), dto.FilterQueryRequest{
		YearRange: dto.YearRange{Min: 2023, Max: 2019},
	})
	assert.Error(t, err)
}

func TestFilterQueryWithoutStore(t *testing.T) {
	_, err := NewPurchaseService(nil).FilterQuery(context.Background(), dto.FilterQueryRequest{})
	assert.Error(t, err)
}
