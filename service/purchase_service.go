package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// allCategories disables the category predicate of a filter query.
const allCategories = "All"

type PurchaseService struct {
	rows RowStore
}

func NewPurchaseService(rows RowStore) *PurchaseService {
	return &PurchaseService{rows: rows}
}

// FilterQuery returns the school's purchases and every other school's
// purchases that match the category and year range.
func (s *PurchaseService) FilterQuery(ctx context.Context, req dto.FilterQueryRequest) (*dto.FilterQueryResponse, error) {
	if s.rows == nil {
		return nil, fmt.Errorf("purchase history store is not configured")
	}
	req.Defaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	base := dto.PurchaseFilter{YearMin: req.YearRange.Min, YearMax: req.YearRange.Max}
	if !strings.EqualFold(req.SelectedItemCategory, allCategories) {
		base.ItemCategory = req.SelectedItemCategory
	}

	own := base
	own.SchoolName = strings.TrimSpace(req.SchoolName)
	items, err := s.rows.QueryRows(ctx, own)
	if err != nil {
		return nil, fmt.Errorf("failed to query school purchases: %w", err)
	}

	others := base
	others.ExcludeSchoolName = own.SchoolName
	otherItems, err := s.rows.QueryRows(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("failed to query other schools' purchases: %w", err)
	}

	log.Printf("Filter query for %q category=%q years=%d-%d: %d items, %d from other schools",
		own.SchoolName, req.SelectedItemCategory, base.YearMin, base.YearMax, len(items), len(otherItems))

	return &dto.FilterQueryResponse{
		Status:        dto.StatusSuccess,
		Message:       fmt.Sprintf("Found %d items", len(items)),
		Items:         items,
		OtherSFAItems: otherItems,
	}, nil
}
