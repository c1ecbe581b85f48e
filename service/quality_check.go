package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

const (
	totalTolerance = 0.05

	// A price is an outlier when it is this many times above or below the
	// median price of rows sharing its food code.
	outlierFactor   = 3.0
	outlierMinPeers = 3
)

// CodeBook tells the quality check which food codes exist.
type CodeBook interface {
	HasCode(code string) bool
}

// CheckQuality inspects normalized rows for business rule violations. It
// only annotates; rows are never changed or rejected.
func CheckQuality(rows []dto.CanonicalRow, codes CodeBook) dto.QualityReport {
	report := dto.QualityReport{
		Status:         dto.QualityOK,
		RowCount:       len(rows),
		Issues:         []string{},
		SuggestedFixes: []string{},
	}
	add := func(issue, fix string) {
		report.Issues = append(report.Issues, issue)
		report.SuggestedFixes = append(report.SuggestedFixes, fix)
	}

	if len(rows) == 0 {
		add("no item rows were extracted", "check that the document is a readable invoice and reprocess it")
	}

	seen := make(map[string]int)
	for i, row := range rows {
		n := i + 1
		name := row.Description
		if name == "" {
			name = fmt.Sprintf("row %d", n)
			add(fmt.Sprintf("row %d has no description", n), "fill in the item description from the invoice")
		}

		switch {
		case row.Price == nil:
			add(fmt.Sprintf("%q has no price", name), "enter the unit price from the invoice")
		case *row.Price <= 0:
			add(fmt.Sprintf("%q has a non-positive price %.1f", name, *row.Price), "check whether the line is a credit or a misread price")
		}

		if row.Price != nil && row.Quantity != nil && row.TotalPrice != nil {
			expected := *row.Price * float64(*row.Quantity)
			if !withinTolerance(*row.TotalPrice, expected) {
				add(fmt.Sprintf("%q total %.1f does not match price x quantity %.1f", name, *row.TotalPrice, expected),
					"verify price and quantity against the invoice")
			}
		} else if row.Quantity == nil {
			add(fmt.Sprintf("%q has no quantity", name), "enter the quantity purchased")
		}

		switch {
		case row.Foodcode == "":
			add(fmt.Sprintf("%q has no valid foodcode", name), "assign a code from the food index")
		case row.Foodcode == dto.UnknownFoodcode:
			add(fmt.Sprintf("%q could not be classified", name), "assign a specific code from the food index")
		case codes != nil && !codes.HasCode(row.Foodcode):
			add(fmt.Sprintf("%q has foodcode %s which is not in the food index", name, row.Foodcode), "replace it with a code from the food index")
		}

		key := duplicateKey(row)
		if first, dup := seen[key]; dup {
			add(fmt.Sprintf("row %d duplicates row %d (%q)", n, first, name), "remove the duplicate if the invoice lists the item once")
		} else {
			seen[key] = n
		}
	}

	for _, o := range priceOutliers(rows) {
		add(o, "confirm the price on the invoice; it differs sharply from similar items")
	}

	if len(report.Issues) > 0 {
		report.Status = dto.QualityWarning
	}
	return report
}

func withinTolerance(actual, expected float64) bool {
	if expected == 0 {
		return math.Abs(actual) < 0.05
	}
	return math.Abs(actual-expected) <= totalTolerance*math.Abs(expected)+0.05
}

func duplicateKey(row dto.CanonicalRow) string {
	return strings.ToLower(strings.Join(RowRecord(row), "|"))
}

func priceOutliers(rows []dto.CanonicalRow) []string {
	groups := make(map[string][]int)
	var order []string
	for i, row := range rows {
		if row.Price == nil || *row.Price <= 0 || row.Foodcode == "" || row.Foodcode == dto.UnknownFoodcode {
			continue
		}
		if _, ok := groups[row.Foodcode]; !ok {
			order = append(order, row.Foodcode)
		}
		groups[row.Foodcode] = append(groups[row.Foodcode], i)
	}

	var out []string
	for _, code := range order {
		idx := groups[code]
		if len(idx) < outlierMinPeers {
			continue
		}
		prices := make([]float64, len(idx))
		for k, i := range idx {
			prices[k] = *rows[i].Price
		}
		median := medianOf(prices)
		for _, i := range idx {
			p := *rows[i].Price
			if p > median*outlierFactor || p < median/outlierFactor {
				out = append(out, fmt.Sprintf("%q price %.1f is an outlier for foodcode %s (median %.1f)", rows[i].Description, p, code, median))
			}
		}
	}
	return out
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
