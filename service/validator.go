package service

import (
	"regexp"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

// Truncation heuristic. Both values are tunable; neither is a hard contract.
const (
	TruncationRatio       = 0.7
	LinesPerEstimatedItem = 3

	rowsCheckedForWidth = 5
)

var placeholderMarkers = []string{"lorem ipsum", "example"}

var itemLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\.\d{1,2}\b`),
	regexp.MustCompile(`\$\s?\d`),
	regexp.MustCompile(`(?i)\b(lbs?|oz|ct|ea|each|cs|case|gal|gallons?|dz|doz|pk|pkg|bag|box|bx|jar|can|cn|pounds?|ounces?|count|liters?|kg)\b`),
	regexp.MustCompile(`[A-Za-z]{2,}\D*\d+\D+\d+`),
}

// EstimateItemCount guesses how many line items the source text holds: the
// number of lines that look like an item, but never fewer than one item per
// LinesPerEstimatedItem non-empty lines.
func EstimateItemCount(source string) int {
	lines := utils.NonEmptyLines(source)
	matched := 0
	for _, line := range lines {
		for _, p := range itemLinePatterns {
			if p.MatchString(line) {
				matched++
				break
			}
		}
	}
	if floor := len(lines) / LinesPerEstimatedItem; floor > matched {
		return floor
	}
	return matched
}

// Validate checks model output for structural defects against the text it was
// extracted from. When the only defects are column counts it tries one header
// repair and reports the repaired text if that makes the output valid.
func Validate(raw, source string) dto.ValidationReport {
	report := inspect(raw, source)
	if report.IsValid || !report.OnlyColumnDefects() {
		return report
	}

	repair := RepairHeader(raw)
	if !repair.Changed {
		return report
	}
	fixed := inspect(repair.Text, source)
	if !fixed.IsValid {
		report.RepairNote = repair.Description
		return report
	}
	fixed.AutoFixed = true
	fixed.FixedText = repair.Text
	fixed.RepairNote = repair.Description
	return fixed
}

func inspect(raw, source string) dto.ValidationReport {
	report := dto.ValidationReport{Errors: []string{}, Defects: []dto.Defect{}}
	report.Stats.InputLines = len(utils.NonEmptyLines(source))

	lines := utils.NonEmptyLines(raw)
	if len(lines) == 0 {
		report.AddDefect(dto.Defect{Kind: dto.DefectEmptyOutput})
		return report
	}

	header := lines[0]
	dataRows := lines[1:]
	report.Stats.HeaderColumns = utils.CountColumns(header)
	report.Stats.DataRows = len(dataRows)

	if len(dataRows) == 0 {
		report.AddDefect(dto.Defect{Kind: dto.DefectNoDataRows})
	}

	switch n := report.Stats.HeaderColumns; {
	case n < dto.CanonicalColumnCount:
		report.AddDefect(dto.Defect{Kind: dto.DefectMissingColumns, Expected: dto.CanonicalColumnCount, Actual: n})
	case n > dto.CanonicalColumnCount:
		report.AddDefect(dto.Defect{Kind: dto.DefectExtraColumns, Expected: dto.CanonicalColumnCount, Actual: n})
	}

	for i, row := range dataRows {
		if i == rowsCheckedForWidth {
			break
		}
		if n := utils.CountColumns(row); n != dto.CanonicalColumnCount {
			report.AddDefect(dto.Defect{Kind: dto.DefectRowColumnCount, Row: i + 1, Expected: dto.CanonicalColumnCount, Actual: n})
		}
	}

	estimate := EstimateItemCount(source)
	report.Stats.EstimatedItems = estimate
	if len(dataRows) > 0 && float64(len(dataRows)) < TruncationRatio*float64(estimate) {
		report.AddDefect(dto.Defect{Kind: dto.DefectTruncation, Expected: estimate, Actual: len(dataRows)})
	}

	lower := strings.ToLower(raw)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			report.AddDefect(dto.Defect{Kind: dto.DefectHallucination, Detail: marker})
		}
	}

	report.IsValid = len(report.Defects) == 0
	return report
}
