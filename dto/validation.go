package dto

import "fmt"

type DefectKind string

const (
	DefectEmptyOutput     DefectKind = "empty_output"
	DefectNoDataRows      DefectKind = "no_data_rows"
	DefectMissingColumns  DefectKind = "missing_columns"
	DefectExtraColumns    DefectKind = "extra_columns"
	DefectRowColumnCount  DefectKind = "row_column_count"
	DefectTruncation      DefectKind = "truncation"
	DefectHallucination   DefectKind = "hallucination"
	DefectModelRefusal    DefectKind = "model_refusal"
	DefectTransportFailed DefectKind = "transport_failed"
)

// Defect is a single structural problem found in model output.
type Defect struct {
	Kind     DefectKind `json:"kind"`
	Row      int        `json:"row,omitempty"`
	Expected int        `json:"expected,omitempty"`
	Actual   int        `json:"actual,omitempty"`
	Detail   string     `json:"detail,omitempty"`
}

// IsColumnDefect reports whether the header repair engine may fix the defect.
func (d Defect) IsColumnDefect() bool {
	switch d.Kind {
	case DefectMissingColumns, DefectExtraColumns, DefectRowColumnCount:
		return true
	}
	return false
}

func (d Defect) String() string {
	switch d.Kind {
	case DefectEmptyOutput:
		return "output is empty"
	case DefectNoDataRows:
		return "output has a header but no data rows"
	case DefectMissingColumns:
		return fmt.Sprintf("header is missing %d columns (expected %d, got %d)", d.Expected-d.Actual, d.Expected, d.Actual)
	case DefectExtraColumns:
		return fmt.Sprintf("header has %d extra columns (expected %d, got %d)", d.Actual-d.Expected, d.Expected, d.Actual)
	case DefectRowColumnCount:
		if d.Actual < d.Expected {
			return fmt.Sprintf("data row %d is missing %d columns (expected %d, got %d)", d.Row, d.Expected-d.Actual, d.Expected, d.Actual)
		}
		return fmt.Sprintf("data row %d has %d extra columns (expected %d, got %d)", d.Row, d.Actual-d.Expected, d.Expected, d.Actual)
	case DefectTruncation:
		return fmt.Sprintf("output looks truncated: %d data rows for about %d input items", d.Actual, d.Expected)
	case DefectHallucination:
		return fmt.Sprintf("output contains placeholder text: %q", d.Detail)
	}
	if d.Detail != "" {
		return string(d.Kind) + ": " + d.Detail
	}
	return string(d.Kind)
}

// ValidationStats are the counts a ValidationReport was computed from.
type ValidationStats struct {
	HeaderColumns  int `json:"header_columns"`
	DataRows       int `json:"data_rows"`
	EstimatedItems int `json:"estimated_items"`
	InputLines     int `json:"input_lines"`
}

// ValidationReport drives retry and repair decisions. It is never persisted.
type ValidationReport struct {
	IsValid    bool            `json:"is_valid"`
	Errors     []string        `json:"errors"`
	Defects    []Defect        `json:"defects"`
	Stats      ValidationStats `json:"stats"`
	AutoFixed  bool            `json:"auto_fixed"`
	FixedText  string          `json:"-"`
	RepairNote string          `json:"repair_note,omitempty"`
}

// AddDefect records a defect and its human readable error string.
func (r *ValidationReport) AddDefect(d Defect) {
	r.Defects = append(r.Defects, d)
	r.Errors = append(r.Errors, d.String())
}

// OnlyColumnDefects reports whether every recorded defect is a column-count defect.
func (r *ValidationReport) OnlyColumnDefects() bool {
	if len(r.Defects) == 0 {
		return false
	}
	for _, d := range r.Defects {
		if !d.IsColumnDefect() {
			return false
		}
	}
	return true
}

type QualityStatus string

const (
	QualityOK      QualityStatus = "ok"
	QualityWarning QualityStatus = "warning"
)

// QualityReport annotates a finished artifact for a human reviewer. It never blocks output.
type QualityReport struct {
	Status         QualityStatus `json:"status"`
	RowCount       int           `json:"row_count"`
	Issues         []string      `json:"issues"`
	SuggestedFixes []string      `json:"suggested_fixes"`
}
