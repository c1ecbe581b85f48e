package dto

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ProcessRequest is the body of POST /process-pdf
type ProcessRequest struct {
	FileURLs     []string `json:"file_urls"`
	SchoolName   string   `json:"school_name,omitempty"`
	DocumentYear int      `json:"document_year,omitempty"`
}

// Validate performs basic validation on the request
func (r *ProcessRequest) Validate() error {
	if len(r.FileURLs) == 0 {
		return ErrNoFileURLs
	}
	for _, raw := range r.FileURLs {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid file url %q", raw)
		}
	}
	if r.DocumentYear != 0 && (r.DocumentYear < 1900 || r.DocumentYear > 2100) {
		return fmt.Errorf("document_year %d is out of range", r.DocumentYear)
	}
	return nil
}

// PersistRows reports whether the processed rows should be saved as purchase history.
func (r *ProcessRequest) PersistRows() bool {
	return strings.TrimSpace(r.SchoolName) != "" && r.DocumentYear > 0
}

// SaveCSVRequest is the body of POST /save-csv
type SaveCSVRequest struct {
	Data        [][]string `json:"data"`
	CSVFileName string     `json:"csvFileName"`
}

func (r *SaveCSVRequest) Validate() error {
	if len(r.Data) == 0 {
		return errors.New("data is required")
	}
	return ValidateCSVFileName(r.CSVFileName)
}

// ValidateCSVFileName rejects names that could escape the csvs/ prefix.
func ValidateCSVFileName(name string) error {
	if name == "" {
		return errors.New("csvFileName is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid csvFileName %q", name)
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		return fmt.Errorf("csvFileName %q must end in .csv", name)
	}
	return nil
}

// YearRange is the inclusive Document_year filter of a filter query.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FilterQueryRequest is the body of POST /api/filter-query
type FilterQueryRequest struct {
	SchoolName           string    `json:"schoolName"`
	SelectedItemCategory string    `json:"selectedItemCategory"`
	YearRange            YearRange `json:"yearRange"`
}

// Defaults fills in the year range and category used when the client omits them.
func (r *FilterQueryRequest) Defaults() {
	if r.YearRange.Min == 0 {
		r.YearRange.Min = 2018
	}
	if r.YearRange.Max == 0 {
		r.YearRange.Max = 2023
	}
	if r.SelectedItemCategory == "" {
		r.SelectedItemCategory = "All"
	}
}

func (r *FilterQueryRequest) Validate() error {
	if r.YearRange.Min > r.YearRange.Max {
		return fmt.Errorf("yearRange min %d is greater than max %d", r.YearRange.Min, r.YearRange.Max)
	}
	return nil
}
