package dto

import "errors"

// Custom errors
var (
	ErrNoFileURLs           = errors.New("file_urls must be a list of URLs (PDFs and/or images)")
	ErrFoodIndexUnavailable = errors.New("food index could not be loaded")
	ErrNoCSVOutput          = errors.New("no CSV output generated")
	ErrObjectNotFound       = errors.New("object not found")
	ErrObjectExists         = errors.New("object already exists")
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// ProcessFiles lists the inputs and stored outputs of one processing request.
type ProcessFiles struct {
	Inputs    []string         `json:"inputs"`
	CSV       string           `json:"csv"`
	XLSX      string           `json:"xlsx,omitempty"`
	Documents []DocumentResult `json:"documents"`
}

// ProcessResponse is the success payload of POST /process-pdf
type ProcessResponse struct {
	Status      string        `json:"status"`
	Message     string        `json:"message"`
	CSVContent  string        `json:"csv_content"`
	Files       ProcessFiles  `json:"files"`
	CSVFileName string        `json:"csvFileName"`
	CSVURL      string        `json:"csvUrl"`
	XLSXURL     string        `json:"xlsxUrl,omitempty"`
	RowsSaved   int           `json:"rows_saved,omitempty"`
	Quality     QualityReport `json:"quality"`
}

// CSVResponse is the payload of GET /get-csv
type CSVResponse struct {
	Status string     `json:"status"`
	Data   [][]string `json:"data"`
}

// FoodIndexResponse is the payload of GET /api/food-index
type FoodIndexResponse struct {
	Status string           `json:"status"`
	Data   []FoodIndexEntry `json:"data"`
}

// FilterQueryResponse is the payload of POST /api/filter-query
type FilterQueryResponse struct {
	Status        string        `json:"status"`
	Message       string        `json:"message"`
	Items         []PurchaseRow `json:"items"`
	OtherSFAItems []PurchaseRow `json:"other_sfa_items"`
}

// SaveCSVResponse is the payload of POST /save-csv
type SaveCSVResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	CSVURL  string `json:"csvUrl"`
}
