package utils

import (
	"encoding/csv"
	"strings"
)

// SplitLines splits text into lines, accepting both \n and \r\n endings.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// NonEmptyLines returns the lines of text that contain something besides whitespace.
func NonEmptyLines(text string) []string {
	var out []string
	for _, line := range SplitLines(text) {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// SplitCSVLine tokenizes a single CSV line. Commas inside double-quoted
// fields do not split the field. Unbalanced quotes are tolerated.
func SplitCSVLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return []string{""}
	}

	r := csv.NewReader(strings.NewReader(line))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	record, err := r.Read()
	if err != nil {
		return strings.Split(line, ",")
	}
	return record
}

// CountColumns returns the number of fields on a CSV line.
func CountColumns(line string) int {
	return len(SplitCSVLine(line))
}

// FormatCSVLine serializes fields as one CSV line without the trailing newline.
// Fields are quoted only when they contain a comma, quote or line break.
func FormatCSVLine(fields []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(fields)
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// ParseCSV reads a whole CSV document into rows of fields.
func ParseCSV(content string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// WriteCSV serializes rows into a CSV document.
func WriteCSV(rows [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// NormalizeHeaderName lower-cases a column name and drops spaces, underscores
// and dashes so that "Total Price", "total_price" and "TotalPrice" compare equal.
func NormalizeHeaderName(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.Trim(name, `"'`)))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(name)
}
