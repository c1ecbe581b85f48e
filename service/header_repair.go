package service

import (
	"fmt"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

// repairSampleRows is how many data lines vote on the table's column count.
const repairSampleRows = 10

type RepairRule string

const (
	RuleNoData          RepairRule = "no_data"
	RuleUnchanged       RepairRule = "unchanged"
	RuleCanonicalHeader RepairRule = "canonical_header"
	RuleTruncateHeader  RepairRule = "truncate_header"
	RuleExtendHeader    RepairRule = "extend_header"
)

// RepairResult is the outcome of one header repair pass. Only the header line
// of Text can differ from the input.
type RepairResult struct {
	Text           string
	Changed        bool
	Rule           RepairRule
	Description    string
	HeaderCount    int
	DataCount      int
	MissingColumns []string
}

// RepairHeader rewrites the header line of a CSV table so its column count
// matches the column count observed in the data rows. Data rows are never
// modified. Running it on its own output is a no-op.
func RepairHeader(text string) RepairResult {
	lines := utils.SplitLines(text)

	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return RepairResult{Text: text, Rule: RuleNoData, Description: "no header line found"}
	}

	header := trimFields(utils.SplitCSVLine(lines[headerIdx]))
	result := RepairResult{Text: text, HeaderCount: len(header)}

	dataCount, ok := dominantColumnCount(lines[headerIdx+1:])
	if !ok {
		result.Rule = RuleNoData
		result.Description = "no data rows to compare the header against"
		return result
	}
	result.DataCount = dataCount

	var newHeader []string
	switch {
	case len(header) == dataCount:
		result.Rule = RuleUnchanged
		result.Description = fmt.Sprintf("header already has %d columns", dataCount)
		return result

	case dataCount == dto.CanonicalColumnCount:
		result.MissingColumns = missingCanonicalNames(header)
		newHeader = append([]string(nil), dto.CanonicalHeader...)
		result.Rule = RuleCanonicalHeader
		result.Description = fmt.Sprintf("replaced %d-column header with the canonical %d-column header", len(header), dataCount)
		if len(result.MissingColumns) > 0 {
			result.Description += "; absent: " + strings.Join(result.MissingColumns, ", ")
		}

	case len(header) > dataCount:
		newHeader = header[:dataCount]
		result.Rule = RuleTruncateHeader
		result.Description = fmt.Sprintf("truncated header from %d to %d columns, dropped: %s",
			len(header), dataCount, strings.Join(header[dataCount:], ", "))

	default:
		newHeader = append([]string(nil), header...)
		var added []string
		for _, name := range missingCanonicalNames(header) {
			if len(newHeader) == dataCount {
				break
			}
			newHeader = append(newHeader, name)
			added = append(added, name)
		}
		for len(newHeader) < dataCount {
			name := fmt.Sprintf("Column_%d", len(newHeader)+1)
			newHeader = append(newHeader, name)
			added = append(added, name)
		}
		result.MissingColumns = added
		result.Rule = RuleExtendHeader
		result.Description = fmt.Sprintf("extended header from %d to %d columns, added: %s",
			len(header), dataCount, strings.Join(added, ", "))
	}

	lines[headerIdx] = utils.FormatCSVLine(newHeader)
	result.Text = strings.Join(lines, "\n")
	result.Changed = true
	return result
}

// dominantColumnCount returns the most frequent column count among the first
// data lines. Ties go to the canonical count, then to the count seen first.
func dominantColumnCount(lines []string) (int, bool) {
	counts := make(map[int]int)
	var order []int
	sampled := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := utils.CountColumns(line)
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
		sampled++
		if sampled == repairSampleRows {
			break
		}
	}
	if sampled == 0 {
		return 0, false
	}

	best := order[0]
	for _, n := range order[1:] {
		if counts[n] > counts[best] {
			best = n
		}
	}
	if counts[dto.CanonicalColumnCount] == counts[best] {
		best = dto.CanonicalColumnCount
	}
	return best, true
}

// missingCanonicalNames lists canonical column names absent from header, in
// canonical order. Names are compared ignoring case, spaces and underscores.
func missingCanonicalNames(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[utils.NormalizeHeaderName(h)] = true
	}
	var missing []string
	for _, name := range dto.CanonicalHeader {
		if !present[utils.NormalizeHeaderName(name)] {
			missing = append(missing, name)
		}
	}
	return missing
}

func trimFields(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
