package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

const (
	colDescription = iota
	colPrice
	colQuantity
	colPackSize
	colPack
	colSize
	colUOM
	colTotalPrice
	colPricePerPack
	colPricePerPackSize
	colPricePerPound
	colFoodcode
)

const foodcodeDigits = 6

// ouncesPerPound converts a per-ounce price to a per-pound price.
const ouncesPerPound = 16

var uomSynonyms = map[string]string{
	"OUNCE":  "OZ",
	"OUNCES": "OZ",
	"OZS":    "OZ",
	"POUND":  "LB",
	"POUNDS": "LB",
	"LBS":    "LB",
	"#":      "LB",
	"COUNT":  "CT",
	"CNT":    "CT",
	"EACH":   "EA",
	"GALLON": "GAL",
	"GALS":   "GAL",
	"LITER":  "L",
	"LITERS": "L",
	"LITRE":  "L",
	"LITRES": "L",
	"LTR":    "L",
}

var (
	placeholderHeaderPattern = regexp.MustCompile(`^column\d+$`)

	packSizePattern   = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*/\s*#?\s*(\d+(?:\.\d+)?)\s*([A-Za-z#]*)\.?$`)
	singleSizePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z#]*)\.?$`)
)

var canonicalIndex = func() map[string]int {
	m := make(map[string]int, dto.CanonicalColumnCount)
	for i, name := range dto.CanonicalHeader {
		m[utils.NormalizeHeaderName(name)] = i
	}
	// Names the model commonly uses instead of the canonical ones.
	m["item"] = colDescription
	m["itemdescription"] = colDescription
	m["unitprice"] = colPrice
	m["qty"] = colQuantity
	m["unit"] = colUOM
	m["total"] = colTotalPrice
	m["pricepereach"] = colPricePerPack
	m["priceperlb"] = colPricePerPound
	m["foodcode"] = colFoodcode
	m["code"] = colFoodcode
	return m
}()

// CanonicalUOM maps a unit of measure onto its canonical abbreviation,
// ignoring case. Unknown units are upper-cased and returned as is.
func CanonicalUOM(uom string) string {
	u := strings.ToUpper(strings.TrimSpace(strings.Trim(uom, `"'`)))
	u = strings.TrimSuffix(u, ".")
	if canon, ok := uomSynonyms[u]; ok {
		return canon
	}
	return u
}

// NormalizeFoodcode left-pads numeric codes to six digits. Longer codes are
// kept whole; non-numeric and all-zero codes become blank.
func NormalizeFoodcode(code string) string {
	c := strings.TrimSpace(strings.Trim(strings.TrimSpace(code), `"'`))
	c = strings.TrimSuffix(c, ".0")
	if c == "" {
		return ""
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if strings.Trim(c, "0") == "" {
		return ""
	}
	if len(c) < foodcodeDigits {
		c = strings.Repeat("0", foodcodeDigits-len(c)) + c
	}
	return c
}

// LooksLikeHeader reports whether a CSV line is a column header rather than
// an item row.
func LooksLikeHeader(line string) bool {
	fields := utils.SplitCSVLine(line)
	named, nonEmpty := 0, 0
	for _, f := range fields {
		n := utils.NormalizeHeaderName(f)
		if n == "" {
			continue
		}
		nonEmpty++
		if _, ok := canonicalIndex[n]; ok || strings.HasPrefix(n, "column") {
			named++
		}
	}
	return nonEmpty > 0 && named*2 >= nonEmpty
}

// Reassemble joins the outputs of a document's chunks in chunk order,
// keeping a single header line. A later chunk's first line is dropped only
// when it is a header, so chunks the model answered without one keep all
// their rows.
func Reassemble(outputs []string) string {
	var out []string
	for _, output := range outputs {
		lines := utils.NonEmptyLines(output)
		if len(lines) == 0 {
			continue
		}
		if len(out) == 0 {
			if !LooksLikeHeader(lines[0]) {
				out = append(out, utils.FormatCSVLine(dto.CanonicalHeader))
			}
			out = append(out, lines...)
			continue
		}
		if LooksLikeHeader(lines[0]) {
			lines = lines[1:]
		}
		out = append(out, lines...)
	}
	return strings.Join(out, "\n")
}

// Normalize parses a column-count-consistent CSV table into canonical rows.
// Derived price columns are recomputed from the unrounded operands before
// monetary values are rounded to one decimal, so 2.555 x 3 totals 7.7. A
// reported derived value within the total tolerance of the recomputed one is
// kept instead; without that, normalizing the rounded output again would give
// 2.6 x 3 = 7.8. Normalize(SerializeRows(Normalize(x))) therefore equals
// Normalize(x) whenever rounding moved no operand past the tolerance.
func Normalize(csvText string) []dto.CanonicalRow {
	lines := utils.NonEmptyLines(csvText)
	if len(lines) == 0 {
		return nil
	}

	header := trimPlaceholderColumns(utils.SplitCSVLine(lines[0]))
	colMap := mapColumns(header)
	descPos := 0
	for i, j := range colMap {
		if j == colDescription {
			descPos = i
			break
		}
	}

	rows := make([]dto.CanonicalRow, 0, len(lines)-1)
	for _, line := range lines[1:] {
		record := fitRecord(utils.SplitCSVLine(line), len(header), descPos)
		if blankRecord(record) {
			continue
		}

		var cells [dto.CanonicalColumnCount]string
		for i, j := range colMap {
			if j >= 0 {
				cells[j] = record[i]
			}
		}
		rows = append(rows, normalizeRow(cells))
	}
	return rows
}

// trimPlaceholderColumns drops Column_<n> names padded onto the header past
// the canonical width. Those columns hold pieces of a description split on an
// unquoted comma, so records are fitted to the remaining width instead.
func trimPlaceholderColumns(header []string) []string {
	end := len(header)
	for end > dto.CanonicalColumnCount && placeholderHeaderPattern.MatchString(utils.NormalizeHeaderName(header[end-1])) {
		end--
	}
	return header[:end]
}

// mapColumns maps each header position to a canonical column, by name first
// and then by position for anything left unnamed.
func mapColumns(header []string) []int {
	colMap := make([]int, len(header))
	taken := make(map[int]bool)
	for i, name := range header {
		colMap[i] = -1
		if j, ok := canonicalIndex[utils.NormalizeHeaderName(name)]; ok && !taken[j] {
			colMap[i] = j
			taken[j] = true
		}
	}
	for i := range colMap {
		if colMap[i] == -1 && i < dto.CanonicalColumnCount && !taken[i] {
			colMap[i] = i
			taken[i] = true
		}
	}
	return colMap
}

// fitRecord makes a record exactly width fields long. Surplus fields come from
// unquoted commas in the description, so they are merged back into it.
func fitRecord(record []string, width, descPos int) []string {
	if extra := len(record) - width; extra > 0 && descPos+extra < len(record) {
		merged := strings.Join(trimFields(record[descPos:descPos+extra+1]), ", ")
		fixed := make([]string, 0, width)
		fixed = append(fixed, record[:descPos]...)
		fixed = append(fixed, merged)
		fixed = append(fixed, record[descPos+extra+1:]...)
		record = fixed
	}
	for len(record) < width {
		record = append(record, "")
	}
	return record
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func normalizeRow(cells [dto.CanonicalColumnCount]string) dto.CanonicalRow {
	row := dto.CanonicalRow{
		Description: utils.CollapseSpaces(strings.ReplaceAll(utils.CleanText(cells[colDescription]), `"`, "")),
		PackSize:    utils.CollapseSpaces(utils.StripCurrency(cells[colPackSize])),
		UOM:         CanonicalUOM(utils.StripCurrency(cells[colUOM])),
		Foodcode:    NormalizeFoodcode(cells[colFoodcode]),
	}

	price := parseFloatCell(cells[colPrice])
	row.Quantity = parseIntCell(cells[colQuantity])
	row.Pack = parseIntCell(cells[colPack])
	row.Size = parseIntCell(cells[colSize])

	applyPackSize(&row)

	total := parseFloatCell(cells[colTotalPrice])
	perPack := parseFloatCell(cells[colPricePerPack])
	perPackSize := parseFloatCell(cells[colPricePerPackSize])
	perPound := parseFloatCell(cells[colPricePerPound])

	if price != nil {
		p := *price
		if row.Quantity != nil {
			total = derived(total, p*float64(*row.Quantity))
		}
		if row.Pack != nil && *row.Pack > 0 {
			perPack = derived(perPack, p/float64(*row.Pack))
			if row.Size != nil && *row.Size > 0 {
				unit := p / (float64(*row.Pack) * float64(*row.Size))
				perPackSize = derived(perPackSize, unit)
				switch row.UOM {
				case "LB":
					perPound = derived(perPound, unit)
				case "OZ":
					perPound = derived(perPound, unit*ouncesPerPound)
				}
			}
		}
	}

	row.Price = roundPtr(price)
	row.TotalPrice = roundPtr(total)
	row.PricePerPack = roundPtr(perPack)
	row.PricePerPackSize = roundPtr(perPackSize)
	row.PricePerPound = roundPtr(perPound)
	return row
}

// applyPackSize fills blank Pack, Size and UOM from a "6/10 LB" style pack
// size, and rebuilds a blank pack size from Pack, Size and UOM.
func applyPackSize(row *dto.CanonicalRow) {
	if row.PackSize == "" {
		if row.Pack != nil && row.Size != nil {
			row.PackSize = strings.TrimSpace(fmt.Sprintf("%d/%d %s", *row.Pack, *row.Size, row.UOM))
		}
		return
	}

	var pack, size, uom string
	if m := packSizePattern.FindStringSubmatch(row.PackSize); m != nil {
		pack, size, uom = m[1], m[2], m[3]
	} else if m := singleSizePattern.FindStringSubmatch(row.PackSize); m != nil {
		pack, size, uom = "1", m[1], m[2]
	} else {
		return
	}

	if row.Pack == nil {
		row.Pack = parseIntCell(pack)
	}
	if row.Size == nil {
		row.Size = parseIntCell(size)
	}
	if row.UOM == "" && uom != "" {
		row.UOM = CanonicalUOM(uom)
	}
}

// RowRecord renders a row as CSV fields in canonical order.
func RowRecord(row dto.CanonicalRow) []string {
	return []string{
		row.Description,
		formatFloat(row.Price),
		formatInt(row.Quantity),
		row.PackSize,
		formatInt(row.Pack),
		formatInt(row.Size),
		row.UOM,
		formatFloat(row.TotalPrice),
		formatFloat(row.PricePerPack),
		formatFloat(row.PricePerPackSize),
		formatFloat(row.PricePerPound),
		row.Foodcode,
	}
}

// SerializeRows renders rows as a CSV document under the canonical header.
func SerializeRows(rows []dto.CanonicalRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, utils.FormatCSVLine(dto.CanonicalHeader))
	for _, row := range rows {
		lines = append(lines, utils.FormatCSVLine(RowRecord(row)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func parseFloatCell(s string) *float64 {
	v, ok := utils.ParseNumber(s)
	if !ok {
		return nil
	}
	return &v
}

func parseIntCell(s string) *int {
	v, ok := utils.ParseInteger(s)
	if !ok {
		return nil
	}
	return &v
}

func floatPtr(v float64) *float64 { return &v }

// derived keeps a reported value that agrees with the computed one within
// the total tolerance, so re-normalizing rounded output does not drift.
func derived(reported *float64, computed float64) *float64 {
	if reported != nil && withinTolerance(*reported, computed) {
		return reported
	}
	return floatPtr(computed)
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return floatPtr(utils.RoundOneDecimal(*v))
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return utils.FormatOneDecimal(*v)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
