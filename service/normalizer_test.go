package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

func normalizeOne(t *testing.T, row string) dto.CanonicalRow {
	t.Helper()
	rows := Normalize(canonicalHeaderLine + "\n" + row)
	require.Len(t, rows, 1)
	return rows[0]
}

func TestNormalizeRecomputesTotalFromUnroundedPrice(t *testing.T) {
	row := normalizeOne(t, "Apples,2.555,3,,,,,99,,,,45")

	require.NotNil(t, row.Price)
	require.NotNil(t, row.TotalPrice)
	assert.Equal(t, 2.6, *row.Price)
	assert.Equal(t, 7.7, *row.TotalPrice)
	assert.Equal(t, "000045", row.Foodcode)
}

func TestNormalizeFoodcode(t *testing.T) {
	assert.Equal(t, "000045", NormalizeFoodcode("45"))
	assert.Equal(t, "1234567", NormalizeFoodcode("1234567"))
	assert.Equal(t, "100045", NormalizeFoodcode("100045.0"))
	assert.Equal(t, "", NormalizeFoodcode("N/A"))
	assert.Equal(t, "", NormalizeFoodcode("0.0"))
	assert.Equal(t, "", NormalizeFoodcode("000"))
	assert.Equal(t, "", NormalizeFoodcode(""))
}

func TestCanonicalUOM(t *testing.T) {
	assert.Equal(t, "LB", CanonicalUOM("pound"))
	assert.Equal(t, "LB", CanonicalUOM("POUND"))
	assert.Equal(t, "LB", CanonicalUOM("lbs"))
	assert.Equal(t, "OZ", CanonicalUOM("Ounce"))
	assert.Equal(t, "CT", CanonicalUOM("count"))
	assert.Equal(t, "EA", CanonicalUOM("each"))
	assert.Equal(t, "GAL", CanonicalUOM("Gallon"))
	assert.Equal(t, "L", CanonicalUOM("liter"))
	assert.Equal(t, "CS", CanonicalUOM("cs"))
}

func TestNormalizeDerivedColumns(t *testing.T) {
	row := normalizeOne(t, `"Chicken, breast",$24.00,2,4/10 LB,,,,,,,,100050`)

	assert.Equal(t, "Chicken, breast", row.Description)
	assert.Equal(t, 4, *row.Pack)
	assert.Equal(t, 10, *row.Size)
	assert.Equal(t, "LB", row.UOM)
	assert.Equal(t, 48.0, *row.TotalPrice)
	assert.Equal(t, 6.0, *row.PricePerPack)
	assert.Equal(t, 0.6, *row.PricePerPackSize)
	assert.Equal(t, 0.6, *row.PricePerPound)
}

func TestNormalizePricePerPoundFromOunces(t *testing.T) {
	row := normalizeOne(t, "Cheese,16.00,1,1/32 OZ,1,32,ounce,,,,,")
	assert.Equal(t, "OZ", row.UOM)
	assert.Equal(t, 8.0, *row.PricePerPound)
}

func TestNormalizeSinglePackSizeMeansPackOfOne(t *testing.T) {
	row := normalizeOne(t, "Milk,3.10,4,1 GAL,,,,,,,,100046")
	assert.Equal(t, 1, *row.Pack)
	assert.Equal(t, 1, *row.Size)
	assert.Equal(t, "GAL", row.UOM)
}

func TestNormalizeRebuildsPackSize(t *testing.T) {
	row := normalizeOne(t, "Rice,20.0,1,,2,25,pounds,,,,,")
	assert.Equal(t, "2/25 LB", row.PackSize)
}

func TestNormalizeInvalidIntegersAreBlank(t *testing.T) {
	row := normalizeOne(t, "Apples,1.0,some,,,,,5.0,,,,")
	assert.Nil(t, row.Quantity)
	// Total cannot be recomputed, so the model's value is only rounded.
	assert.Equal(t, 5.0, *row.TotalPrice)
}

func TestNormalizeMergesUnquotedDescriptionCommas(t *testing.T) {
	row := normalizeOne(t, "Beef, ground, 80/20,4.5,1,,,,,,,,,100050")
	assert.Equal(t, "Beef, ground, 80/20", row.Description)
	assert.Equal(t, 4.5, *row.Price)
	assert.Equal(t, "100050", row.Foodcode)
}

func TestNormalizePadsShortRows(t *testing.T) {
	row := normalizeOne(t, "Apples,1.5,2")
	assert.Equal(t, 3.0, *row.TotalPrice)
	assert.Equal(t, "", row.Foodcode)
}

func TestNormalizeMapsColumnsByName(t *testing.T) {
	rows := Normalize("Foodcode,Description,Qty,Price\n45,Apples,2,1.25")
	require.Len(t, rows, 1)
	assert.Equal(t, "Apples", rows[0].Description)
	assert.Equal(t, 2, *rows[0].Quantity)
	assert.Equal(t, 2.5, *rows[0].TotalPrice)
	assert.Equal(t, "000045", rows[0].Foodcode)
}

func TestNormalizeStripsStrayQuotes(t *testing.T) {
	row := normalizeOne(t, `Apples "Gala",1.5",2,,,,,,,,,`)
	assert.Equal(t, "Apples Gala", row.Description)
	assert.Equal(t, 1.5, *row.Price)
}

func TestNormalizeIsIdempotentOnSerializedRows(t *testing.T) {
	first := Normalize(canonicalHeaderLine + "\nApples,2.555,3,6/10 LB,,,,,,,,45")
	out := SerializeRows(first)
	assert.True(t, strings.HasPrefix(out, canonicalHeaderLine+"\n"))

	second := Normalize(out)
	require.Len(t, second, 1)
	assert.Equal(t, 7.7, *second[0].TotalPrice)
	assert.Equal(t, out, SerializeRows(second))
}

func TestNormalizeRecomputesTotalOutsideTolerance(t *testing.T) {
	row := normalizeOne(t, "Apples,2.6,3,,,,,7.7,,,,45")
	assert.Equal(t, 7.7, *row.TotalPrice)

	row = normalizeOne(t, "Apples,2.6,3,,,,,9.0,,,,45")
	assert.Equal(t, 7.8, *row.TotalPrice)
}

func TestNormalizeFractionalQuantityIsBlank(t *testing.T) {
	row := normalizeOne(t, "Apples,1.5,2.5,,,,,,,,,45")
	assert.Nil(t, row.Quantity)
	assert.Nil(t, row.TotalPrice)
}

func TestNormalizeRejectsHugeIntegers(t *testing.T) {
	row := normalizeOne(t, "Apples,1.5,1e30,,1e30,1e30,LB,,,,,45")
	assert.Nil(t, row.Quantity)
	assert.Nil(t, row.Pack)
	assert.Nil(t, row.Size)
}

func TestNormalizeAfterHeaderRepairMergesDescriptionCommas(t *testing.T) {
	rows := []string{
		"Apples, red,2.5,3,6/10 LB,6,10,LB,7.5,0.4,0.0,0.0,000045",
		"Milk, whole,3.1,4,1/1 GAL,1,1,GAL,12.4,3.1,3.1,0.0,100046",
		"Chicken, breast,24.0,2,4/10 LB,4,10,LB,48.0,6.0,0.6,0.6,100050",
	}
	repaired := RepairHeader(canonicalHeaderLine + "\n" + strings.Join(rows, "\n"))
	require.Equal(t, RuleExtendHeader, repaired.Rule)

	got := Normalize(repaired.Text)
	require.Len(t, got, 3)
	assert.Equal(t, "Apples, red", got[0].Description)
	assert.Equal(t, 2.5, *got[0].Price)
	assert.Equal(t, 3, *got[0].Quantity)
	assert.Equal(t, "6/10 LB", got[0].PackSize)
	assert.Equal(t, 7.5, *got[0].TotalPrice)
	assert.Equal(t, "000045", got[0].Foodcode)
	assert.Equal(t, "Chicken, breast", got[2].Description)
	assert.Equal(t, "100050", got[2].Foodcode)
}

func TestReassembleKeepsSingleHeader(t *testing.T) {
	chunk1 := canonicalHeaderLine + "\nApples,1.5,2,,,,,,,,,\nMilk,3.1,4,,,,,,,,,"
	chunk2 := "Rice,20.0,1,,,,,,,,,\nBeans,2.0,6,,,,,,,,,"

	combined := Reassemble([]string{chunk1, chunk2})
	lines := strings.Split(combined, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, canonicalHeaderLine, lines[0])
	assert.Equal(t, []string{"Apples", "Milk", "Rice", "Beans"}, []string{
		utils.SplitCSVLine(lines[1])[0], utils.SplitCSVLine(lines[2])[0],
		utils.SplitCSVLine(lines[3])[0], utils.SplitCSVLine(lines[4])[0],
	})
}

func TestReassembleDropsRepeatedHeaders(t *testing.T) {
	chunk1 := canonicalHeaderLine + "\nApples,1.5,2,,,,,,,,,"
	chunk2 := canonicalHeaderLine + "\nRice,20.0,1,,,,,,,,,"

	lines := strings.Split(Reassemble([]string{chunk1, "", chunk2}), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, 1, strings.Count(strings.Join(lines, "\n"), "Description"))
}

func TestReassembleAddsHeaderWhenFirstChunkLacksOne(t *testing.T) {
	lines := strings.Split(Reassemble([]string{"", "Rice,20.0,1,,,,,,,,,"}), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, canonicalHeaderLine, lines[0])
}

func TestLooksLikeHeader(t *testing.T) {
	assert.True(t, LooksLikeHeader(canonicalHeaderLine))
	assert.True(t, LooksLikeHeader("description,price,qty,Column_4"))
	assert.False(t, LooksLikeHeader("Apples,1.5,2,6/10 LB,6,10,LB,3.0,0.3,0.0,0.0,100045"))
}
