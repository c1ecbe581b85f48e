package service

import (
	"fmt"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// SystemPrompt is sent with every extraction call.
const SystemPrompt = "You are a precise invoice parser. Reply with CSV only, no commentary."

var columnRules = []string{
	"Description: the item name as printed. Wrap it in double quotes only if it contains a comma.",
	"Price: the unit price paid, not the line total.",
	"Quantity: the number of units purchased, as a whole number.",
	"Pack Size: the pack expression as printed, for example 6/10 LB.",
	"Pack: the number before the divider in Pack Size. If Pack Size has a single value, Pack is 1.",
	"Size: the number after the divider in Pack Size.",
	"UOM: the unit of measure, abbreviated (OZ, LB, CT, EA, GAL, L).",
	"Total Price: Price multiplied by Quantity.",
	"Price Per Pack: Price divided by Pack.",
	"Price Per Pack Size: Price divided by (Pack multiplied by Size).",
	"Price Per Pound: the price per pound when the unit is a weight, otherwise blank.",
	"Foodcode: the code of the most specific matching entry in the food index below. Prefer a specific entry over a generic category. Use " + dto.UnknownFoodcode + " only when nothing matches.",
}

var formatRules = []string{
	"Output CSV only. No markdown, no code fences, no notes before or after the table.",
	"Do not write currency symbols or dates in any cell.",
	"Leave a cell blank when the value is missing. Never guess placeholder values.",
	"Write every price with exactly one decimal place.",
	"Emit one row for every item line in the text, including repeated or similar items.",
	"Do not summarize, group, truncate or stop early. Continue until the last item of the text.",
}

// BuildPrompt assembles the extraction instructions for one chunk. It is a
// pure function of its inputs.
func BuildPrompt(chunkText, foodIndex, headerContext string, isContinuation bool) string {
	var b strings.Builder

	if isContinuation {
		b.WriteString("This text continues a document that was split into parts. ")
		b.WriteString("Keep exactly the same column structure used for the first part. ")
		b.WriteString("The column layout of the original document was:\n")
		if strings.TrimSpace(headerContext) != "" {
			b.WriteString(headerContext)
		} else {
			b.WriteString("(not available)")
		}
		b.WriteString("\n\n")
	}

	b.WriteString("Extract every purchased item from the food procurement text below into CSV with exactly these ")
	fmt.Fprintf(&b, "%d columns, in this order and spelling, and no others:\n\n", dto.CanonicalColumnCount)
	b.WriteString(strings.Join(dto.CanonicalHeader, ","))
	b.WriteString("\n\nColumn rules:\n")
	for i, rule := range columnRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}

	b.WriteString("\nFormatting rules:\n")
	for _, rule := range formatRules {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}

	b.WriteString("\nFood Index:\n")
	b.WriteString(foodIndex)
	b.WriteString("\n\nDocument Text:\n")
	b.WriteString(chunkText)
	b.WriteString("\n")
	return b.String()
}

// DiagnosticBlock describes the defects of a rejected answer. It is appended
// to the base prompt on retry.
func DiagnosticBlock(attempt int, defects []dto.Defect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nYour previous answer (attempt %d) was rejected for these problems:\n", attempt)
	for _, d := range defects {
		b.WriteString("- ")
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Produce the full CSV again from the first row. The header and every row must have exactly %d columns.\n", dto.CanonicalColumnCount)
	return b.String()
}
