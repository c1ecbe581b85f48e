package dto

import "time"

// CanonicalHeader is the exact column order every extracted table must follow.
var CanonicalHeader = []string{
	"Description",
	"Price",
	"Quantity",
	"Pack Size",
	"Pack",
	"Size",
	"UOM",
	"Total Price",
	"Price Per Pack",
	"Price Per Pack Size",
	"Price Per Pound",
	"Foodcode",
}

// CanonicalColumnCount is len(CanonicalHeader).
const CanonicalColumnCount = 12

// UnknownFoodcode is used by the model when no food index entry matches.
const UnknownFoodcode = "999999"

type SourceKind string

const (
	SourceKindPDF     SourceKind = "pdf"
	SourceKindImage   SourceKind = "image"
	SourceKindUnknown SourceKind = "unknown"
)

// SourceDocument is a downloaded invoice. It is never persisted.
type SourceDocument struct {
	URL  string     `json:"url"`
	Kind SourceKind `json:"kind"`
	MIME string     `json:"mime"`
	Data []byte     `json:"-"`
}

// ExtractedText is the plain text of a SourceDocument. Text is empty when
// every extraction path failed.
type ExtractedText struct {
	Text     string
	Barcodes []string
	// Method names the path that produced Text: "pdf_text", "ocr" or "".
	Method string
}

// GenerateRequest is one stateless call to the extraction model.
// Document is optional; when set the raw file is sent alongside the prompt.
type GenerateRequest struct {
	System       string
	Prompt       string
	Document     []byte
	DocumentMIME string
}

// Chunk is an ordered slice of a document's extracted text.
type Chunk struct {
	Index          int    `json:"index"`
	Text           string `json:"text"`
	IsContinuation bool   `json:"is_continuation"`
	HeaderContext  string `json:"header_context,omitempty"`
}

// CanonicalRow is one normalized invoice line item. Nil fields serialize blank.
type CanonicalRow struct {
	Description      string
	Price            *float64
	Quantity         *int
	PackSize         string
	Pack             *int
	Size             *int
	UOM              string
	TotalPrice       *float64
	PricePerPack     *float64
	PricePerPackSize *float64
	PricePerPound    *float64
	Foodcode         string
}

// FoodIndexEntry is one "code: description" line of the food index.
type FoodIndexEntry struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text,omitempty"`
}

// DocumentResult is the outcome of processing a single source file.
type DocumentResult struct {
	URL        string   `json:"url"`
	Kind       string   `json:"kind"`
	Chunks     int      `json:"chunks"`
	Rows       int      `json:"rows"`
	Barcodes   []string `json:"barcodes,omitempty"`
	RepairNote string   `json:"repair_note,omitempty"`
	Error      string   `json:"error,omitempty"`

	// CSV is the reassembled, header-repaired table for this document.
	CSV string `json:"-"`
}

// PurchaseRow is a CanonicalRow as stored in the purchase-history row store.
type PurchaseRow struct {
	Description    string    `firestore:"Description" json:"Description"`
	Price          float64   `firestore:"Price" json:"Price"`
	Quantity       int       `firestore:"Quantity" json:"Quantity"`
	PackSize       string    `firestore:"Pack_size,omitempty" json:"Pack_size,omitempty"`
	UOM            string    `firestore:"UOM,omitempty" json:"UOM,omitempty"`
	TotalPrice     float64   `firestore:"Total_price" json:"Total_price"`
	PricePerPound  *float64  `firestore:"Price_per_lb" json:"Price_per_lb"`
	Foodcode       string    `firestore:"Foodcode,omitempty" json:"Foodcode,omitempty"`
	ItemCategory   string    `firestore:"item_category" json:"item_category"`
	SchoolName     string    `firestore:"School_name" json:"School_name"`
	DocumentYear   int       `firestore:"Document_year" json:"Document_year"`
	SourceFileName string    `firestore:"Source_file,omitempty" json:"Source_file,omitempty"`
	CreatedAt      time.Time `firestore:"created_at" json:"created_at"`
}

// PurchaseFilter selects purchase rows by equality and year range.
type PurchaseFilter struct {
	SchoolName        string
	ExcludeSchoolName string
	ItemCategory      string
	YearMin           int
	YearMax           int
}
