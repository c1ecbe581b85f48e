package service

import (
	"bytes"
	"context"
	"image"
	"log"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

// minTextLayerChars is the shortest PDF text layer accepted before falling
// back to OCR of the embedded page images.
const minTextLayerChars = 20

// OCREngine turns an encoded image into text with a 0-100 confidence.
type OCREngine interface {
	ExtractTextAndQuality(imageData []byte) (string, float64, error)
}

// BarcodeScanner returns the symbol values printed on an image.
type BarcodeScanner interface {
	Scan(img image.Image) []string
}

// TextSource converts a source document to plain text. It never fails.
type TextSource interface {
	ExtractText(ctx context.Context, doc dto.SourceDocument) dto.ExtractedText
}

type TextExtractor struct {
	pdfProcessor PDFProcessor
	ocrEngines   []OCREngine
	barcodes     BarcodeScanner
}

// NewTextExtractor wires the PDF reader and OCR engines. Engines are tried in
// order for every image; the first one that returns usable text wins.
func NewTextExtractor(pdfProcessor PDFProcessor, barcodes BarcodeScanner, ocrEngines ...OCREngine) *TextExtractor {
	return &TextExtractor{
		pdfProcessor: pdfProcessor,
		ocrEngines:   ocrEngines,
		barcodes:     barcodes,
	}
}

// ExtractText returns the document's text, or an empty result when nothing
// could be read. Failures are logged, never returned.
func (e *TextExtractor) ExtractText(ctx context.Context, doc dto.SourceDocument) dto.ExtractedText {
	var result dto.ExtractedText
	if ctx.Err() != nil {
		return result
	}

	switch doc.Kind {
	case dto.SourceKindPDF:
		result = e.extractPDF(doc)
	case dto.SourceKindImage:
		result = e.extractImage(doc)
	default:
		log.Printf("Unsupported file type for %s (%s), skipping text extraction", doc.URL, doc.MIME)
		return result
	}

	result.Text = strings.TrimSpace(utils.CleanText(result.Text))
	if result.Text == "" {
		log.Printf("No text extracted from %s", doc.URL)
		result.Method = ""
	}
	return result
}

func (e *TextExtractor) extractPDF(doc dto.SourceDocument) dto.ExtractedText {
	var result dto.ExtractedText

	if pages, err := e.pdfProcessor.PageCount(doc.Data); err == nil {
		log.Printf("PDF %s has %d pages", doc.URL, pages)
	}

	text, err := e.pdfProcessor.ExtractText(doc.Data)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", doc.URL, err)
	}
	if len(strings.TrimSpace(text)) >= minTextLayerChars {
		result.Text = text
		result.Method = "pdf_text"
		return result
	}

	log.Printf("PDF %s seems to be scanned or has minimal text, attempting image-based OCR", doc.URL)
	images, err := e.pdfProcessor.ExtractImages(doc.Data)
	if err != nil || len(images) == 0 {
		log.Printf("Failed to extract images from PDF %s: %v", doc.URL, err)
		return result
	}

	var combined strings.Builder
	var totalConfidence float64
	pagesRead := 0
	for _, img := range images {
		result.Barcodes = appendUnique(result.Barcodes, e.scan(img.Image)...)

		pageText, conf, ok := e.ocr(img.Data)
		if !ok {
			log.Printf("OCR failed for image %s in %s", img.Name, doc.URL)
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConfidence += conf
		pagesRead++
	}

	if pagesRead > 0 {
		log.Printf("OCR read %d of %d images from %s, mean confidence %.1f", pagesRead, len(images), doc.URL, totalConfidence/float64(pagesRead))
		result.Text = combined.String()
		result.Method = "ocr"
	}
	return result
}

func (e *TextExtractor) extractImage(doc dto.SourceDocument) dto.ExtractedText {
	var result dto.ExtractedText

	if img, _, err := image.Decode(bytes.NewReader(doc.Data)); err == nil {
		result.Barcodes = e.scan(img)
	} else {
		log.Printf("Could not decode image %s for barcode scan: %v", doc.URL, err)
	}

	text, conf, ok := e.ocr(doc.Data)
	if !ok {
		log.Printf("Image OCR failed for %s", doc.URL)
		return result
	}
	log.Printf("OCR confidence for %s: %.1f", doc.URL, conf)
	result.Text = text
	result.Method = "ocr"
	return result
}

func (e *TextExtractor) ocr(data []byte) (string, float64, bool) {
	for _, engine := range e.ocrEngines {
		text, conf, err := engine.ExtractTextAndQuality(data)
		if err != nil {
			log.Printf("OCR engine %T failed: %v", engine, err)
			continue
		}
		if len(strings.TrimSpace(text)) < 5 {
			continue
		}
		return text, conf, true
	}
	return "", 0, false
}

func (e *TextExtractor) scan(img image.Image) []string {
	if e.barcodes == nil || img == nil {
		return nil
	}
	return e.barcodes.Scan(img)
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

// DetectSourceKind classifies a downloaded file by its content, falling back
// to the URL extension when the content is ambiguous.
func DetectSourceKind(rawURL string, data []byte) (dto.SourceKind, string) {
	sniffed := http.DetectContentType(data)
	switch {
	case sniffed == "application/pdf":
		return dto.SourceKindPDF, sniffed
	case strings.HasPrefix(sniffed, "image/"):
		return dto.SourceKindImage, sniffed
	}

	ext := ""
	if u, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(u.Path))
	}
	if ext == ".pdf" {
		return dto.SourceKindPDF, "application/pdf"
	}
	if mime, ok := imageExtensions[ext]; ok {
		return dto.SourceKindImage, mime
	}
	return dto.SourceKindUnknown, sniffed
}
