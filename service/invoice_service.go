package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

const (
	csvPrefix  = "csvs"
	xlsxPrefix = "xlsx"

	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// BlobStore is the object store that holds CSV and XLSX artifacts.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Create(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	PublicURL(path string) string
}

// RowStore is the purchase-history store.
type RowStore interface {
	SaveRows(ctx context.Context, rows []dto.PurchaseRow) (int, error)
	QueryRows(ctx context.Context, filter dto.PurchaseFilter) ([]dto.PurchaseRow, error)
}

// FoodIndexLoader returns the current food index.
type FoodIndexLoader func() (*FoodIndex, error)

type InvoiceService struct {
	batch      *BatchProcessor
	loadIndex  FoodIndexLoader
	blobs      BlobStore
	rows       RowStore
	exporter   *ExportService
	exportXLSX bool
	now        func() time.Time
}

// NewInvoiceService wires the pipeline. rows may be nil, in which case
// purchase history is not recorded.
func NewInvoiceService(batch *BatchProcessor, loadIndex FoodIndexLoader, blobs BlobStore, rows RowStore, exporter *ExportService, exportXLSX bool) *InvoiceService {
	return &InvoiceService{
		batch:      batch,
		loadIndex:  loadIndex,
		blobs:      blobs,
		rows:       rows,
		exporter:   exporter,
		exportXLSX: exportXLSX,
		now:        time.Now,
	}
}

// ProcessInvoices runs the whole batch and stores one CSV artifact. Quality
// warnings are reported in the response; only an unreadable food index, an
// empty result or a failed CSV upload return an error.
func (s *InvoiceService) ProcessInvoices(ctx context.Context, req *dto.ProcessRequest) (*dto.ProcessResponse, error) {
	requestID := uuid.NewString()
	start := s.now()

	foodIndex, err := s.loadIndex()
	if err != nil {
		log.Printf("[%s] Aborting batch: %v", requestID, err)
		return nil, err
	}

	urls := make([]string, len(req.FileURLs))
	for i, u := range req.FileURLs {
		urls[i] = strings.TrimSpace(u)
	}

	results := s.batch.ProcessBatch(ctx, requestID, urls, foodIndex)
	rows := CombineResults(results)
	if len(rows) == 0 {
		log.Printf("[%s] No rows extracted from %d files", requestID, len(urls))
		return nil, dto.ErrNoCSVOutput
	}

	csvContent := SerializeRows(rows)
	quality := CheckQuality(rows, foodIndex)
	if quality.Status == dto.QualityWarning {
		log.Printf("[%s] Quality check raised %d issues", requestID, len(quality.Issues))
	}

	stamp := start.Format("20060102150405")
	csvName, err := s.storeCSV(ctx, stamp, []byte(csvContent))
	if err != nil {
		return nil, err
	}
	csvPath := path.Join(csvPrefix, csvName)

	resp := &dto.ProcessResponse{
		Status:      dto.StatusSuccess,
		Message:     fmt.Sprintf("Extracted %d items from %d files", len(rows), len(urls)),
		CSVContent:  csvContent,
		CSVFileName: csvName,
		CSVURL:      s.blobs.PublicURL(csvPath),
		Quality:     quality,
		Files: dto.ProcessFiles{
			Inputs:    urls,
			CSV:       csvPath,
			Documents: results,
		},
	}

	if s.exportXLSX && s.exporter != nil {
		xlsxPath := path.Join(xlsxPrefix, strings.TrimSuffix(csvName, ".csv")+".xlsx")
		if data, err := s.exporter.BuildWorkbook(rows, quality); err != nil {
			log.Printf("[%s] Failed to build XLSX export: %v", requestID, err)
		} else if err := s.blobs.Upload(ctx, xlsxPath, data, xlsxContentType); err != nil {
			log.Printf("[%s] Failed to upload XLSX export: %v", requestID, err)
		} else {
			resp.Files.XLSX = xlsxPath
			resp.XLSXURL = s.blobs.PublicURL(xlsxPath)
		}
	}

	if req.PersistRows() {
		resp.RowsSaved = s.saveHistory(ctx, requestID, req, csvName, rows, foodIndex)
	}

	log.Printf("[%s] Batch finished: %d files, %d rows, stored as %s in %s",
		requestID, len(urls), len(rows), csvPath, s.now().Sub(start).Round(time.Millisecond))
	return resp, nil
}

// storeCSV writes the artifact under a timestamped name without overwriting
// an artifact from a concurrent request in the same second.
func (s *InvoiceService) storeCSV(ctx context.Context, stamp string, data []byte) (string, error) {
	name := fmt.Sprintf("processed_%s.csv", stamp)
	err := s.blobs.Create(ctx, path.Join(csvPrefix, name), data, csvContentType)
	if errors.Is(err, dto.ErrObjectExists) {
		name = fmt.Sprintf("processed_%s_%s.csv", stamp, uuid.NewString()[:8])
		err = s.blobs.Create(ctx, path.Join(csvPrefix, name), data, csvContentType)
	}
	if err != nil {
		return "", fmt.Errorf("failed to store CSV: %w", err)
	}
	return name, nil
}

func (s *InvoiceService) saveHistory(ctx context.Context, requestID string, req *dto.ProcessRequest, csvName string, rows []dto.CanonicalRow, foodIndex *FoodIndex) int {
	if s.rows == nil {
		log.Printf("[%s] No row store configured, purchase history not saved", requestID)
		return 0
	}
	history := ToPurchaseRows(rows, strings.TrimSpace(req.SchoolName), req.DocumentYear, csvName, foodIndex.Category, s.now())
	saved, err := s.rows.SaveRows(ctx, history)
	if err != nil {
		log.Printf("[%s] Failed to save purchase history: %v", requestID, err)
	}
	return saved
}

// ToPurchaseRows converts normalized rows to purchase-history records. Rows
// without a price or quantity are skipped.
func ToPurchaseRows(rows []dto.CanonicalRow, school string, year int, source string, category func(string) string, now time.Time) []dto.PurchaseRow {
	out := make([]dto.PurchaseRow, 0, len(rows))
	for _, r := range rows {
		if r.Price == nil || r.Quantity == nil {
			continue
		}
		total := *r.Price * float64(*r.Quantity)
		if r.TotalPrice != nil {
			total = *r.TotalPrice
		}
		out = append(out, dto.PurchaseRow{
			Description:    r.Description,
			Price:          *r.Price,
			Quantity:       *r.Quantity,
			PackSize:       r.PackSize,
			UOM:            r.UOM,
			TotalPrice:     total,
			PricePerPound:  r.PricePerPound,
			Foodcode:       r.Foodcode,
			ItemCategory:   category(r.Foodcode),
			SchoolName:     school,
			DocumentYear:   year,
			SourceFileName: source,
			CreatedAt:      now,
		})
	}
	return out
}
