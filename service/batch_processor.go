package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

const DefaultMaxWorkers = 4

// Fetcher downloads a source file.
type Fetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Extractor extracts one chunk through the model.
type Extractor interface {
	Extract(ctx context.Context, req ExtractionRequest) ExtractionResult
}

type BatchProcessor struct {
	fetcher      Fetcher
	textSource   TextSource
	extractor    Extractor
	maxChunkSize int
	maxWorkers   int
}

func NewBatchProcessor(fetcher Fetcher, textSource TextSource, extractor Extractor, maxChunkSize, maxWorkers int) *BatchProcessor {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &BatchProcessor{
		fetcher:      fetcher,
		textSource:   textSource,
		extractor:    extractor,
		maxChunkSize: maxChunkSize,
		maxWorkers:   maxWorkers,
	}
}

// ProcessBatch processes every URL on a bounded pool of workers, one document
// per task. Results arrive in completion order. A failing document is
// recorded in its result and never stops the others.
func (b *BatchProcessor) ProcessBatch(ctx context.Context, requestID string, urls []string, foodIndex *FoodIndex) []dto.DocumentResult {
	workers := b.maxWorkers
	if len(urls) < workers {
		workers = len(urls)
	}
	log.Printf("[%s] Processing %d files with %d workers", requestID, len(urls), workers)

	var (
		mu      sync.Mutex
		results = make([]dto.DocumentResult, 0, len(urls))
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for _, url := range urls {
		g.Go(func() error {
			result := b.safeProcess(ctx, requestID, url, foodIndex)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (b *BatchProcessor) safeProcess(ctx context.Context, requestID, url string, foodIndex *FoodIndex) (result dto.DocumentResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[%s] Panic while processing %s: %v", requestID, url, r)
			result = dto.DocumentResult{URL: url, Kind: string(dto.SourceKindUnknown), Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	return b.ProcessDocument(ctx, requestID, url, foodIndex)
}

// ProcessDocument downloads one file, extracts its text, runs every chunk
// through the model in order and reassembles a single CSV table with one
// header.
func (b *BatchProcessor) ProcessDocument(ctx context.Context, requestID, url string, foodIndex *FoodIndex) dto.DocumentResult {
	start := time.Now()
	result := dto.DocumentResult{URL: url, Kind: string(dto.SourceKindUnknown)}

	data, err := b.fetcher.Download(ctx, url)
	if err != nil {
		log.Printf("[%s] Failed to download %s: %v", requestID, url, err)
		result.Error = fmt.Sprintf("download failed: %v", err)
		return result
	}

	kind, mime := DetectSourceKind(url, data)
	doc := dto.SourceDocument{URL: url, Kind: kind, MIME: mime, Data: data}
	result.Kind = string(kind)
	if kind == dto.SourceKindUnknown {
		result.Error = fmt.Sprintf("unsupported file type %s", mime)
		log.Printf("[%s] Skipping %s: %s", requestID, url, result.Error)
		return result
	}

	extracted := b.textSource.ExtractText(ctx, doc)
	result.Barcodes = extracted.Barcodes

	var requests []ExtractionRequest
	if extracted.Text == "" {
		// Nothing readable locally: let the model read the file itself.
		log.Printf("[%s] No text extracted from %s, sending the %s to the model", requestID, url, kind)
		requests = append(requests, ExtractionRequest{
			RequestID:    requestID,
			Source:       url,
			Chunk:        dto.Chunk{Index: 0},
			FoodIndex:    foodIndex.Text(),
			Document:     data,
			DocumentMIME: mime,
		})
	} else {
		for _, chunk := range Chunk(extracted.Text, b.maxChunkSize) {
			requests = append(requests, ExtractionRequest{
				RequestID: requestID,
				Source:    url,
				Chunk:     chunk,
				FoodIndex: foodIndex.Text(),
			})
		}
	}
	result.Chunks = len(requests)

	outputs := make([]string, 0, len(requests))
	for _, req := range requests {
		extraction := b.extractor.Extract(ctx, req)
		if extraction.Text == "" {
			log.Printf("[%s] Chunk %d of %s produced no output", requestID, req.Chunk.Index, url)
		}
		outputs = append(outputs, extraction.Text)
	}

	combined := Reassemble(outputs)
	if combined == "" {
		result.Error = "model produced no output"
		return result
	}

	repair := RepairHeader(combined)
	if repair.Changed {
		log.Printf("[%s] Header repair for %s: %s", requestID, url, repair.Description)
		result.RepairNote = repair.Description
	}
	result.CSV = repair.Text
	result.Rows = len(utils.NonEmptyLines(repair.Text)) - 1

	log.Printf("[%s] Finished %s: %d chunks, %d rows, %s", requestID, url, result.Chunks, result.Rows, time.Since(start).Round(time.Millisecond))
	return result
}

// CombineResults normalizes every document's table and concatenates the rows
// in result order.
func CombineResults(results []dto.DocumentResult) []dto.CanonicalRow {
	var rows []dto.CanonicalRow
	for _, r := range results {
		if strings.TrimSpace(r.CSV) == "" {
			continue
		}
		rows = append(rows, Normalize(r.CSV)...)
	}
	return rows
}
