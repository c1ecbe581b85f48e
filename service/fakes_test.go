package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// scriptedGenerator replays responses in order and records every request.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []dto.GenerateRequest
}

func (g *scriptedGenerator) Generate(ctx context.Context, req dto.GenerateRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.requests)
	g.requests = append(g.requests, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

// promptGenerator answers through a function of the prompt.
type promptGenerator struct {
	mu    sync.Mutex
	calls int
	fn    func(req dto.GenerateRequest) (string, error)
}

func (g *promptGenerator) Generate(ctx context.Context, req dto.GenerateRequest) (string, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return g.fn(req)
}

type fakeFetcher struct {
	files map[string][]byte
}

func (f *fakeFetcher) Download(ctx context.Context, url string) ([]byte, error) {
	data, ok := f.files[url]
	if !ok {
		return nil, fmt.Errorf("unexpected status 404 for %s", url)
	}
	return data, nil
}

type fakeTextSource struct {
	texts map[string]string
}

func (f *fakeTextSource) ExtractText(ctx context.Context, doc dto.SourceDocument) dto.ExtractedText {
	return dto.ExtractedText{Text: f.texts[doc.URL], Method: "pdf_text"}
}

type memoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = append([]byte(nil), data...)
	m.types[path] = contentType
	return nil
}

func (m *memoryBlobStore) Create(ctx context.Context, path string, data []byte, contentType string) error {
	m.mu.Lock()
	if _, ok := m.objects[path]; ok {
		m.mu.Unlock()
		return dto.ErrObjectExists
	}
	m.mu.Unlock()
	return m.Upload(ctx, path, data, contentType)
}

func (m *memoryBlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, dto.ErrObjectNotFound
	}
	return data, nil
}

func (m *memoryBlobStore) PublicURL(path string) string {
	return "https://storage.example.test/bucket/" + path
}

type memoryRowStore struct {
	mu      sync.Mutex
	rows    []dto.PurchaseRow
	queries []dto.PurchaseFilter
}

func (m *memoryRowStore) SaveRows(ctx context.Context, rows []dto.PurchaseRow) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
	return len(rows), nil
}

func (m *memoryRowStore) QueryRows(ctx context.Context, f dto.PurchaseFilter) ([]dto.PurchaseRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, f)
	var out []dto.PurchaseRow
	for _, r := range m.rows {
		if f.SchoolName != "" && r.SchoolName != f.SchoolName {
			continue
		}
		if f.ExcludeSchoolName != "" && r.SchoolName == f.ExcludeSchoolName {
			continue
		}
		if f.ItemCategory != "" && r.ItemCategory != f.ItemCategory {
			continue
		}
		if f.YearMin > 0 && r.DocumentYear < f.YearMin {
			continue
		}
		if f.YearMax > 0 && r.DocumentYear > f.YearMax {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

const testFoodIndex = `100045: Apples, fresh
100046: Milk, fluid
100050: Chicken, breast
`

// pdfBytes starts with the PDF magic so content sniffing classifies it.
var pdfBytes = []byte("%PDF-1.4\nfake")
