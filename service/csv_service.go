package service

import (
	"context"
	"fmt"
	"path"

	"github.com/Aashish23092/food-procurement-ocr/dto"
	"github.com/Aashish23092/food-procurement-ocr/utils"
)

// CSVService reads and rewrites stored CSV artifacts for manual review.
type CSVService struct {
	blobs BlobStore
}

func NewCSVService(blobs BlobStore) *CSVService {
	return &CSVService{blobs: blobs}
}

// GetCSV downloads a stored artifact and returns its rows, header included.
func (s *CSVService) GetCSV(ctx context.Context, name string) ([][]string, error) {
	if err := dto.ValidateCSVFileName(name); err != nil {
		return nil, err
	}
	data, err := s.blobs.Download(ctx, path.Join(csvPrefix, name))
	if err != nil {
		return nil, err
	}
	rows, err := utils.ParseCSV(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return rows, nil
}

// SaveCSV overwrites a stored artifact with edited rows and returns its URL.
func (s *CSVService) SaveCSV(ctx context.Context, req *dto.SaveCSVRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	content, err := utils.WriteCSV(req.Data)
	if err != nil {
		return "", fmt.Errorf("failed to encode CSV: %w", err)
	}
	p := path.Join(csvPrefix, req.CSVFileName)
	if err := s.blobs.Upload(ctx, p, []byte(content), csvContentType); err != nil {
		return "", fmt.Errorf("failed to save CSV: %w", err)
	}
	return s.blobs.PublicURL(p), nil
}
