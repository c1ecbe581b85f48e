package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// StorageClient is the blob store for CSV and XLSX artifacts.
type StorageClient struct {
	client *storage.Client
	bucket string
}

func NewStorageClient(ctx context.Context, bucket string) (*StorageClient, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket must be provided to create a storage client")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &StorageClient{client: client, bucket: bucket}, nil
}

// Upload writes data to path, replacing any existing object.
func (s *StorageClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	return s.write(ctx, s.client.Bucket(s.bucket).Object(path), path, data, contentType)
}

// Create writes data to path only if no object exists there yet.
func (s *StorageClient) Create(ctx context.Context, path string, data []byte, contentType string) error {
	obj := s.client.Bucket(s.bucket).Object(path).If(storage.Conditions{DoesNotExist: true})
	err := s.write(ctx, obj, path, data, contentType)
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 412 {
		return dto.ErrObjectExists
	}
	return err
}

func (s *StorageClient) write(ctx context.Context, obj *storage.ObjectHandle, path string, data []byte, contentType string) error {
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		log.Printf("ERROR: Failed to copy content to GCS object %s: %v", path, err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS write for %s: %w", path, err)
	}
	return nil
}

// Download returns the contents of the object at path.
func (s *StorageClient) Download(ctx context.Context, path string) ([]byte, error) {
	reader, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, dto.ErrObjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", path, err)
	}
	return data, nil
}

// PublicURL returns the public HTTPS address of path.
func (s *StorageClient) PublicURL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, strings.Join(segments, "/"))
}

func (s *StorageClient) Close() error {
	return s.client.Close()
}
