package client

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/Aashish23092/food-procurement-ocr/dto"
)

// FirestoreClient is the purchase-history row store.
type FirestoreClient struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID, collection string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	if collection == "" {
		collection = "food_data"
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreClient{client: client, collection: collection}, nil
}

// SaveRows writes each row as a new document and returns how many were stored.
func (c *FirestoreClient) SaveRows(ctx context.Context, rows []dto.PurchaseRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	bw := c.client.BulkWriter(ctx)
	coll := c.client.Collection(c.collection)

	jobs := make([]*firestore.BulkWriterJob, 0, len(rows))
	for i := range rows {
		job, err := bw.Create(coll.NewDoc(), rows[i])
		if err != nil {
			log.Printf("Failed to enqueue purchase row %d: %v", i, err)
			continue
		}
		jobs = append(jobs, job)
	}
	bw.End()

	saved := 0
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved++
	}
	if firstErr != nil {
		return saved, fmt.Errorf("failed to save %d of %d purchase rows: %w", len(rows)-saved, len(rows), firstErr)
	}
	return saved, nil
}

// QueryRows returns purchase rows matching the filter's equality and year range predicates.
func (c *FirestoreClient) QueryRows(ctx context.Context, filter dto.PurchaseFilter) ([]dto.PurchaseRow, error) {
	q := c.client.Collection(c.collection).Query
	if filter.SchoolName != "" {
		q = q.Where("School_name", "==", filter.SchoolName)
	}
	if filter.ExcludeSchoolName != "" {
		q = q.Where("School_name", "!=", filter.ExcludeSchoolName)
	}
	if filter.ItemCategory != "" {
		q = q.Where("item_category", "==", filter.ItemCategory)
	}
	if filter.YearMin > 0 {
		q = q.Where("Document_year", ">=", filter.YearMin)
	}
	if filter.YearMax > 0 {
		q = q.Where("Document_year", "<=", filter.YearMax)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase rows: %w", err)
	}

	rows := make([]dto.PurchaseRow, 0, len(docs))
	for _, doc := range docs {
		var row dto.PurchaseRow
		if err := doc.DataTo(&row); err != nil {
			log.Printf("Skipping purchase row %s: %v", doc.Ref.ID, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *FirestoreClient) Close() error {
	return c.client.Close()
}
