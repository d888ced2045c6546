package repository

import (
	"context"

	"pdfqa/internal/model"
)

// DocumentRepository defines data access for PDF documents using SQL queries only.
// There is no update or delete: records are immutable once created.
type DocumentRepository interface {
	// Create inserts a new document record and returns it as stored.
	// The caller assigns ID and UploadDate.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindLatestByFilename returns the most recently uploaded document with exactly this filename.
	// It returns sql.ErrNoRows when nothing matches.
	FindLatestByFilename(ctx context.Context, filename string) (*model.Document, error)

	// FindByID returns a document by its ID, including content.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a page of documents without their content, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
