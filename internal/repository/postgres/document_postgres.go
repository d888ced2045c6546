package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pdfqa/internal/model"
	"pdfqa/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository
// backed by the pdf_documents table.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// withConn pins one pooled connection for the duration of fn and always returns it to the pool.
func (r *DocumentPostgres) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO pdf_documents (id, filename, upload_date, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, filename, upload_date, content
	`
	var out model.Document
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, q, doc.ID, doc.Filename, doc.UploadDate, doc.Content).
			Scan(&out.ID, &out.Filename, &out.UploadDate, &out.Content)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindLatestByFilename returns the newest row for filename; ties on upload_date fall back to id order.
func (r *DocumentPostgres) FindLatestByFilename(ctx context.Context, filename string) (*model.Document, error) {
	const q = `
		SELECT id, filename, upload_date, content
		FROM pdf_documents
		WHERE filename = $1
		ORDER BY upload_date DESC, id DESC
		LIMIT 1
	`
	var d model.Document
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, q, filename).
			Scan(&d.ID, &d.Filename, &d.UploadDate, &d.Content)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, filename, upload_date, content
		FROM pdf_documents
		WHERE id = $1
	`
	var d model.Document
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, q, id).
			Scan(&d.ID, &d.Filename, &d.UploadDate, &d.Content)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns document metadata using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM pdf_documents`
	const qList = `
		SELECT id, filename, upload_date
		FROM pdf_documents
		ORDER BY upload_date DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	res := &repository.PageResult[model.Document]{Items: make([]model.Document, 0)}
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		if err := conn.QueryRowContext(ctx, qCount).Scan(&res.Total); err != nil {
			return err
		}

		rows, err := conn.QueryContext(ctx, qList, pq.Limit, pq.Offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var d model.Document
			if err := rows.Scan(&d.ID, &d.Filename, &d.UploadDate); err != nil {
				return err
			}
			res.Items = append(res.Items, d)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
