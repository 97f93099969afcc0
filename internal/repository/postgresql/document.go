package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/database"
)

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

const documentSelect = `
		SELECT d.id, d.employee_id, d.type, d.name, d.file_path, d.status, d.review_comment,
			d.reviewed_by::text, d.reviewed_at, d.uploaded_at, e.name
		FROM documents d
		JOIN employees e ON e.id = d.employee_id
`

func scanDocument(row pgx.Row) (document.Document, error) {
	var d document.Document
	err := row.Scan(&d.ID, &d.EmployeeID, &d.Type, &d.Name, &d.FilePath, &d.Status, &d.ReviewComment,
		&d.ReviewedBy, &d.ReviewedAt, &d.UploadedAt, &d.EmployeeName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, err
	}
	return d, nil
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, d document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	if d.ID == "" {
		d.ID = newID()
	}
	if d.Status == "" {
		d.Status = document.StatusPending
	}

	_, err := q.Exec(ctx, `
		INSERT INTO documents (id, employee_id, type, name, file_path, status, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, d.EmployeeID, d.Type, d.Name, d.FilePath, d.Status, d.UploadedAt)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to create document: %w", err)
	}
	return d, nil
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (document.Document, error) {
	q := GetQuerier(ctx, r.db)
	return scanDocument(q.QueryRow(ctx, documentSelect+` WHERE d.id = $1`, id))
}

// List implements document.DocumentRepository.
func (r *documentRepositoryImpl) List(ctx context.Context, filter document.DocumentFilter) ([]document.Document, int64, error) {
	q := GetQuerier(ctx, r.db)

	var w whereBuilder
	if filter.Status != nil {
		w.add("d.status = $%d", *filter.Status)
	}
	if filter.EmployeeID != nil {
		w.add("d.employee_id = $%d", *filter.EmployeeID)
	}
	where := w.sql()

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM documents d`+where, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	page := filter.Pagination.Normalize()
	rows, err := q.Query(ctx, documentSelect+where+` ORDER BY d.uploaded_at DESC`+w.page(page.Limit, page.Offset()), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// UpdateReview implements document.DocumentRepository.
func (r *documentRepositoryImpl) UpdateReview(ctx context.Context, d document.Document) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE documents
		SET status = $2, review_comment = $3, reviewed_by = $4, reviewed_at = $5
		WHERE id = $1
	`, d.ID, d.Status, d.ReviewComment, d.ReviewedBy, d.ReviewedAt)
	if err != nil {
		return fmt.Errorf("failed to review document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}

// Delete implements document.DocumentRepository.
func (r *documentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}
