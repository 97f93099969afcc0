package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/common"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/onboarding-backend-go/internal/service/file"
)

const relatedType = "document"

type DocumentServiceImpl struct {
	documents   document.DocumentRepository
	employees   employee.EmployeeRepository
	fileService file.FileService
	notifier    notification.Sink
	clock       clock.Clock
}

func NewDocumentService(
	documentRepo document.DocumentRepository,
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
	notifier notification.Sink,
	clk clock.Clock,
) document.DocumentService {
	return &DocumentServiceImpl{
		documents:   documentRepo,
		employees:   employeeRepo,
		fileService: fileService,
		notifier:    notifier,
		clock:       clk,
	}
}

func (s *DocumentServiceImpl) toResponse(d document.Document) document.DocumentResponse {
	return document.NewDocumentResponse(d, s.fileService.URL(d.FilePath))
}

// Upload implements document.DocumentService.
func (s *DocumentServiceImpl) Upload(ctx context.Context, actor user.Actor, req document.UploadRequest, r io.Reader, filename string, size int64) (document.DocumentResponse, error) {
	stored, err := s.fileService.UploadDocument(ctx, actor.EmployeeID, string(req.Type), file.Upload{Reader: r, FileName: filename, Size: size})
	if err != nil {
		return document.DocumentResponse{}, err
	}

	name := req.Name
	if name == "" {
		name = stored.FileName
	}

	doc, err := s.documents.Create(ctx, document.Document{
		EmployeeID: actor.EmployeeID,
		Type:       req.Type,
		Name:       name,
		FilePath:   stored.Path,
		Status:     document.StatusPending,
		UploadedAt: s.clock.Now(),
	})
	if err != nil {
		if delErr := s.fileService.DeleteFile(ctx, stored.Path); delErr != nil {
			slog.Warn("failed to remove orphaned document file", "path", stored.Path, "error", delErr)
		}
		return document.DocumentResponse{}, fmt.Errorf("failed to create document: %w", err)
	}

	s.notifyAdmins(ctx, doc)
	return s.toResponse(doc), nil
}

func (s *DocumentServiceImpl) notifyAdmins(ctx context.Context, doc document.Document) {
	adminIDs, err := s.employees.ListAdminIDs(ctx)
	if err != nil {
		slog.Error("failed to list admins for document notification", "document_id", doc.ID, "error", err)
		return
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(adminIDs))
	for _, id := range adminIDs {
		if id == doc.EmployeeID {
			continue
		}
		reqs = append(reqs, notification.CreateNotificationRequest{
			RecipientID: id,
			Title:       "New document uploaded",
			Message:     fmt.Sprintf("A %s document \"%s\" is waiting for review", doc.Type, doc.Name),
			Type:        notification.TypeDocument,
			Priority:    notification.PriorityMedium,
			RelatedID:   &doc.ID,
			RelatedType: strPtr(relatedType),
		})
	}
	if _, err := s.notifier.CreateBulk(ctx, reqs); err != nil {
		slog.Error("failed to notify admins of document upload", "document_id", doc.ID, "error", err)
	}
}

func (s *DocumentServiceImpl) authorized(ctx context.Context, actor user.Actor, id string) (document.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return document.Document{}, err
	}
	if !actor.IsAdmin() && doc.EmployeeID != actor.EmployeeID {
		return document.Document{}, user.ErrInsufficientRole
	}
	return doc, nil
}

// Get implements document.DocumentService.
func (s *DocumentServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (document.DocumentResponse, error) {
	doc, err := s.authorized(ctx, actor, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return s.toResponse(doc), nil
}

// ListMine implements document.DocumentService.
func (s *DocumentServiceImpl) ListMine(ctx context.Context, actor user.Actor, filter document.DocumentFilter) ([]document.DocumentResponse, common.PageInfo, error) {
	filter.EmployeeID = &actor.EmployeeID
	return s.List(ctx, filter)
}

// List implements document.DocumentService.
func (s *DocumentServiceImpl) List(ctx context.Context, filter document.DocumentFilter) ([]document.DocumentResponse, common.PageInfo, error) {
	docs, total, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, common.PageInfo{}, err
	}
	resp := make([]document.DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = s.toResponse(d)
	}
	return resp, common.NewPageInfo(filter.Pagination, total), nil
}

// Review implements document.DocumentService.
func (s *DocumentServiceImpl) Review(ctx context.Context, actor user.Actor, id string, req document.ReviewRequest) (document.DocumentResponse, error) {
	if !actor.IsAdmin() {
		return document.DocumentResponse{}, user.ErrAdminPrivilegeRequired
	}

	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}

	now := s.clock.Now()
	doc.Status = req.Status
	doc.ReviewComment = req.Comment
	doc.ReviewedBy = &actor.AccountID
	doc.ReviewedAt = &now

	if err := s.documents.UpdateReview(ctx, doc); err != nil {
		return document.DocumentResponse{}, fmt.Errorf("failed to review document: %w", err)
	}

	priority := notification.PriorityMedium
	if doc.Status == document.StatusRejected {
		priority = notification.PriorityHigh
	}
	message := fmt.Sprintf("Your document \"%s\" was %s", doc.Name, doc.Status)
	if doc.ReviewComment != nil && *doc.ReviewComment != "" {
		message += ": " + *doc.ReviewComment
	}
	_, err = s.notifier.Create(ctx, notification.CreateNotificationRequest{
		RecipientID: doc.EmployeeID,
		Title:       "Document reviewed",
		Message:     message,
		Type:        notification.TypeDocument,
		Priority:    priority,
		RelatedID:   &doc.ID,
		RelatedType: strPtr(relatedType),
	})
	if err != nil {
		slog.Error("failed to notify document review", "document_id", doc.ID, "error", err)
	}

	return s.toResponse(doc), nil
}

// Delete implements document.DocumentService.
func (s *DocumentServiceImpl) Delete(ctx context.Context, actor user.Actor, id string) error {
	doc, err := s.authorized(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.fileService.DeleteFile(ctx, doc.FilePath); err != nil {
		slog.Warn("failed to remove document file", "document_id", id, "path", doc.FilePath, "error", err)
	}
	return nil
}

func strPtr(s string) *string {
	return &s
}
