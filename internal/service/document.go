package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pdfqa/internal/analysis"
	"pdfqa/internal/extractor"
	"pdfqa/internal/inference"
	"pdfqa/internal/model"
	"pdfqa/internal/repository"
	"pdfqa/internal/storage"
)

const pdfSuffix = ".pdf"

var (
	ErrFilenameRequired = fmt.Errorf("filename is required: %w", model.ErrValidation)
	ErrQuestionRequired = fmt.Errorf("question is required: %w", model.ErrValidation)
	ErrReaderNil        = fmt.Errorf("reader is nil: %w", model.ErrValidation)
	ErrIDRequired       = fmt.Errorf("id is required: %w", model.ErrValidation)
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for uploaded PDFs.
type DocumentService interface {
	// Upload writes the PDF to disk under filename, extracts its text and stores a new record.
	Upload(ctx context.Context, r io.Reader, filename string, size int64) (*model.Document, error)

	// Ask answers question against the most recent document named filename.
	// A missing ".pdf" suffix is appended before lookup.
	Ask(ctx context.Context, filename, question string) (string, error)

	// Analyze summarizes the keyword sections of the most recent document named filename.
	Analyze(ctx context.Context, filename string) (map[string]string, error)

	// List returns document metadata using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)
}

// Dependencies are the collaborators a DocumentService is built from.
// Archive is optional; when set, uploads are mirrored to it after the record is stored.
type Dependencies struct {
	Files     storage.FileStorage
	Archive   storage.Storage
	Repo      repository.DocumentRepository
	Extractor extractor.Extractor
	Answerer  inference.QuestionAnswerer
	Pipeline  *analysis.Pipeline
	Logger    *zap.Logger
}

type documentService struct {
	Dependencies
	now func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(deps Dependencies) DocumentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &documentService{
		Dependencies: deps,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeFilename appends ".pdf" unless filename already ends with it.
func NormalizeFilename(filename string) string {
	if strings.HasSuffix(filename, pdfSuffix) {
		return filename
	}
	return filename + pdfSuffix
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, filename string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if filename == "" {
		return nil, ErrFilenameRequired
	}

	if _, err := s.Files.Put(ctx, filename, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: "application/pdf",
	}); err != nil {
		return nil, model.WrapError(model.ErrStorageUnavailable, "write upload", err)
	}

	content, err := s.Extractor.Extract(ctx, s.Files.Path(filename))
	if err != nil {
		if model.IsKind(err, model.ErrExtraction) {
			return nil, err
		}
		return nil, model.WrapError(model.ErrExtraction, "extract text", err)
	}

	stored, err := s.Repo.Create(ctx, &model.Document{
		ID:         uuid.New().String(),
		Filename:   filename,
		UploadDate: s.now(),
		Content:    content,
	})
	if err != nil {
		return nil, model.WrapError(model.ErrStorageUnavailable, "create document", err)
	}

	s.archive(ctx, stored)
	return stored, nil
}

// archive mirrors the uploaded file to object storage. Failures are logged only.
func (s *documentService) archive(ctx context.Context, doc *model.Document) {
	if s.Archive == nil {
		return
	}
	rc, info, err := s.Files.Get(ctx, doc.Filename)
	if err != nil {
		s.Logger.Warn("archive_upload_failed", zap.String("document_id", doc.ID), zap.Error(err))
		return
	}
	defer rc.Close()

	key := storage.ArchiveKey(doc.ID, doc.Filename)
	if _, err := s.Archive.Put(ctx, key, rc, storage.PutObjectOptions{
		Size:        info.Size,
		ContentType: "application/pdf",
		Metadata:    map[string]string{"original-filename": doc.Filename},
	}); err != nil {
		s.Logger.Warn("archive_upload_failed", zap.String("document_id", doc.ID), zap.String("key", key), zap.Error(err))
	}
}

func (s *documentService) findByFilename(ctx context.Context, filename string) (*model.Document, error) {
	if filename == "" {
		return nil, ErrFilenameRequired
	}
	doc, err := s.Repo.FindLatestByFilename(ctx, NormalizeFilename(filename))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(model.ErrStorageUnavailable, "find document", err)
	}
	return doc, nil
}

func (s *documentService) Ask(ctx context.Context, filename, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrQuestionRequired
	}
	doc, err := s.findByFilename(ctx, filename)
	if err != nil {
		return "", err
	}

	ans, err := s.Answerer.Answer(ctx, question, doc.Content)
	if err != nil {
		return "", model.WrapError(model.ErrAnswerUnavailable, "answer question", err)
	}
	if strings.TrimSpace(ans.Text) == "" {
		return "", fmt.Errorf("answer question: %w: empty answer", model.ErrAnswerUnavailable)
	}
	return ans.Text, nil
}

func (s *documentService) Analyze(ctx context.Context, filename string) (map[string]string, error) {
	doc, err := s.findByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	return s.Pipeline.Run(ctx, doc.Content), nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.Repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, model.WrapError(model.ErrStorageUnavailable, "list documents", err)
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, model.WrapError(model.ErrStorageUnavailable, "get document", err)
	}
	return doc, nil
}
