package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/analysis"
	extractorMocks "pdfqa/internal/extractor/mocks"
	inferenceMocks "pdfqa/internal/inference/mocks"
	"pdfqa/internal/model"
	"pdfqa/internal/repository"
	repoMocks "pdfqa/internal/repository/mocks"
	"pdfqa/internal/storage"
	storeMocks "pdfqa/internal/storage/mocks"
)

type fixture struct {
	files     *storeMocks.MockFileStorage
	archive   *storeMocks.MockStorage
	repo      *repoMocks.MockDocumentRepository
	extractor *extractorMocks.MockExtractor
	answerer  *inferenceMocks.MockQuestionAnswerer
	summary   *inferenceMocks.MockSummarizer
}

func newFixture() *fixture {
	return &fixture{
		files:     new(storeMocks.MockFileStorage),
		archive:   new(storeMocks.MockStorage),
		repo:      new(repoMocks.MockDocumentRepository),
		extractor: new(extractorMocks.MockExtractor),
		answerer:  new(inferenceMocks.MockQuestionAnswerer),
		summary:   new(inferenceMocks.MockSummarizer),
	}
}

func (f *fixture) service(withArchive bool) DocumentService {
	deps := Dependencies{
		Files:     f.files,
		Repo:      f.repo,
		Extractor: f.extractor,
		Answerer:  f.answerer,
		Pipeline:  analysis.NewPipeline(f.summary, nil),
	}
	if withArchive {
		deps.Archive = f.archive
	}
	return NewDocumentService(deps)
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.files.AssertExpectations(t)
	f.archive.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.extractor.AssertExpectations(t)
	f.answerer.AssertExpectations(t)
	f.summary.AssertExpectations(t)
}

func TestNormalizeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", NormalizeFilename("report"))
	assert.Equal(t, "report.pdf", NormalizeFilename("report.pdf"))
	assert.Equal(t, "report.PDF.pdf", NormalizeFilename("report.PDF"))
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()
	const text = "Revenue growth was driven by strong demand."

	tests := []struct {
		name       string
		filename   string
		archive    bool
		setupMocks func(f *fixture) io.Reader
		wantKind   error
		wantErrMsg string
	}{
		{
			name:     "happy path",
			filename: "10k.pdf",
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("%PDF-1.4")
				f.files.On("Put", ctx, "10k.pdf", r, storage.PutObjectOptions{Size: 8, ContentType: "application/pdf"}).
					Return(storage.ObjectInfo{Key: "10k.pdf", Size: 8}, nil)
				f.files.On("Path", "10k.pdf").Return("uploaded_pdfs/10k.pdf")
				f.extractor.On("Extract", ctx, "uploaded_pdfs/10k.pdf").Return(text, nil)
				f.repo.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
					return doc.ID != "" && doc.Filename == "10k.pdf" && doc.Content == text && !doc.UploadDate.IsZero()
				})).Return(&model.Document{ID: "gen-id", Filename: "10k.pdf", Content: text}, nil)
				return r
			},
		},
		{
			name:     "happy path with archive",
			filename: "10k.pdf",
			archive:  true,
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("%PDF-1.4")
				f.files.On("Put", ctx, "10k.pdf", r, mock.Anything).Return(storage.ObjectInfo{Key: "10k.pdf"}, nil)
				f.files.On("Path", "10k.pdf").Return("uploaded_pdfs/10k.pdf")
				f.extractor.On("Extract", ctx, "uploaded_pdfs/10k.pdf").Return(text, nil)
				f.repo.On("Create", ctx, mock.Anything).Return(&model.Document{ID: "gen-id", Filename: "10k.pdf"}, nil)
				f.files.On("Get", ctx, "10k.pdf").Return(io.NopCloser(strings.NewReader("%PDF-1.4")), storage.ObjectInfo{Size: 8}, nil)
				f.archive.On("Put", ctx, "pdfs/gen-id/10k.pdf", mock.Anything, storage.PutObjectOptions{
					Size:        8,
					ContentType: "application/pdf",
					Metadata:    map[string]string{"original-filename": "10k.pdf"},
				}).Return(storage.ObjectInfo{}, nil)
				return r
			},
		},
		{
			name:     "archive failure does not fail upload",
			filename: "10k.pdf",
			archive:  true,
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("%PDF-1.4")
				f.files.On("Put", ctx, "10k.pdf", r, mock.Anything).Return(storage.ObjectInfo{Key: "10k.pdf"}, nil)
				f.files.On("Path", "10k.pdf").Return("uploaded_pdfs/10k.pdf")
				f.extractor.On("Extract", ctx, "uploaded_pdfs/10k.pdf").Return(text, nil)
				f.repo.On("Create", ctx, mock.Anything).Return(&model.Document{ID: "gen-id", Filename: "10k.pdf"}, nil)
				f.files.On("Get", ctx, "10k.pdf").Return(io.NopCloser(strings.NewReader("x")), storage.ObjectInfo{Size: 1}, nil)
				f.archive.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("bucket gone"))
				return r
			},
		},
		{
			name:       "validation error - nil reader",
			filename:   "10k.pdf",
			setupMocks: func(f *fixture) io.Reader { return nil },
			wantKind:   model.ErrValidation,
		},
		{
			name:       "validation error - empty filename",
			setupMocks: func(f *fixture) io.Reader { return strings.NewReader("x") },
			wantKind:   model.ErrValidation,
		},
		{
			name:     "disk write error",
			filename: "10k.pdf",
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("x")
				f.files.On("Put", ctx, "10k.pdf", r, mock.Anything).Return(storage.ObjectInfo{}, errors.New("disk full"))
				return r
			},
			wantKind:   model.ErrStorageUnavailable,
			wantErrMsg: "write upload",
		},
		{
			name:     "extraction error propagates and nothing is stored",
			filename: "broken.pdf",
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("garbage")
				f.files.On("Put", ctx, "broken.pdf", r, mock.Anything).Return(storage.ObjectInfo{}, nil)
				f.files.On("Path", "broken.pdf").Return("uploaded_pdfs/broken.pdf")
				f.extractor.On("Extract", ctx, "uploaded_pdfs/broken.pdf").
					Return("", model.WrapError(model.ErrExtraction, "open pdf", errors.New("not a PDF file")))
				return r
			},
			wantKind:   model.ErrExtraction,
			wantErrMsg: "not a PDF file",
		},
		{
			name:     "untyped extraction error is classified",
			filename: "slow.pdf",
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("x")
				f.files.On("Put", ctx, "slow.pdf", r, mock.Anything).Return(storage.ObjectInfo{}, nil)
				f.files.On("Path", "slow.pdf").Return("uploaded_pdfs/slow.pdf")
				f.extractor.On("Extract", ctx, "uploaded_pdfs/slow.pdf").Return("", context.Canceled)
				return r
			},
			wantKind: model.ErrExtraction,
		},
		{
			name:     "repository error",
			filename: "10k.pdf",
			setupMocks: func(f *fixture) io.Reader {
				r := strings.NewReader("x")
				f.files.On("Put", ctx, "10k.pdf", r, mock.Anything).Return(storage.ObjectInfo{}, nil)
				f.files.On("Path", "10k.pdf").Return("uploaded_pdfs/10k.pdf")
				f.extractor.On("Extract", ctx, "uploaded_pdfs/10k.pdf").Return(text, nil)
				f.repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				return r
			},
			wantKind:   model.ErrStorageUnavailable,
			wantErrMsg: "create document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := f.service(tt.archive)
			r := tt.setupMocks(f)

			var size int64
			if r != nil {
				size = int64(r.(*strings.Reader).Len())
			}
			doc, err := svc.Upload(ctx, r, tt.filename, size)

			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
				if tt.wantErrMsg != "" {
					assert.Contains(t, err.Error(), tt.wantErrMsg)
				}
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "gen-id", doc.ID)
			}
			f.assertExpectations(t)
		})
	}
}

func TestDocumentService_UploadRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	files := storage.NewLocal(t.TempDir())
	const text = "Page one text.\nPage two text."

	f.extractor.On("Extract", ctx, files.Path("report.pdf")).Return(text, nil)
	var created *model.Document
	f.repo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Document)
	}).Return(&model.Document{ID: "gen-id", Filename: "report.pdf"}, nil)
	f.repo.On("FindLatestByFilename", ctx, "report.pdf").Return(&model.Document{ID: "gen-id", Filename: "report.pdf", Content: text}, nil)

	svc := NewDocumentService(Dependencies{Files: files, Repo: f.repo, Extractor: f.extractor, Answerer: f.answerer})

	_, err := svc.Upload(ctx, strings.NewReader("%PDF-1.4 bytes"), "report.pdf", 14)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, text, created.Content)

	rc, _, err := files.Get(ctx, "report.pdf")
	require.NoError(t, err)
	defer rc.Close()
	onDisk, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 bytes", string(onDisk))

	f.answerer.On("Answer", ctx, "What is on page two?", text).Return(model.Answer{Text: "Page two text"}, nil)

	answer, err := svc.Ask(ctx, "report", "What is on page two?")
	require.NoError(t, err)
	assert.Equal(t, "Page two text", answer)
}

func TestDocumentService_Ask(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "id-1", Filename: "report.pdf", Content: "Revenue growth was driven by strong demand."}

	tests := []struct {
		name       string
		filename   string
		question   string
		setupMocks func(f *fixture)
		want       string
		wantKind   error
	}{
		{
			name:     "suffix appended before lookup",
			filename: "report",
			question: "What drove growth?",
			setupMocks: func(f *fixture) {
				f.repo.On("FindLatestByFilename", ctx, "report.pdf").Return(doc, nil)
				f.answerer.On("Answer", ctx, "What drove growth?", doc.Content).Return(model.Answer{Text: "strong demand", Score: 0.01}, nil)
			},
			want: "strong demand",
		},
		{
			name:     "full filename",
			filename: "report.pdf",
			question: "What drove growth?",
			setupMocks: func(f *fixture) {
				f.repo.On("FindLatestByFilename", ctx, "report.pdf").Return(doc, nil)
				f.answerer.On("Answer", ctx, "What drove growth?", doc.Content).Return(model.Answer{Text: "strong demand"}, nil)
			},
			want: "strong demand",
		},
		{
			name:     "unknown filename",
			filename: "never-uploaded",
			question: "anything?",
			setupMocks: func(f *fixture) {
				f.repo.On("FindLatestByFilename", ctx, "never-uploaded.pdf").Return(nil, sql.ErrNoRows)
			},
			wantKind: model.ErrNotFound,
		},
		{
			name:     "repository failure",
			filename: "report",
			question: "anything?",
			setupMocks: func(f *fixture) {
				f.repo.On("FindLatestByFilename", ctx, "report.pdf").Return(nil, errors.New("conn reset"))
			},
			wantKind: model.ErrStorageUnavailable,
		},
		{
			name:     "model failure",
			filename: "report",
			question: "What drove growth?",
			setupMocks: func(f *fixture) {
				f.repo.On("FindLatestByFilename", ctx, "report.pdf").Return(doc, nil)
				f.answerer.On("Answer", ctx, "What drove growth?", doc.Content).Return(model.Answer{}, errors.New("503"))
			},
			wantKind: model.ErrAnswerUnavailable,
		},
		{
			name:     "empty answer is not a success",
			filename: "report",
			question: "What drove growth?",
			setupMocks: func(f *fixture) {
				f.repo.On("FindLatestByFilename", ctx, "report.pdf").Return(doc, nil)
				f.answerer.On("Answer", ctx, "What drove growth?", doc.Content).Return(model.Answer{Text: "  "}, nil)
			},
			wantKind: model.ErrAnswerUnavailable,
		},
		{
			name:       "missing question",
			filename:   "report",
			setupMocks: func(f *fixture) {},
			wantKind:   model.ErrValidation,
		},
		{
			name:       "missing filename",
			question:   "q?",
			setupMocks: func(f *fixture) {},
			wantKind:   model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			svc := f.service(false)
			tt.setupMocks(f)

			got, err := svc.Ask(ctx, tt.filename, tt.question)

			if tt.wantKind != nil {
				assert.ErrorIs(t, err, tt.wantKind)
				assert.Empty(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			f.assertExpectations(t)
		})
	}
}

func TestDocumentService_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("summaries per matched bucket", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindLatestByFilename", ctx, "10k.pdf").Return(&model.Document{
			Filename: "10k.pdf",
			Content:  "Revenue growth was driven by strong demand.\x0cFX had an impact on margins.",
		}, nil)
		f.summary.On("Summarize", ctx, "Revenue growth was driven by strong demand").Return("Demand drove growth.", nil)
		f.summary.On("Summarize", ctx, "FX had an impact on margins").Return("", errors.New("timeout"))

		got, err := f.service(false).Analyze(ctx, "10k")

		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"growth_prospects": "Demand drove growth.",
			"material_effects": analysis.SummaryUnavailable,
		}, got)
		f.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindLatestByFilename", ctx, "missing.pdf").Return(nil, sql.ErrNoRows)

		got, err := f.service(false).Analyze(ctx, "missing.pdf")

		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Nil(t, got)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    bool
		checkRes   func(t *testing.T, res *DocumentListResult)
	}{
		{
			name:   "happy path",
			limit:  10,
			offset: 0,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{
						Items: []model.Document{{ID: "1"}, {ID: "2"}},
						Total: 2,
					}, nil)
			},
			checkRes: func(t *testing.T, res *DocumentListResult) {
				assert.Len(t, res.Items, 2)
				assert.Equal(t, 2, res.Total)
			},
		},
		{
			name:   "pagination boundary - zero limit uses default",
			limit:  0,
			offset: -1,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
					Return(&repository.PageResult[model.Document]{Items: []model.Document{}, Total: 0}, nil)
			},
		},
		{
			name:  "repository error",
			limit: 10,
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f.repo)

			res, err := f.service(false).List(ctx, tt.limit, tt.offset)

			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrStorageUnavailable)
			} else {
				require.NoError(t, err)
				if tt.checkRes != nil {
					tt.checkRes(t, res)
				}
			}
			f.repo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.Document{ID: "valid-id", UploadDate: time.Now()}, nil)
			},
		},
		{
			name:       "validation - empty id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {},
			wantErr:    model.ErrValidation,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "generic repository error",
			id:   "error-id",
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "error-id").Return(nil, errors.New("db fail"))
			},
			wantErr: model.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f.repo)

			doc, err := f.service(false).Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.id, doc.ID)
			}
			f.repo.AssertExpectations(t)
		})
	}
}
