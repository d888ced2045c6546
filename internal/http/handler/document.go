package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pdfqa/internal/service"
)

// uploadResponse is returned by POST /upload/.
type uploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	ID       string `json:"id"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// documentResponse is a full record. Content is always present, even when empty.
type documentResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	Content    string    `json:"content"`
}

type analyzeResponse struct {
	Filename  string            `json:"filename"`
	Summaries map[string]string `json:"summaries"`
}

// UploadPDF stores a PDF and its extracted text.
//
//	@Summary	Upload a PDF
//	@Tags		documents
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"PDF file"
//	@Success	200		{object}	uploadResponse
//	@Failure	400		{object}	errorPayload
//	@Failure	500		{object}	errorPayload
//	@Router		/upload/ [post]
func UploadPDF(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil || fh.Filename == "" {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(uploadResponse{
			Message:  "File uploaded successfully",
			Filename: doc.Filename,
			ID:       doc.ID,
		})
	}
}

// AskQuestion answers a question against the latest upload with the given filename.
//
//	@Summary	Ask a question about an uploaded PDF
//	@Tags		documents
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		filename	formData	string	true	"Uploaded filename, .pdf suffix optional"
//	@Param		question	formData	string	true	"Question"
//	@Success	200			{object}	askResponse
//	@Failure	400			{object}	errorPayload
//	@Failure	404			{object}	errorPayload
//	@Failure	500			{object}	errorPayload
//	@Router		/ask/ [post]
func AskQuestion(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req askRequest
		if ok, err := bindForm(c, &req); !ok {
			return err
		}

		answer, err := docSvc.Ask(c.UserContext(), req.Filename, req.Question)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(askResponse{Answer: answer})
	}
}

// AnalyzeDocument summarizes the keyword sections of an uploaded PDF.
//
//	@Summary	Summarize the sections of an uploaded PDF
//	@Tags		documents
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		filename	formData	string	true	"Uploaded filename, .pdf suffix optional"
//	@Success	200			{object}	analyzeResponse
//	@Failure	400			{object}	errorPayload
//	@Failure	404			{object}	errorPayload
//	@Failure	500			{object}	errorPayload
//	@Router		/analyze/ [post]
func AnalyzeDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req analyzeRequest
		if ok, err := bindForm(c, &req); !ok {
			return err
		}

		summaries, err := docSvc.Analyze(c.UserContext(), req.Filename)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(analyzeResponse{
			Filename:  service.NormalizeFilename(req.Filename),
			Summaries: summaries,
		})
	}
}

// ListDocuments returns document metadata with limit & offset.
//
//	@Summary	List uploaded documents
//	@Tags		documents
//	@Produce	json
//	@Param		limit	query		int	false	"Page size"	default(10)
//	@Param		offset	query		int	false	"Offset"	default(0)
//	@Success	200		{object}	service.DocumentListResult
//	@Failure	400		{object}	errorPayload
//	@Failure	500		{object}	errorPayload
//	@Router		/documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetDocument returns a full document record by ID.
//
//	@Summary	Get a document
//	@Tags		documents
//	@Produce	json
//	@Param		id	path		string	true	"Document ID (UUID)"
//	@Success	200	{object}	documentResponse
//	@Failure	400	{object}	errorPayload
//	@Failure	404	{object}	errorPayload
//	@Failure	500	{object}	errorPayload
//	@Router		/documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(documentResponse{
			ID:         doc.ID,
			Filename:   doc.Filename,
			UploadDate: doc.UploadDate,
			Content:    doc.Content,
		})
	}
}
