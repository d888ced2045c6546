package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pdfqa/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/upload/", UploadPDF(docSvc))
	app.Post("/ask/", AskQuestion(docSvc))
	app.Post("/analyze/", AnalyzeDocument(docSvc))

	app.Get("/documents", ListDocuments(docSvc))
	app.Get("/documents/:id", GetDocument(docSvc))
}
