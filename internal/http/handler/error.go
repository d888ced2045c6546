package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdfqa/internal/http/middleware"
	"pdfqa/internal/model"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "FILE_REQUIRED", "NOT_FOUND")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps an error kind from the service layer to a status and code.
// The cause is kept in locals for the access log and never written to the client.
func writeServiceError(c *fiber.Ctx, err error) error {
	c.Locals(middleware.ErrorLocalKey, err)

	switch {
	case errors.Is(err, model.ErrValidation):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request")
	case errors.Is(err, model.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, model.ErrExtraction):
		return writeError(c, fiber.StatusInternalServerError, "EXTRACTION_FAILED", "could not extract text from PDF")
	case errors.Is(err, model.ErrStorageUnavailable):
		return writeError(c, fiber.StatusInternalServerError, "STORAGE_UNAVAILABLE", "storage unavailable")
	case errors.Is(err, model.ErrAnswerUnavailable):
		return writeError(c, fiber.StatusInternalServerError, "ANSWER_UNAVAILABLE", "could not answer the question")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "REQUEST_TOO_LARGE", "request body too large")
		default:
			c.Locals(middleware.ErrorLocalKey, err)
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
