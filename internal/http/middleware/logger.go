package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"pdfqa/internal/logging"
)

// Logger writes one access-log entry per request with request_id, method, path,
// status and latency in milliseconds. Internal errors recorded by handlers are attached.
func Logger(logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", responseStatus(c, err)),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if cause, ok := c.Locals(ErrorLocalKey).(error); ok {
			fields = append(fields, zap.Error(cause))
		} else if err != nil {
			fields = append(fields, zap.Error(err))
		}
		logger.Info("http_request", fields...)

		return err
	}
}

// LoggerWithWriter is Logger backed by a JSON logger on w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.NewWithWriter(w, "info", loc))
}

// responseStatus resolves the status the client will see. A handler error has not been
// rendered by the global error handler yet, so its code is derived from the error.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
