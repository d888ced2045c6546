package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// askRequest is the form body of POST /ask/.
type askRequest struct {
	Filename string `form:"filename" validate:"required,max=255"`
	Question string `form:"question" validate:"required"`
}

// analyzeRequest is the form body of POST /analyze/.
type analyzeRequest struct {
	Filename string `form:"filename" validate:"required,max=255"`
}

func (r *askRequest) trim() {
	r.Filename = strings.TrimSpace(r.Filename)
	r.Question = strings.TrimSpace(r.Question)
}

func (r *analyzeRequest) trim() {
	r.Filename = strings.TrimSpace(r.Filename)
}

// bindForm parses a urlencoded or multipart form into req and validates it.
// It writes the 400 response itself and reports whether the handler should continue.
func bindForm[T interface{ trim() }](c *fiber.Ctx, req T) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid form body")
	}
	req.trim()
	if err := validate.Struct(req); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
	}
	return true, nil
}

// validationMessage names the offending fields without echoing their values.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" is "+describeTag(fe.Tag()))
	}
	return strings.Join(fields, "; ")
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "max":
		return "too long"
	default:
		return "invalid"
	}
}
