package posts

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/creatorstation/postdesk/internal/generator"
	"github.com/creatorstation/postdesk/internal/ledger"
	"github.com/creatorstation/postdesk/internal/lifecycle"
	"github.com/creatorstation/postdesk/internal/publisher"
	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
)

func errorStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ledger.ErrRecordNotFound), errors.Is(err, ledger.ErrImageMissing):
		return fiber.StatusNotFound
	case errors.Is(err, ledger.ErrStatusFinal), errors.Is(err, ledger.ErrDuplicateID):
		return fiber.StatusConflict
	case errors.Is(err, lifecycle.ErrUnsupportedPlatform):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, generator.ErrGenerationFailed), errors.Is(err, publisher.ErrPublishFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func sendError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}

	var fields v.Errors
	if errors.As(err, &fields) {
		body["fields"] = fields
	}

	return c.Status(errorStatus(err)).JSON(body)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// readUpload returns the first file under field, or nil when none was sent.
func readUpload(form *multipart.Form, field string) (*lifecycle.Image, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	file := form.File[field][0]
	if file == nil || file.Filename == "" {
		return nil, nil
	}

	fileContent, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer fileContent.Close()

	data, err := io.ReadAll(fileContent)
	if err != nil {
		return nil, err
	}
	return &lifecycle.Image{Filename: file.Filename, Data: data}, nil
}
