package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-snapshot/internal/store"
)

// DocumentReader returns the persisted snapshot document.
type DocumentReader interface {
	Latest() ([]byte, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, docs DocumentReader) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "city-snapshot",
		})
	})

	v1 := app.Group("/api/v1")

	// The document is read from disk on every request; nothing is cached.
	v1.Get("/snapshot", func(c *fiber.Ctx) error {
		data, err := docs.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no snapshot has been written yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read snapshot")
		}

		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.Send(data)
	})
}

// ErrorHandler renders errors as a JSON body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
