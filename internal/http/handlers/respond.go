package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stockroom/internal/log"
)

// ErrorHandler is the app-level fiber error handler: routing misses map to
// the catalogue-level 404/405 bodies, anything else is logged and returned
// as an opaque 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).JSON(fiber.Map{"error": "Endpoint not found"})
	case fiber.StatusMethodNotAllowed:
		return c.Status(code).JSON(fiber.Map{"error": "Method not allowed"})
	default:
		log.Error(c, "server.error", err, nil)
		return internalError(c)
	}
}

func itemNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// nullable keeps the filter echo honest: empty query params come back as
// JSON null, not "".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
