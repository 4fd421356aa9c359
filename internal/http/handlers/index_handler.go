package handlers

import "github.com/gofiber/fiber/v2"

type IndexHandler struct{}

// Doc serves the static endpoint catalogue at the service root.
func (h *IndexHandler) Doc(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Stockroom CRUD API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"GET /":                 "API documentation",
			"GET /items":            "Get all items (supports pagination and filtering)",
			"GET /items/:id":        "Get specific item by ID",
			"POST /items":           "Create new item",
			"PUT /items/:id":        "Update existing item",
			"DELETE /items/:id":     "Delete item",
			"GET /items/categories": "Get all categories",
			"GET /health":           "Health check endpoint",
		},
		"sample_request": fiber.Map{
			"name":        "Sample Item",
			"description": "This is a sample item",
			"category":    "Sample Category",
			"price":       19.99,
			"quantity":    10,
		},
	})
}
