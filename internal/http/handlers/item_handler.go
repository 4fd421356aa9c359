package handlers

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"stockroom/internal/domain"
	"stockroom/internal/log"
	"stockroom/internal/services"
	"stockroom/internal/validate"
)

type ItemHandler struct {
	Items *services.ItemService
}

// itemID parses the :id path segment. A non-integer id never matched a
// route in the first place, so it surfaces as a routing 404.
func itemID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// requestBody returns the JSON body, or ok=false when there is nothing
// usable to decode (empty body or a bare null).
func requestBody(c *fiber.Ctx) ([]byte, bool) {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, false
	}
	return body, true
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 10)
	category := c.Query("category")
	search := c.Query("search")
	sortBy := c.Query("sort_by", "id")
	sortOrder := c.Query("sort_order", "asc")

	res, err := h.Items.List(page, perPage, category, search, sortBy, sortOrder)
	if err != nil {
		log.Error(c, "item.list.error", err, nil)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"items": res.Items,
		"pagination": fiber.Map{
			"page":        res.Page,
			"per_page":    res.PerPage,
			"total_items": res.TotalItems,
			"total_pages": res.TotalPages,
			"has_next":    res.HasNext,
			"has_prev":    res.HasPrev,
		},
		"filters": fiber.Map{
			"category":   nullable(category),
			"search":     nullable(search),
			"sort_by":    sortBy,
			"sort_order": sortOrder,
		},
	})
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return fiber.ErrNotFound
	}
	it, err := h.Items.Get(id)
	if errors.Is(err, domain.ErrNotFound) {
		return itemNotFound(c)
	}
	if err != nil {
		log.Error(c, "item.get.error", err, map[string]any{"id": id})
		return internalError(c)
	}
	return c.JSON(fiber.Map{"item": it})
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	body, ok := requestBody(c)
	if !ok {
		return badRequest(c, "No JSON data provided")
	}
	change, details, err := validate.ItemBody(body, true)
	if err != nil {
		return badRequest(c, "No JSON data provided")
	}
	if len(details) > 0 {
		log.Warn(c, "validation.fail", map[string]any{"details": details})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": details,
		})
	}

	it, err := h.Items.Create(change)
	if err != nil {
		log.Error(c, "item.create.error", err, nil)
		return internalError(c)
	}
	log.Info(c, "item.create", map[string]any{"id": it.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item created successfully",
		"item":    it,
	})
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return fiber.ErrNotFound
	}
	body, ok := requestBody(c)
	if !ok {
		return badRequest(c, "No JSON data provided")
	}
	change, details, err := validate.ItemBody(body, false)
	if err != nil {
		return badRequest(c, "No JSON data provided")
	}
	if len(details) > 0 {
		log.Warn(c, "validation.fail", map[string]any{"details": details})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": details,
		})
	}
	if change.Empty() {
		return badRequest(c, "No valid fields to update")
	}

	it, err := h.Items.Update(id, change)
	if errors.Is(err, domain.ErrNotFound) {
		return itemNotFound(c)
	}
	if err != nil {
		log.Error(c, "item.update.error", err, map[string]any{"id": id})
		return internalError(c)
	}
	log.Info(c, "item.update", map[string]any{"id": id})
	return c.JSON(fiber.Map{
		"message": "Item updated successfully",
		"item":    it,
	})
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return fiber.ErrNotFound
	}
	err = h.Items.Delete(id)
	if errors.Is(err, domain.ErrNotFound) {
		return itemNotFound(c)
	}
	if err != nil {
		log.Error(c, "item.delete.error", err, map[string]any{"id": id})
		return internalError(c)
	}
	log.Info(c, "item.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}

func (h *ItemHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Items.Categories()
	if err != nil {
		log.Error(c, "item.categories.error", err, nil)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"categories": cats})
}
