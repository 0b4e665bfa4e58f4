package server

import (
	"github.com/gofiber/fiber/v3"

	"hnradar/internal/domain"
)

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// listItems serves interesting items. Unrecognized sort parameters fall
// back to date/descending inside the query service; an empty category means
// no filter.
func (s *Server) listItems(c fiber.Ctx) error {
	items, err := s.query.ListInteresting(c.Context(),
		c.Query("sort"), c.Query("direction"), c.Query("category"))
	if err != nil {
		s.logger.Error("failed to list interesting items", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to read items")
	}

	if items == nil {
		items = []domain.Item{}
	}
	return jsonSuccess(c, items)
}

// listCategories serves counts for every configured category, including
// zero-count entries.
func (s *Server) listCategories(c fiber.Ctx) error {
	counts, err := s.query.CategoryCounts(c.Context())
	if err != nil {
		s.logger.Error("failed to count categories", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to read categories")
	}

	return jsonSuccess(c, counts)
}

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
