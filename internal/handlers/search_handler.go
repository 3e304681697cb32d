package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/models"
)

type SuggestionSearcher interface {
	Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.SearchHit, error)
}

type SearchHandler struct {
	searcher SuggestionSearcher
}

func NewSearchHandler(searcher SuggestionSearcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// HandleSearch handles GET /suggestions/search?q=
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 50",
		})
	}

	hits, err := h.searcher.Search(c.UserContext(), currentUserID(c), query, limit)
	if err != nil {
		log.Printf("❌ Suggestion search failed: %v\n", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Search is unavailable",
		})
	}

	return c.JSON(models.SearchResponse{Query: query, Results: hits})
}
