package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
	"alfredoptarigan/career-match/internal/services"
)

type Generator interface {
	Authorize(ctx context.Context, bearerToken string) (*identity.Identity, error)
	GenerateFor(ctx context.Context, who *identity.Identity, profile models.UserProfile) (*services.GenerateResult, error)
}

type SuggestionHandler struct {
	generator      Generator
	suggestionRepo repositories.SuggestionRepository
	legacyStatus   bool
}

// NewSuggestionHandler builds the handler. With legacyStatus every failure of
// the suggest-jobs endpoint is answered with 500.
func NewSuggestionHandler(
	generator Generator,
	suggestionRepo repositories.SuggestionRepository,
	legacyStatus bool,
) *SuggestionHandler {
	return &SuggestionHandler{
		generator:      generator,
		suggestionRepo: suggestionRepo,
		legacyStatus:   legacyStatus,
	}
}

// HandleSuggestJobs handles POST /suggest-jobs
func (h *SuggestionHandler) HandleSuggestJobs(c *fiber.Ctx) error {
	token, err := identity.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return h.generationFailed(c, services.NewUnauthorizedError(err))
	}

	// the token is checked before the body so a rejected caller never sees
	// payload errors
	who, err := h.generator.Authorize(c.UserContext(), token)
	if err != nil {
		return h.generationFailed(c, err)
	}

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request payload",
			Code:  fiber.StatusBadRequest,
		})
	}

	if err := req.Profile.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: err.Error(),
			Code:  fiber.StatusBadRequest,
		})
	}

	result, err := h.generator.GenerateFor(c.UserContext(), who, req.Profile)
	if err != nil {
		return h.generationFailed(c, err)
	}

	return c.JSON(models.GenerateResponse{
		Success:     true,
		Suggestions: result.Count,
	})
}

// HandleListSuggestions handles GET /suggestions
func (h *SuggestionHandler) HandleListSuggestions(c *fiber.Ctx) error {
	rows, err := h.suggestionRepo.FindByUserID(c.UserContext(), currentUserID(c))
	if err != nil {
		log.Printf("❌ Failed to load suggestions: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job suggestions",
		})
	}

	if rows == nil {
		rows = []models.JobSuggestion{}
	}

	return c.JSON(models.SuggestionsResponse{Suggestions: rows})
}

// HandleGetSuggestion handles GET /suggestions/:id
func (h *SuggestionHandler) HandleGetSuggestion(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid suggestion ID format",
		})
	}

	row, err := h.suggestionRepo.FindByID(c.UserContext(), currentUserID(c), id)
	if err != nil {
		if errors.Is(err, repositories.ErrSuggestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Suggestion not found",
			})
		}
		log.Printf("❌ Failed to load suggestion %s: %v\n", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job suggestion",
		})
	}

	return c.JSON(row)
}

func (h *SuggestionHandler) generationFailed(c *fiber.Ctx, err error) error {
	var genErr *services.GenerationError
	if !errors.As(err, &genErr) {
		genErr = &services.GenerationError{Message: "Internal server error", Err: err}
	}

	status := statusForKind(genErr.Kind)
	if h.legacyStatus {
		status = fiber.StatusInternalServerError
	}

	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ Job suggestion failed: %v\n", err)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: genErr.Message,
		Code:  status,
		Kind:  string(genErr.Kind),
	})
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindUnauthorized:
		return fiber.StatusUnauthorized
	case services.KindUpstream, services.KindInvalidModelOutput:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
