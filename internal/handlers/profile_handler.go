package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
)

type ProfileHandler struct {
	profileRepo repositories.ProfileRepository
}

func NewProfileHandler(profileRepo repositories.ProfileRepository) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// HandleGetProfile handles GET /profile
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.profileRepo.FindByUserID(c.UserContext(), currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		log.Printf("❌ Failed to load profile: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	return c.JSON(models.ProfileResponse{Profile: profile.UserProfile()})
}

// HandleUpsertProfile handles PUT /profile
func (h *ProfileHandler) HandleUpsertProfile(c *fiber.Ctx) error {
	var req models.UserProfile
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	userID := currentUserID(c)
	if err := h.profileRepo.Upsert(c.UserContext(), req.ToProfile(userID)); err != nil {
		log.Printf("❌ Failed to save profile for user %s: %v\n", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	saved, err := h.profileRepo.FindByUserID(c.UserContext(), userID)
	if err != nil {
		log.Printf("❌ Failed to reload profile for user %s: %v\n", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	return c.JSON(models.ProfileResponse{Profile: saved.UserProfile()})
}
