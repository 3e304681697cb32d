package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
	"alfredoptarigan/career-match/internal/services"
)

type ResumeHandler struct {
	profileRepo    repositories.ProfileRepository
	storageService services.StorageService
	resumeParser   services.ResumeParserService
	maxFileSize    int64
}

func NewResumeHandler(
	profileRepo repositories.ProfileRepository,
	storageService services.StorageService,
	resumeParser services.ResumeParserService,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		profileRepo:    profileRepo,
		storageService: storageService,
		resumeParser:   resumeParser,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /profile/resume
func (h *ResumeHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Please upload 'resume' as a PDF, DOCX or TXT file.",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	mimeType, err := services.ResumeMimeType(file.Filename)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	content, err := h.resumeParser.ExtractText(mimeType, data)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract resume text: %v", err),
		})
	}

	userID := currentUserID(c)
	stored, err := h.storageService.SaveResume(c.UserContext(), userID, file)
	if err != nil {
		log.Printf("❌ Failed to store resume for user %s: %v\n", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume file",
		})
	}

	err = h.profileRepo.UpdateResume(c.UserContext(), userID, &repositories.ResumeUpdateData{
		Key:       stored.Key,
		Filename:  stored.OriginalName,
		MimeType:  stored.MimeType,
		Text:      content.Text,
		PageCount: content.PageCount,
	})
	if err != nil {
		// Cleanup uploaded file if the profile update fails
		if delErr := h.storageService.DeleteFile(c.UserContext(), stored.Key); delErr != nil {
			log.Printf("⚠️  Failed to clean up resume %s: %v\n", stored.Key, delErr)
		}

		if errors.Is(err, repositories.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Create your profile before uploading a resume",
			})
		}
		log.Printf("❌ Failed to attach resume for user %s: %v\n", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		Key:          stored.Key,
		OriginalName: stored.OriginalName,
		MimeType:     stored.MimeType,
		PageCount:    content.PageCount,
		Characters:   len([]rune(content.Text)),
	})
}

// HandleDownload handles GET /profile/resume
func (h *ResumeHandler) HandleDownload(c *fiber.Ctx) error {
	profile, err := h.profileRepo.FindByUserID(c.UserContext(), currentUserID(c))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	if profile.ResumeKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No resume uploaded",
		})
	}

	data, err := h.storageService.ReadFile(c.UserContext(), profile.ResumeKey)
	if err != nil {
		log.Printf("❌ Failed to read resume %s: %v\n", profile.ResumeKey, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read resume",
		})
	}

	c.Set(fiber.HeaderContentType, profile.ResumeMimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", profile.ResumeFilename))
	return c.Send(data)
}
