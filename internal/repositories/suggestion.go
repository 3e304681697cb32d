package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/career-match/internal/models"
)

var ErrSuggestionNotFound = errors.New("suggestion not found")

type SuggestionRepository interface {
	// ReplaceForUser swaps the user's whole batch for rows. Concurrent calls
	// for the same user are serialised; on error the previous batch stays.
	ReplaceForUser(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.JobSuggestion, error)
	// FindByID only returns the row when userID owns it.
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.JobSuggestion, error)
	ListUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type suggestionRepository struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) SuggestionRepository {
	return &suggestionRepository{db: db}
}

func (r *suggestionRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Held until commit/rollback.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID.String()).Error; err != nil {
			return fmt.Errorf("failed to lock suggestions: %w", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.JobSuggestion{}).Error; err != nil {
			return fmt.Errorf("failed to delete old suggestions: %w", err)
		}

		if len(rows) == 0 {
			return nil
		}

		for i := range rows {
			rows[i].UserID = userID
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert suggestions: %w", err)
		}

		return nil
	})
}

func (r *suggestionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.JobSuggestion, error) {
	var rows []models.JobSuggestion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("match_percentage DESC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find suggestions: %w", err)
	}

	return rows, nil
}

func (r *suggestionRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.JobSuggestion, error) {
	var row models.JobSuggestion
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSuggestionNotFound
		}
		return nil, fmt.Errorf("failed to find suggestion: %w", err)
	}

	return &row, nil
}

func (r *suggestionRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.JobSuggestion{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestion owners: %w", err)
	}

	return ids, nil
}
