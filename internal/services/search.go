package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/models"
)

const defaultSearchLimit = 5

// SuggestionIndexer keeps the vector index in step with stored suggestions.
type SuggestionIndexer interface {
	IndexSuggestions(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error
}

type SuggestionSearchService struct {
	embedder      EmbeddingService
	index         VectorIndex
	promptBuilder *PromptBuilder
}

func NewSuggestionSearchService(embedder EmbeddingService, index VectorIndex, promptBuilder *PromptBuilder) *SuggestionSearchService {
	return &SuggestionSearchService{
		embedder:      embedder,
		index:         index,
		promptBuilder: promptBuilder,
	}
}

// IndexSuggestions embeds every row and replaces the user's points with them.
func (s *SuggestionSearchService) IndexSuggestions(ctx context.Context, userID uuid.UUID, rows []models.JobSuggestion) error {
	points := make([]IndexedSuggestion, 0, len(rows))
	for _, row := range rows {
		embedding, err := s.embedder.GenerateEmbedding(ctx, s.promptBuilder.BuildSearchText(row))
		if err != nil {
			return fmt.Errorf("failed to embed suggestion %s: %w", row.ID, err)
		}

		points = append(points, IndexedSuggestion{
			SuggestionID: row.ID,
			UserID:       userID,
			GenerationID: row.GenerationID,
			JobTitle:     row.JobTitle,
			Embedding:    embedding,
		})
	}

	return s.index.ReplaceForUser(ctx, userID, points)
}

// Search returns the caller's suggestions closest to the free-text query.
func (s *SuggestionSearchService) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.SearchHit, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := s.index.Search(ctx, userID, embedding, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, models.SearchHit{
			SuggestionID: r.SuggestionID.String(),
			JobTitle:     r.JobTitle,
			Score:        r.Score,
		})
	}

	return hits, nil
}
