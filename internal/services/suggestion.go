package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
)

const (
	suggestionMaxTokens   = 2000
	suggestionTemperature = 0.7
)

type GenerateResult struct {
	Count        int
	GenerationID uuid.UUID
}

type SuggestionGenerator struct {
	verifier       identity.TokenVerifier
	llm            CompletionService
	suggestionRepo repositories.SuggestionRepository
	promptBuilder  *PromptBuilder
	parser         *SuggestionParser
	indexer        SuggestionIndexer
	publisher      EventPublisher
	now            func() time.Time
}

// NewSuggestionGenerator wires the generator. indexer may be nil when no
// vector index is configured.
func NewSuggestionGenerator(
	verifier identity.TokenVerifier,
	llm CompletionService,
	suggestionRepo repositories.SuggestionRepository,
	promptBuilder *PromptBuilder,
	parser *SuggestionParser,
	indexer SuggestionIndexer,
	publisher EventPublisher,
) *SuggestionGenerator {
	if publisher == nil {
		publisher = NewNoopPublisher()
	}

	return &SuggestionGenerator{
		verifier:       verifier,
		llm:            llm,
		suggestionRepo: suggestionRepo,
		promptBuilder:  promptBuilder,
		parser:         parser,
		indexer:        indexer,
		publisher:      publisher,
		now:            time.Now,
	}
}

// Generate asks the model for job suggestions matching profile and replaces
// the token owner's stored suggestions with them. It returns either a result
// or a *GenerationError, never both.
func (g *SuggestionGenerator) Generate(ctx context.Context, profile models.UserProfile, bearerToken string) (*GenerateResult, error) {
	who, err := g.Authorize(ctx, bearerToken)
	if err != nil {
		return nil, err
	}
	return g.GenerateFor(ctx, who, profile)
}

// Authorize resolves the bearer token to its owner. Failures are
// *GenerationError values of kind Unauthorized, or Upstream when the
// verifier could not be reached.
func (g *SuggestionGenerator) Authorize(ctx context.Context, bearerToken string) (*identity.Identity, error) {
	if bearerToken == "" {
		return nil, NewUnauthorizedError(identity.ErrMissingToken)
	}

	who, err := g.verifier.Verify(ctx, bearerToken)
	if err != nil {
		if errors.Is(err, identity.ErrMissingToken) || errors.Is(err, identity.ErrInvalidToken) {
			return nil, NewUnauthorizedError(err)
		}
		return nil, newGenerationError(KindUpstream, "Failed to verify token", err)
	}

	return who, nil
}

// GenerateFor runs the generation for an already resolved owner.
func (g *SuggestionGenerator) GenerateFor(ctx context.Context, who *identity.Identity, profile models.UserProfile) (*GenerateResult, error) {
	completion, err := g.llm.Complete(ctx, CompletionRequest{
		System:      g.promptBuilder.SystemInstruction(),
		Prompt:      g.promptBuilder.BuildJobSuggestionPrompt(profile),
		MaxTokens:   suggestionMaxTokens,
		Temperature: suggestionTemperature,
	})
	if err != nil {
		return nil, classifyCompletionError(err)
	}

	parsed, err := g.parser.Parse(completion)
	if err != nil {
		log.Printf("❌ Unparseable model output for user %s: %v\n", who.UserID, err)
		return nil, newGenerationError(KindInvalidModelOutput, "Invalid AI response format", err)
	}

	generationID := uuid.New()
	rows := g.buildRows(who.UserID, generationID, parsed)

	if err := g.suggestionRepo.ReplaceForUser(ctx, who.UserID, rows); err != nil {
		log.Printf("❌ Failed to save suggestions for user %s: %v\n", who.UserID, err)
		return nil, newGenerationError(KindPersistence, "Failed to save job suggestions", err)
	}

	log.Printf("✅ Stored %d job suggestions for user %s (generation %s)\n", len(rows), who.UserID, generationID)

	g.afterCommit(ctx, who.UserID, generationID, rows)

	return &GenerateResult{Count: len(rows), GenerationID: generationID}, nil
}

func (g *SuggestionGenerator) buildRows(userID, generationID uuid.UUID, parsed []ParsedSuggestion) []models.JobSuggestion {
	createdAt := g.now()
	rows := make([]models.JobSuggestion, 0, len(parsed))

	for _, p := range parsed {
		rows = append(rows, models.JobSuggestion{
			ID:              uuid.New(),
			UserID:          userID,
			GenerationID:    generationID,
			JobTitle:        p.JobTitle,
			MatchPercentage: p.MatchPercentage,
			Reason:          p.Reason,
			RequiredSkills:  p.RequiredSkills,
			SalaryRange:     p.SalaryRange,
			Location:        p.Location,
			JobType:         models.DefaultJobType,
			Company:         models.DefaultCompany,
			Description:     g.promptBuilder.BuildSuggestionDescription(p.Reason, p.RequiredSkills, p.SalaryRange),
			CreatedAt:       createdAt,
		})
	}

	return rows
}

// afterCommit runs the side effects that must not fail a stored generation.
func (g *SuggestionGenerator) afterCommit(ctx context.Context, userID, generationID uuid.UUID, rows []models.JobSuggestion) {
	if g.indexer != nil {
		if err := g.indexer.IndexSuggestions(ctx, userID, rows); err != nil {
			log.Printf("⚠️  Failed to index suggestions for user %s: %v\n", userID, err)
		}
	}

	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, row.JobTitle)
	}

	err := g.publisher.PublishSuggestionsGenerated(ctx, SuggestionsGeneratedEvent{
		UserID:       userID,
		GenerationID: generationID,
		Count:        len(rows),
		JobTitles:    titles,
		GeneratedAt:  g.now(),
	})
	if err != nil {
		log.Printf("⚠️  Failed to publish generation %s: %v\n", generationID, err)
	}
}

// NewUnauthorizedError builds the error returned for a missing or rejected
// bearer token.
func NewUnauthorizedError(err error) *GenerationError {
	if errors.Is(err, identity.ErrMissingToken) {
		return newGenerationError(KindUnauthorized, "No authorization header", err)
	}
	return newGenerationError(KindUnauthorized, "Invalid token", err)
}

func classifyCompletionError(err error) *GenerationError {
	if errors.Is(err, ErrEmptyCompletion) {
		return newGenerationError(KindInvalidModelOutput, "Invalid AI response format", err)
	}

	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		return newGenerationError(KindUpstream, statusErr.Error(), err)
	}

	return newGenerationError(KindUpstream, "Failed to reach AI provider", err)
}
