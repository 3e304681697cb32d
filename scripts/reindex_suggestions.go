package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/career-match/internal/config"
	"alfredoptarigan/career-match/internal/repositories"
	"alfredoptarigan/career-match/internal/services"
)

// Rebuilds the Qdrant suggestion index from the job_suggestions table.
func main() {
	log.Println("🚀 Starting suggestion re-index...")

	cfg := config.Load()
	if !cfg.SearchEnabled() {
		log.Fatalf("❌ QDRANT_URL and GEMINI_API_KEY must be set")
	}

	ctx := context.Background()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	suggestionRepo := repositories.NewSuggestionRepository(db)

	geminiService, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	searchService := services.NewSuggestionSearchService(geminiService, qdrantService, services.NewPromptBuilder())

	userIDs, err := suggestionRepo.ListUserIDs(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to list users: %v", err)
	}
	log.Printf("📋 Found %d users with suggestions", len(userIDs))

	successCount := 0
	failCount := 0
	pointCount := 0

	for i, userID := range userIDs {
		rows, err := suggestionRepo.FindByUserID(ctx, userID)
		if err != nil {
			log.Printf("   ❌ Failed to load suggestions for %s: %v", userID, err)
			failCount++
			continue
		}

		if err := searchService.IndexSuggestions(ctx, userID, rows); err != nil {
			log.Printf("   ❌ Failed to index %s: %v", userID, err)
			failCount++
			continue
		}

		successCount++
		pointCount += len(rows)

		if (i+1)%10 == 0 || i == len(userIDs)-1 {
			log.Printf("   📊 Progress: %d/%d users", i+1, len(userIDs))
		}
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Re-index Summary:")
	log.Printf("   ✅ Successful: %d users, %d suggestions", successCount, pointCount)
	log.Printf("   ❌ Failed: %d users", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some users failed to re-index. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ Suggestion index rebuilt successfully!")
}
