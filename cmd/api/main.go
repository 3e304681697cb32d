package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/career-match/internal/config"
	"alfredoptarigan/career-match/internal/handlers"
	"alfredoptarigan/career-match/internal/identity"
	"alfredoptarigan/career-match/internal/models"
	"alfredoptarigan/career-match/internal/repositories"
	"alfredoptarigan/career-match/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	profileRepo := repositories.NewProfileRepository(db)
	suggestionRepo := repositories.NewSuggestionRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Token verification: local JWT check when the secret is known,
	// otherwise ask the identity provider.
	var verifier identity.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = identity.NewJWTVerifier(cfg.Auth.JWTSecret)
		log.Println("✅ Verifying bearer tokens locally")
	} else {
		verifier = identity.NewGateway(cfg.Auth.URL, cfg.Auth.AnonKey)
		log.Printf("✅ Verifying bearer tokens against %s\n", cfg.Auth.URL)
	}

	storageService, err := newStorageService(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	resumeParser := services.NewResumeParserService()
	promptBuilder := services.NewPromptBuilder()

	parser, err := services.NewSuggestionParser()
	if err != nil {
		log.Fatalf("❌ Failed to initialize suggestion parser: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	var gemini services.GeminiService
	if cfg.LLM.GeminiAPIKey != "" {
		gemini, err = services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	}

	var llm services.CompletionService
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		llm = gemini
	default:
		llm = services.NewOpenAIService(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel, cfg.LLM.Timeout)
	}
	log.Printf("✅ Using %s for job suggestions\n", cfg.LLM.Provider)

	// Optional semantic search
	var (
		indexWorker services.IndexWorker
		searchSvc   *services.SuggestionSearchService
		indexer     services.SuggestionIndexer
	)
	if cfg.SearchEnabled() {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")

		searchSvc = services.NewSuggestionSearchService(gemini, qdrantService, promptBuilder)
		indexWorker = services.NewIndexWorker(searchSvc, cfg.Qdrant.IndexWorkers)
		indexWorker.Start(ctx)
		indexer = indexWorker
	} else {
		log.Println("⚠️  Suggestion search disabled (set QDRANT_URL and GEMINI_API_KEY to enable)")
	}

	publisher := services.NewNoopPublisher()
	if cfg.Events.RabbitMQURL != "" {
		publisher, err = services.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
		if err != nil {
			log.Fatalf("❌ Failed to connect to RabbitMQ: %v", err)
		}
		log.Printf("✅ Publishing suggestion events to exchange %s\n", cfg.Events.Exchange)
	}

	generator := services.NewSuggestionGenerator(
		verifier,
		llm,
		suggestionRepo,
		promptBuilder,
		parser,
		indexer,
		publisher,
	)

	// Initialize Handlers
	suggestionHandler := handlers.NewSuggestionHandler(generator, suggestionRepo, cfg.Server.LegacyErrorStatus)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	resumeHandler := handlers.NewResumeHandler(profileRepo, storageService, resumeParser, cfg.Storage.MaxFileSize)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Career Match API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(handlers.CORS())

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// The generator authenticates the bearer token itself.
	api.Post("/suggest-jobs", suggestionHandler.HandleSuggestJobs)

	auth := handlers.RequireAuth(verifier)
	api.Get("/profile", auth, profileHandler.HandleGetProfile)
	api.Put("/profile", auth, profileHandler.HandleUpsertProfile)
	api.Post("/profile/resume", auth, resumeHandler.HandleUpload)
	api.Get("/profile/resume", auth, resumeHandler.HandleDownload)
	api.Get("/suggestions", auth, suggestionHandler.HandleListSuggestions)
	if searchSvc != nil {
		api.Get("/suggestions/search", auth, handlers.NewSearchHandler(searchSvc).HandleSearch)
	}
	api.Get("/suggestions/:id", auth, suggestionHandler.HandleGetSuggestion)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Career Match API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/suggest-jobs",
				"GET /api/v1/profile",
				"PUT /api/v1/profile",
				"POST /api/v1/profile/resume",
				"GET /api/v1/profile/resume",
				"GET /api/v1/suggestions",
				"GET /api/v1/suggestions/search?q=",
				"GET /api/v1/suggestions/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		if indexWorker != nil {
			indexWorker.Stop()
		}
		if err := publisher.Close(); err != nil {
			log.Printf("⚠️  Failed to close event publisher: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func newStorageService(ctx context.Context, cfg *config.Config) (services.StorageService, error) {
	if cfg.Storage.Driver == config.StorageS3 {
		log.Printf("✅ Storing resumes in bucket %s\n", cfg.Storage.S3.Bucket)
		return services.NewS3StorageService(ctx, cfg.Storage.S3)
	}

	log.Printf("✅ Storing resumes in %s\n", cfg.Storage.UploadPath)
	return services.NewLocalStorageService(cfg.Storage.UploadPath)
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
