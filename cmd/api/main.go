package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mentor-backend/cmd"
	"mentor-backend/internal/api"
	"mentor-backend/internal/auth"
	"mentor-backend/internal/chat"
	"mentor-backend/internal/rag"
	"mentor-backend/internal/sheets"
	"mentor-backend/internal/speech"
	"mentor-backend/internal/storage"
)

type APIConfig struct {
	APIPort   string `env:"API_PORT" envDefault:"8000"`
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`

	SheetWebhookURL string `env:"GOOGLE_SHEET_WEBHOOK,notEmpty,required"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-only-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY,notEmpty,required"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	KnowledgeDir string `env:"KNOWLEDGE_DIR" envDefault:"knowledge"`

	TTSEngine      string `env:"TTS_ENGINE" envDefault:"edge"` // edge, openai, disabled
	TTSEndpointURL string `env:"TTS_ENDPOINT_URL"`
	TTSVoice       string `env:"TTS_VOICE"`

	ArtifactStore     string `env:"ARTIFACT_STORE" envDefault:"local"` // local, s3
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AudioBucketName   string `env:"AUDIO_BUCKET_NAME" envDefault:"audio-replies"`
	AudioPublicURL    string `env:"AUDIO_PUBLIC_URL"`

	AudioMaxAge        time.Duration `env:"AUDIO_MAX_AGE" envDefault:"24h"`
	AudioMaxCount      int           `env:"AUDIO_MAX_COUNT" envDefault:"1000"`
	AudioSweepInterval time.Duration `env:"AUDIO_SWEEP_INTERVAL" envDefault:"10m"`

	HistoryMaxIdle time.Duration `env:"HISTORY_MAX_IDLE" envDefault:"0"` // 0 keeps histories forever
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	log.Println("Loading knowledge base...")
	retriever, err := rag.LoadKnowledgeBase(cfg.KnowledgeDir)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}

	engine, err := rag.NewEngine(cfg.OpenAIAPIKey, cfg.OpenAIModel, retriever)
	if err != nil {
		log.Fatalf("Failed to create generation engine: %v", err)
	}

	artifacts := newArtifactStore(&cfg)
	speaker := speech.NewService(newSynthesizer(&cfg), artifacts)

	memory := chat.NewMemory()
	pipeline := chat.NewPipeline(memory, engine, speaker)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	users := sheets.NewUsers(sheets.NewClient(cfg.SheetWebhookURL))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.ArtifactStore == "local" {
		policy := storage.RetentionPolicy{MaxAge: cfg.AudioMaxAge, MaxCount: cfg.AudioMaxCount}
		go storage.Janitor(ctx, artifacts, policy, cfg.AudioSweepInterval)
	}
	if cfg.HistoryMaxIdle > 0 {
		go memory.Janitor(ctx, cfg.HistoryMaxIdle/2, cfg.HistoryMaxIdle)
	}

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/health", api.RestHandler(func(r *http.Request) (any, error) { return nil, nil }))

	api.NewAuthService(users, issuer).AddRoutes(r)

	chatService := api.NewChatService(pipeline, memory)
	r.Route("/api", func(r chi.Router) {
		r.Use(issuer.Middleware)
		chatService.AddRoutes(r)
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	r.NotFound(api.SPAHandler(cfg.StaticDir))

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Listening on :%s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

func newArtifactStore(cfg *APIConfig) storage.ArtifactStore {
	switch cfg.ArtifactStore {
	case "s3":
		store, err := storage.NewS3Provider(storage.S3Config{
			Endpoint:        cfg.S3EndpointURL,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.AudioBucketName,
			Prefix:          "audio",
			PublicBaseURL:   cfg.AudioPublicURL,
		})
		if err != nil {
			log.Fatalf("Failed to create S3 artifact store: %v", err)
		}
		return store
	case "local":
		store, err := storage.NewLocalProvider(filepath.Join(cfg.StaticDir, "audio"), "/static/audio")
		if err != nil {
			log.Fatalf("Failed to create local artifact store: %v", err)
		}
		return store
	default:
		log.Fatalf("Unknown artifact store %q", cfg.ArtifactStore)
		return nil
	}
}

func newSynthesizer(cfg *APIConfig) speech.Synthesizer {
	switch cfg.TTSEngine {
	case "edge":
		if cfg.TTSEndpointURL == "" {
			log.Println("TTS_ENDPOINT_URL not set, audio replies disabled")
			return nil
		}
		return speech.NewEdgeSynthesizer(cfg.TTSEndpointURL, cfg.TTSVoice)
	case "openai":
		return speech.NewOpenAISynthesizer(cfg.OpenAIAPIKey, cfg.TTSVoice)
	case "disabled":
		return nil
	default:
		log.Fatalf("Unknown TTS engine %q", cfg.TTSEngine)
		return nil
	}
}
