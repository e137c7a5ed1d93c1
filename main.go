package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"videoquiz/ai-services/config"
	_ "videoquiz/ai-services/docs"
	"videoquiz/ai-services/handlers"
	"videoquiz/ai-services/internal/aiclient"
	"videoquiz/ai-services/internal/ffmpeg"
	"videoquiz/ai-services/internal/grpchealth"
	"videoquiz/ai-services/internal/health"
	"videoquiz/ai-services/internal/quiz"
	"videoquiz/ai-services/internal/speech"
	"videoquiz/ai-services/internal/telemetry"
	"videoquiz/ai-services/internal/worker"
	"videoquiz/ai-services/middleware"
	"videoquiz/ai-services/utils"
)

const (
	version = "1.0.0"

	startupTimeout  = 10 * time.Minute
	healthTimeout   = 5 * time.Second
	grpcSyncEvery   = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

// @title Video Quiz AI Services
// @version 1.0
// @description Speech-to-text transcription and quiz question generation for the video quiz platform.
// @BasePath /
func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg)

	providers, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
	}, log)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	metrics, err := quiz.NewMetrics(providers.AppMeter())
	if err != nil {
		log.Fatalf("Failed to create quiz metrics: %v", err)
	}

	// Both models must be ready before the server accepts traffic.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), startupTimeout)
	engine := speech.NewWhisperEngine(cfg.WhisperURL, cfg.WhisperModel)
	log.Infof("Loading Whisper model %q", cfg.WhisperModel)
	if err := engine.Load(startupCtx); err != nil {
		log.Fatalf("Failed to load Whisper model: %v", err)
	}
	log.Info("Whisper model loaded")

	llm := aiclient.NewAIClient(cfg.OllamaHost, cfg.LLMModel, log)
	if err := llm.EnsureModel(startupCtx); err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	cancelStartup()

	var preparer speech.AudioPreparer
	if cfg.AudioNormalize {
		if n := ffmpeg.NewNormalizer(); n.Available() {
			preparer = n
		} else {
			log.Warn("AUDIO_NORMALIZE is set but ffmpeg/ffprobe were not found, uploads are sent as-is")
		}
	}

	transcriber := speech.NewTranscriber(engine, preparer, cfg.TempDir, log)
	generator := quiz.NewGenerator(llm, metrics, log)

	dispatcher := worker.NewDispatcher(cfg.QuizWorkers, cfg.QuizQueueSize, log)
	dispatcher.Run()
	batcher := quiz.NewBatchGenerator(generator, dispatcher, cfg.QuizWindow(), log)

	checker := health.NewChecker(engine, llm, healthTimeout)

	var grpcServer *grpchealth.Server
	if cfg.GRPCHealthPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Host, cfg.GRPCHealthPort))
		if err != nil {
			log.Fatalf("Failed to listen for gRPC health: %v", err)
		}
		grpcServer = grpchealth.New(checker, grpcSyncEvery, log)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				log.Errorf("gRPC health server stopped: %v", err)
			}
		}()
		log.Infof("gRPC health service listening on %s", lis.Addr())
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(log),
		BodyLimit:    cfg.BodyLimit(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-ID",
		AllowCredentials: cfg.CORSOrigins != "" && cfg.CORSOrigins != "*",
	}))
	app.Use(middleware.RequestLogger(log))

	appHandler := handlers.NewApplicationHandler(transcriber, generator, batcher, checker, llm, log)
	appHandler.Register(app)
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	go func() {
		log.Infof("Starting AI services on %s", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down AI services...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Errorf("HTTP shutdown: %v", err)
	}
	dispatcher.Stop()
	if grpcServer != nil {
		grpcServer.Stop()
	}
	if err := llm.Close(); err != nil {
		log.Warnf("Closing LLM client: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := providers.Shutdown(ctx); err != nil {
		log.Errorf("Telemetry shutdown: %v", err)
	}
	log.Info("AI services shut down gracefully.")
}
