package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every environment-supplied setting of the AI services process.
type Config struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`

	WhisperModel   string `validate:"required"`
	WhisperURL     string `validate:"required,url"`
	AudioNormalize bool
	TempDir        string

	LLMModel   string `validate:"required"`
	OllamaHost string `validate:"required,url"`

	CORSOrigins string
	MaxUploadMB int `validate:"min=1"`

	QuizWorkers       int `validate:"min=1"`
	QuizQueueSize     int `validate:"min=1"`
	QuizWindowSeconds int `validate:"min=1"`

	GRPCHealthPort int `validate:"min=0,max=65535"`

	OTLPEndpoint string
	ServiceName  string `validate:"required"`
}

var envBindings = map[string]string{
	"server.host":             "HOST",
	"server.port":             "PORT",
	"log.level":               "LOG_LEVEL",
	"whisper.model":           "WHISPER_MODEL",
	"whisper.url":             "WHISPER_URL",
	"whisper.normalize":       "AUDIO_NORMALIZE",
	"whisper.temp_dir":        "TEMP_DIR",
	"llm.model":               "LLM_MODEL",
	"llm.host":                "OLLAMA_HOST",
	"http.cors_origins":       "CORS_ORIGINS",
	"http.max_upload_mb":      "MAX_UPLOAD_MB",
	"quiz.workers":            "QUIZ_WORKERS",
	"quiz.queue_size":         "QUIZ_QUEUE_SIZE",
	"quiz.window_seconds":     "QUIZ_WINDOW_SECONDS",
	"grpc.health_port":        "GRPC_HEALTH_PORT",
	"telemetry.otlp_endpoint": "OTEL_EXPORTER_OTLP_ENDPOINT",
	"telemetry.service_name":  "OTEL_SERVICE_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("whisper.model", "base")
	v.SetDefault("whisper.url", "http://localhost:9000")
	v.SetDefault("whisper.normalize", false)
	v.SetDefault("whisper.temp_dir", "")
	v.SetDefault("llm.model", "mistral:7b")
	v.SetDefault("llm.host", "http://localhost:11434")
	v.SetDefault("http.cors_origins", "http://localhost:3000,http://localhost:5000")
	v.SetDefault("http.max_upload_mb", 1024)
	v.SetDefault("quiz.workers", 2)
	v.SetDefault("quiz.queue_size", 32)
	v.SetDefault("quiz.window_seconds", 300)
	v.SetDefault("grpc.health_port", 0)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.service_name", "ai-services")
}

// Load reads configuration from the environment. Any envFiles given are loaded
// first with godotenv; a missing file is not an error. With no envFiles, ".env"
// in the working directory is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		Host:              v.GetString("server.host"),
		Port:              v.GetInt("server.port"),
		LogLevel:          strings.ToLower(v.GetString("log.level")),
		WhisperModel:      v.GetString("whisper.model"),
		WhisperURL:        strings.TrimRight(v.GetString("whisper.url"), "/"),
		AudioNormalize:    v.GetBool("whisper.normalize"),
		TempDir:           v.GetString("whisper.temp_dir"),
		LLMModel:          v.GetString("llm.model"),
		OllamaHost:        strings.TrimRight(v.GetString("llm.host"), "/"),
		CORSOrigins:       v.GetString("http.cors_origins"),
		MaxUploadMB:       v.GetInt("http.max_upload_mb"),
		QuizWorkers:       v.GetInt("quiz.workers"),
		QuizQueueSize:     v.GetInt("quiz.queue_size"),
		QuizWindowSeconds: v.GetInt("quiz.window_seconds"),
		GRPCHealthPort:    v.GetInt("grpc.health_port"),
		OTLPEndpoint:      v.GetString("telemetry.otlp_endpoint"),
		ServiceName:       v.GetString("telemetry.service_name"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr is the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// QuizWindow is the length of one question-generation window.
func (c *Config) QuizWindow() time.Duration {
	return time.Duration(c.QuizWindowSeconds) * time.Second
}

// BodyLimit is the maximum accepted request body in bytes.
func (c *Config) BodyLimit() int {
	return c.MaxUploadMB * 1024 * 1024
}
