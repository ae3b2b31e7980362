package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// GroqAPIKey is required: the process must not start serving without a
	// generation credential.
	GroqAPIKey string `envconfig:"GROQ_API_KEY" required:"true"`

	LLMBaseURL          string `envconfig:"LLM_BASE_URL"`
	ChatModel           string `envconfig:"CHAT_MODEL"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	MaxChunkTokens int           `envconfig:"MAX_CHUNK_TOKENS" default:"512"`
	FetchDelay     time.Duration `envconfig:"FETCH_DELAY" default:"500ms"`
	CorpusCSV      string        `envconfig:"CORPUS_CSV" default:"SB_publication_PMC.csv"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("INSIGHT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
