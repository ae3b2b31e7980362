package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/astro-insight/insight/internal/config"
	"github.com/astro-insight/insight/internal/corpus"
	"github.com/astro-insight/insight/internal/llm"
	"github.com/astro-insight/insight/internal/repository"
	"github.com/astro-insight/insight/internal/scrape"
	"github.com/astro-insight/insight/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Scrape, chunk, embed and index the publication corpus",
		Long:  "Run the offline extraction pipeline: fetch every publication page, extract year and body text, chunk, embed, and write the chunks to the vector index",
		RunE:  runIngest,
	}

	cmd.Flags().String("csv", "", "Path to the Title,Link publication list (defaults to INSIGHT_CORPUS_CSV)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	csvPath, _ := cmd.Flags().GetString("csv")
	if csvPath == "" {
		csvPath = cfg.CorpusCSV
	}

	records, err := corpus.LoadRecords(csvPath)
	if err != nil {
		return err
	}
	log.Printf("loaded %d publication records from %s", len(records), csvPath)

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	counter, err := service.NewTiktokenCounter()
	if err != nil {
		return fmt.Errorf("failed to load tokenizer: %w", err)
	}

	chunker, err := service.NewChunker(counter, cfg.MaxChunkTokens)
	if err != nil {
		return fmt.Errorf("failed to build chunker: %w", err)
	}

	llmClient := llm.NewClient(llm.Config{
		APIKey:              cfg.GroqAPIKey,
		BaseURL:             cfg.LLMBaseURL,
		ChatModel:           cfg.ChatModel,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	extractor := service.NewExtractorWithConfig(
		scrape.NewClient(),
		chunker,
		llmClient,
		repository.NewChunkIndex(pool),
		service.ExtractorConfig{
			BatchSize:  service.DefaultIndexBatchSize,
			FetchDelay: cfg.FetchDelay,
		},
	)

	report, err := extractor.Run(ctx, records)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	log.Printf("ingestion complete: %d records, %d skipped, %d chunks indexed",
		report.Records, report.Skipped, report.Chunks)
	return nil
}
