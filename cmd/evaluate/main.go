package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/feedbackinsights/internal/adapters/enrichment"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
	"github.com/zatekoja/feedbackinsights/internal/evaluation"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/clients/openai"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackinsights/pkg/config"
)

func main() {
	goldenPath := flag.String("golden", "config/golden_feedback.json", "path to the labeled feedback set")
	verbose := flag.Bool("v", false, "print per-item results")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-evaluate", cfg.Env)

	items, err := evaluation.LoadGoldenFeedback(*goldenPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load golden feedback")
	}
	if err := evaluation.ValidateGoldenFeedback(items); err != nil {
		log.Fatal().Err(err).Msg("Golden feedback is invalid")
	}

	// Without a key every item degrades; the run still reports that.
	var completion providers.CompletionProvider
	if aiClient, err := openai.NewClient(&cfg.Enrichment); err != nil {
		log.Warn().Err(err).Msg("Language model not configured")
	} else {
		defer aiClient.Close()
		completion = aiClient
	}
	enricher := enrichment.NewEnricher(completion, enrichment.Options{
		Timeout:     cfg.Enrichment.Timeout,
		Temperature: cfg.Enrichment.Temperature,
		MaxTokens:   cfg.Enrichment.MaxTokens,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, results, err := evaluation.NewRunner(enricher).Run(ctx, items)
	if err != nil {
		log.Fatal().Err(err).Msg("Evaluation failed")
	}

	if *verbose {
		for _, res := range results {
			log.Info().
				Str("id", res.FeedbackID).
				Str("expected", string(res.Expected)).
				Str("predicted", string(res.Predicted)).
				Str("status", string(res.Status)).
				Dur("latency", res.Latency).
				Bool("correct", res.Correct()).
				Msg("Evaluated")
		}
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}
