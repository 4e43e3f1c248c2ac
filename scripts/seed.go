package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/feedbackinsights/internal/adapters/database"
	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackinsights/pkg/config"
)

type sample struct {
	message         string
	summary         string
	response        string
	recommendations string
}

var samples = map[entities.Sentiment][]sample{
	entities.SentimentPositive: {
		{
			message:         "Setup took five minutes and the reports are exactly what my team needed.",
			summary:         "Fast setup and useful reports.",
			response:        "Thank you! We're glad the reports fit your team's needs.",
			recommendations: "- Highlight quick setup in onboarding material\n- Ask for a case study",
		},
		{
			message:         "Support answered within the hour and solved the issue on the first try.",
			summary:         "Quick, effective support resolution.",
			response:        "Thanks for letting us know. We'll pass your kind words on to the team.",
			recommendations: "- Share this response time as an internal benchmark",
		},
	},
	entities.SentimentNeutral: {
		{
			message:         "It does the job. The export could be a bit faster.",
			summary:         "Works adequately; export is slow.",
			response:        "Thanks for the feedback. We're looking at export performance.",
			recommendations: "- Profile the export path\n- Add progress indication for large exports",
		},
		{
			message:         "The documentation covers the basics but misses advanced configuration.",
			summary:         "Docs lack advanced configuration details.",
			response:        "Thank you. We'll expand the advanced configuration guides.",
			recommendations: "- Add an advanced configuration section",
		},
	},
	entities.SentimentNegative: {
		{
			message:         "The page freezes every time I open the analytics tab.",
			summary:         "Analytics tab freezes the page.",
			response:        "We're sorry about this. Our engineers are investigating the freeze.",
			recommendations: "- Reproduce the freeze with large datasets\n- Add a regression test",
		},
		{
			message:         "I have been waiting a week for a reply to my ticket.",
			summary:         "Support ticket unanswered for a week.",
			response:        "We apologize for the delay. A team member will contact you today.",
			recommendations: "- Review ticket triage backlog\n- Add SLA alerts",
		},
	},
}

func main() {
	count := flag.Int("count", 200, "number of feedback records to insert")
	days := flag.Int("days", 90, "spread records over this many past days")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Env)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating feedback before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE feedback RESTART IDENTITY`); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset tables")
		}
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -*days)

	// Timestamps are generated up front and sorted so IDs follow creation time.
	stamps := make([]time.Time, *count)
	window := end.Sub(start)
	for i := range stamps {
		stamps[i] = start.Add(time.Duration(rng.Int64N(int64(window))))
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	next := 0
	repo := database.NewFeedbackAdapterWithClock(pgClient, func() time.Time {
		t := stamps[next]
		next++
		return t
	})

	inserted := 0
	for i := 0; i < *count; i++ {
		rating := weightedRating(rng)
		sentiment := sentimentForRating(rating)
		pick := samples[sentiment][rng.IntN(len(samples[sentiment]))]

		record := &entities.FeedbackRecord{
			UserName:         "Seed User " + string(rune('A'+i%26)),
			Category:         cfg.Feedback.Categories[rng.IntN(len(cfg.Feedback.Categories))],
			Rating:           rating,
			Message:          pick.message,
			Sentiment:        sentiment,
			Summary:          pick.summary,
			AIResponse:       pick.response,
			Recommendations:  pick.recommendations,
			EnrichmentStatus: entities.EnrichmentComplete,
		}
		if _, err := repo.Insert(ctx, record); err != nil {
			log.Error().Err(err).Int("index", i).Msg("Failed to insert feedback")
			continue
		}
		inserted++
	}

	log.Info().Int("inserted", inserted).Int("days", *days).Msg("Seeding completed")
}

// weightedRating skews toward satisfied ratings the way real feedback tends to.
func weightedRating(rng *rand.Rand) int {
	weights := []int{8, 10, 17, 30, 35}
	n := rng.IntN(100)
	for i, w := range weights {
		if n < w {
			return i + 1
		}
		n -= w
	}
	return entities.MaxRating
}

func sentimentForRating(rating int) entities.Sentiment {
	switch {
	case rating >= 4:
		return entities.SentimentPositive
	case rating == 3:
		return entities.SentimentNeutral
	default:
		return entities.SentimentNegative
	}
}
