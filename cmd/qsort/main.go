// Command qsort is a thin wiring example for the orchestrator: it loads a
// YAML RunConfig, builds a judge for the configured provider, runs one Sort
// call, and prints the resulting rankings. It is not a supported interface;
// real callers are expected to wire the orchestrator package directly.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/TomokiIshimine/llm-qualitative-sort/infrastructure/cachestore"
	"github.com/TomokiIshimine/llm-qualitative-sort/infrastructure/llmjudge"
	"github.com/TomokiIshimine/llm-qualitative-sort/infrastructure/metrics"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/events"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/orchestrator"
	"github.com/TomokiIshimine/llm-qualitative-sort/internal/ports"
)

func main() {
	configPath := flag.String("config", "qsort.yaml", "path to a RunConfig YAML file")
	flag.Parse()

	cfg, err := loadRunConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	judge, err := buildJudge(ctx, cfg)
	if err != nil {
		log.Fatalf("build judge: %v", err)
	}

	opts := []orchestrator.Option{
		orchestrator.WithCriteria(cfg.Criteria),
		orchestrator.WithEliminationCount(cfg.EliminationCount),
		orchestrator.WithComparisonRounds(cfg.ComparisonRounds),
		orchestrator.WithMaxConcurrentRequests(cfg.MaxConcurrentRequests),
		orchestrator.WithMetrics(metrics.NewPrometheusMetrics()),
		orchestrator.WithEventSink(events.SinkFunc(logProgress)),
	}
	if cfg.Seed != nil {
		opts = append(opts, orchestrator.WithSeed(*cfg.Seed))
	}
	if cfg.CachePath != "" {
		store, err := cachestore.NewFileStore(cfg.CachePath)
		if err != nil {
			log.Fatalf("open cache: %v", err)
		}
		opts = append(opts, orchestrator.WithCacheStore(store))
	}

	o, err := orchestrator.New(judge, opts...)
	if err != nil {
		log.Fatalf("build orchestrator: %v", err)
	}

	result, err := o.Sort(ctx, cfg.Items)
	if err != nil {
		log.Fatalf("sort: %v", err)
	}

	for _, group := range result.Rankings {
		fmt.Printf("rank %d: %v\n", group.Rank, group.Items)
	}
	fmt.Printf("\nmatches=%d api_calls=%d cache_hits=%d deadlocked=%t elapsed=%s\n",
		result.Statistics.TotalMatches,
		result.Statistics.TotalAPICalls,
		result.Statistics.CacheHits,
		result.Statistics.Deadlocked,
		result.Statistics.ElapsedTime,
	)
}

// buildJudge constructs the raw provider judge for cfg.Provider. Every
// provider except "mock" is wrapped in the same resilience stack: retries,
// then a rate limit, then a circuit breaker; the mock judge is returned
// unwrapped.
func buildJudge(ctx context.Context, cfg RunConfig) (ports.Judge, error) {
	var base ports.Judge

	switch cfg.Provider {
	case "anthropic":
		j, err := llmjudge.NewAnthropicJudge(llmjudge.AnthropicConfig{
			APIKey: mustEnv("ANTHROPIC_API_KEY"),
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		base = j
	case "openai":
		j, err := llmjudge.NewOpenAIJudge(llmjudge.OpenAIConfig{
			APIKey: mustEnv("OPENAI_API_KEY"),
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		base = j
	case "google":
		j, err := llmjudge.NewGoogleJudge(ctx, llmjudge.GoogleConfig{
			APIKey: mustEnv("GOOGLE_API_KEY"),
			Model:  cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		base = j
	case "mock":
		base = llmjudge.NewMockJudge(llmjudge.LexicographicallyLargerWins)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.Provider == "mock" {
		return base, nil
	}

	retrying := llmjudge.NewRetryingJudge(base, llmjudge.DefaultRetryConfig())
	limited := llmjudge.NewRateLimitedJudge(retrying, 1, 1)
	return llmjudge.NewCircuitBreakerJudge(limited, 5, 30*time.Second), nil
}

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		log.Fatalf("missing required environment variable %s", name)
	}
	return v
}

func logProgress(evt events.ProgressEvent) {
	fmt.Println(evt.String())
}
