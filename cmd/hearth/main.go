// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/poiesic/hearth"
	"github.com/poiesic/hearth/ai"
	"github.com/poiesic/hearth/history"
	"github.com/poiesic/hearth/indexing"
	"github.com/poiesic/hearth/search"
	"github.com/urfave/cli/v2"
)

// connectionFlags are shared by every command that opens the store and
// talks to the Entity Directory and the embedding service.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "directory-url",
			Usage:    "Entity Directory base URL",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "directory-token",
			Usage: "Entity Directory bearer token",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Embedding provider (local, openai)",
			Value: "local",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "Embedding service API key",
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "hearth",
		Usage: "Semantic entity resolution for smart-home queries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "index",
				Usage:     "Index entities from the Entity Directory",
				ArgsUsage: "[entity-id ...]",
				Action:    indexCommand,
				Flags: append(connectionFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entities to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entities",
						Value: 100,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search indexed entities",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:  "domain",
						Usage: "Restrict results to a domain (light, sensor, ...)",
					},
					&cli.StringFlag{
						Name:  "area",
						Usage: "Restrict results to an area id",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score",
						Value: 0.35,
					},
					&cli.BoolFlag{
						Name:  "hybrid",
						Usage: "Merge keyword matches into semantic results",
					},
				),
			},
			{
				Name:      "resolve",
				Usage:     "Classify a query, rank matching entities, and plan actions",
				ArgsUsage: "<query>",
				Action:    resolveCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:  "user",
						Usage: "User id for history and personalization",
					},
					&cli.BoolFlag{
						Name:  "record",
						Usage: "Record the query in history",
					},
					&cli.Float64Flag{
						Name:  "boost",
						Usage: "Popularity boost factor (0 disables)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of matches",
						Value: 10,
					},
				),
			},
			{
				Name:   "graph",
				Usage:  "Rebuild the entity relationship graph",
				Action: graphCommand,
				Flags:  connectionFlags(),
			},
			{
				Name:   "history",
				Usage:  "Show or clear recorded query history",
				Action: historyCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:  "user",
						Usage: "Filter by user id",
					},
					&cli.StringFlag{
						Name:  "intent",
						Usage: "Filter by intent (control, query, status, discovery, analyze, configure)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "stats",
						Usage: "Print aggregate statistics instead of entries",
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Delete the matching entries",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openResolver builds a resolver from the shared connection flags.
func openResolver(c *cli.Context) (*hearth.Resolver, error) {
	aiConfig := ai.NewConfig(
		ai.WithProvider(c.String("provider")),
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
	)

	opts := []hearth.Option{
		hearth.WithStorePath(c.String("db")),
		hearth.WithDirectoryURL(c.String("directory-url")),
		hearth.WithDirectoryToken(c.String("directory-token")),
		hearth.WithAIConfig(aiConfig),
	}
	if c.IsSet("batch-size") {
		opts = append(opts, hearth.WithBatchSize(c.Int("batch-size")))
	}

	return hearth.NewResolver(hearth.NewConfig(opts...))
}

func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("a query is required")
	}
	return query, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	resolver, err := openResolver(c)
	if err != nil {
		return err
	}
	defer resolver.Close()

	entityIds := c.Args().Slice()

	// Total is unknown until the directory is listed; the tracker still
	// reports a useful rate with total 0.
	progress := indexing.NewProgressTracker(os.Stderr, len(entityIds), c.Int("report-interval"))
	indexer, err := resolver.NewIndexer(ctx, indexing.WithProgress(progress))
	if err != nil {
		return err
	}
	defer indexer.Release()

	result, err := indexer.IndexEntities(ctx, entityIds)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d entities: %d succeeded, %d failed\n",
		result.Total, result.Succeeded, result.Failed)
	for _, item := range result.Results {
		if item.Err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", item.EntityId, item.Err)
		}
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d entities failed to index", result.Failed, result.Total)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query, err := queryArg(c)
	if err != nil {
		return err
	}

	resolver, err := openResolver(c)
	if err != nil {
		return err
	}
	defer resolver.Close()

	engine, err := resolver.NewEngine(ctx)
	if err != nil {
		return err
	}

	matches, err := engine.Search(ctx, query, &search.Options{
		Domain:    c.String("domain"),
		AreaId:    c.String("area"),
		Limit:     c.Int("limit"),
		Threshold: float32(c.Float64("threshold")),
		Hybrid:    c.Bool("hybrid"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d matches\n", len(matches))
	for i, match := range matches {
		fmt.Printf("%d: %s [%.3f] (%s) %s\n",
			i+1, match.EntityId, match.Score, match.Source, match.Explanation)
	}
	return nil
}

func resolveCommand(c *cli.Context) error {
	ctx := context.Background()

	query, err := queryArg(c)
	if err != nil {
		return err
	}

	resolver, err := openResolver(c)
	if err != nil {
		return err
	}
	defer resolver.Close()

	plan, err := resolver.Resolve(ctx, query, &hearth.ResolveOptions{
		Limit:         c.Int("limit"),
		UserId:        c.String("user"),
		RecordHistory: c.Bool("record"),
		BoostFactor:   float32(c.Float64("boost")),
	})
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	cls := plan.Classification
	fmt.Printf("Intent: %s (%.2f)\n", cls.Intent, cls.Confidence)
	if cls.Domain != "" {
		fmt.Printf("Domain: %s (%.2f)\n", cls.Domain, cls.DomainConfidence)
	}
	if cls.Action != "" {
		fmt.Printf("Action: %s\n", cls.Action)
	}

	fmt.Printf("\nMatches (%d):\n", len(plan.Matches))
	for i, match := range plan.Matches {
		fmt.Printf("%d: %s [%.3f] %s\n", i+1, match.EntityId, match.Score, match.Explanation)
	}

	if len(plan.Steps) > 0 {
		fmt.Printf("\nSteps (%d):\n", len(plan.Steps))
		for i, step := range plan.Steps {
			fmt.Printf("%d: %s\n", i+1, step.Description)
		}
	}
	return nil
}

func graphCommand(c *cli.Context) error {
	ctx := context.Background()

	resolver, err := openResolver(c)
	if err != nil {
		return err
	}
	defer resolver.Close()

	builder, err := resolver.NewBuilder(ctx)
	if err != nil {
		return err
	}

	result, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("graph build failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Built %d edges: %d succeeded, %d failed\n",
		result.Total, result.Succeeded, result.Failed)
	for relType, count := range result.ByType {
		fmt.Fprintf(os.Stderr, "  %s: %d\n", relType, count)
	}
	return nil
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	resolver, err := openResolver(c)
	if err != nil {
		return err
	}
	defer resolver.Close()

	tracker, err := resolver.NewTracker(ctx)
	if err != nil {
		return err
	}

	filters := &history.Filters{
		UserId: c.String("user"),
		Intent: c.String("intent"),
	}

	if c.Bool("clear") {
		deleted, err := tracker.Clear(ctx, filters)
		if err != nil {
			return fmt.Errorf("clearing history failed: %w", err)
		}
		fmt.Printf("Deleted %d entries\n", deleted)
		return nil
	}

	if c.Bool("stats") {
		stats, err := tracker.Statistics(ctx)
		if err != nil {
			return fmt.Errorf("reading statistics failed: %w", err)
		}
		fmt.Printf("Total queries: %d\n", stats.TotalQueries)
		printCounted("Common queries", stats.CommonQueries)
		printCounted("Intents", countedFromMap(stats.Intents))
		printCounted("Domains", countedFromMap(stats.Domains))
		printCounted("Selected entities", stats.SelectedEntities)
		printCounted("Time of day", countedFromMap(stats.TimeOfDay))
		return nil
	}

	entries, err := tracker.History(ctx, c.Int("limit"), filters)
	if err != nil {
		return fmt.Errorf("reading history failed: %w", err)
	}
	for _, entry := range entries {
		fmt.Printf("%s  %-10s %-10s %q (%d results)\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Intent, entry.TimeOfDay, entry.QueryText, entry.ResultCount)
	}
	return nil
}

// countedFromMap converts a count map to a ranked slice, count descending
// with values breaking ties for deterministic output.
func countedFromMap(counts map[string]int) []history.Counted {
	counted := make([]history.Counted, 0, len(counts))
	for value, count := range counts {
		counted = append(counted, history.Counted{Value: value, Count: count})
	}
	sort.Slice(counted, func(i, j int) bool {
		if counted[i].Count != counted[j].Count {
			return counted[i].Count > counted[j].Count
		}
		return counted[i].Value < counted[j].Value
	})
	return counted
}

func printCounted(label string, counted []history.Counted) {
	if len(counted) == 0 {
		return
	}
	fmt.Printf("%s:\n", label)
	for _, item := range counted {
		fmt.Printf("  %-30s %d\n", item.Value, item.Count)
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
