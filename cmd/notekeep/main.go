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
	"strings"
	"time"

	"github.com/poiesic/notekeep"
	"github.com/poiesic/notekeep/ai"
	"github.com/poiesic/notekeep/backfill"
	"github.com/poiesic/notekeep/core"
	"github.com/poiesic/notekeep/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "notekeep",
		Usage: "Semantic notes store with keyword fallback search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./notekeep_db",
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
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Add a note",
				Action: addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Note title",
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "Note content",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Tag to attach (repeatable)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search notes by meaning, falling back to keywords",
				ArgsUsage: "[query]",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "tag",
						Usage: "Only return notes carrying this tag (repeatable)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultLimit,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Number of results to skip",
					},
					&cli.BoolFlag{
						Name:  "keyword-only",
						Usage: "Skip semantic search and match keywords directly",
					},
				},
			},
			{
				Name:      "related",
				Usage:     "Find notes related to a note",
				ArgsUsage: "<note-id>",
				Action:    relatedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: search.DefaultRelatedLimit,
					},
				},
			},
			{
				Name:   "backfill",
				Usage:  "Compute embeddings for notes that lack one",
				Action: backfillCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of notes to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N notes",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "count",
				Usage:  "Count stored notes",
				Action: countCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*notekeep.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := notekeep.NewDatabase(c.String("db"), notekeep.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func addCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	note := &core.Note{
		Title:   c.String("title"),
		Content: c.String("content"),
		Tags:    c.StringSlice("tag"),
	}

	id, err := db.CreateNote(ctx, note)
	if err != nil {
		return fmt.Errorf("failed to add note: %w", err)
	}

	fmt.Printf("Added note %s\n", id)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := search.Options{
		Query:       strings.Join(c.Args().Slice(), " "),
		Tags:        c.StringSlice("tag"),
		Limit:       c.Int("limit"),
		Offset:      c.Int("offset"),
		KeywordOnly: c.Bool("keyword-only"),
	}

	results, err := db.Search(ctx, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(results)
	return nil
}

func relatedCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.Args().Len() == 0 {
		return fmt.Errorf("note id is required")
	}
	id := core.ID(c.Args().First())

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Related(ctx, id, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("related lookup failed: %w", err)
	}

	printResults(results)
	return nil
}

func backfillCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &backfill.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	backfiller, err := db.NewBackfiller(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create backfiller: %w", err)
	}

	result, err := backfiller.Run(ctx)
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}

	fmt.Printf("Updated %d notes, %d failed\n", result.Updated, result.Failed)
	return nil
}

func countCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := db.CountNotes(ctx)
	if err != nil {
		return fmt.Errorf("count failed: %w", err)
	}

	fmt.Printf("%d notes\n", count)
	return nil
}

func printResults(results []*core.Note) {
	fmt.Printf("Found %d hits\n", len(results))
	for i, note := range results {
		title := note.Title
		if title == "" {
			title = firstLine(note.Content)
		}
		fmt.Printf("%d: '%s' (%s)\n", i, title, note.Id)
	}
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 60 {
		s = s[:60] + "..."
	}
	return s
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
