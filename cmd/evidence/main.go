// Command evidence queries the local evidence store directly, without
// running an assessment. Useful to check what the retrieval layer would
// hand the reasoner for a given question.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"ward-lab/infrastructure/search"
	"ward-lab/retrieval"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	BlugeFilepath  string `envconfig:"BLUGE_FILEPATH" required:"true"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	topK := flag.Int("k", 6, "Number of evidence items to keep")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		log.Fatal("Usage: evidence [-k N] <query terms>")
	}

	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open evidence store: %v", err)
	}
	defer db.Close()

	ranker, err := retrieval.NewRanker()
	if err != nil {
		log.Fatalf("Failed to build ranker: %v", err)
	}
	engine := search.NewEngine(config.BlugeFilepath, db, logger)
	searcher := retrieval.NewSearcher(engine, ranker, logger)

	items, err := searcher.Search(context.Background(), query, *topK)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Source", "Category", "Score", "Text"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, item := range retrieval.Snippets(items) {
		score := "-"
		if item.Score != nil {
			score = fmt.Sprintf("%.3f", *item.Score)
		}
		table.Append([]string{item.Source(), item.Category, score, item.Text})
	}
	table.Render()
}
