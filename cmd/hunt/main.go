// One-shot CLI: run a single hunt without the server or worker and print
// the report to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/Yy2z/crypto-hunter/common/llm"
	"github.com/Yy2z/crypto-hunter/core/config"
	"github.com/Yy2z/crypto-hunter/internal/analyzer"
	"github.com/Yy2z/crypto-hunter/internal/export"
	"github.com/Yy2z/crypto-hunter/internal/hunt"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/search"
	"github.com/joho/godotenv"
)

func main() {
	var (
		project  = flag.String("project", "", "project name (required)")
		category = flag.String("category", "Project", "target category: Project, VC or Exchange")
		website  = flag.String("website", "", "website clue (may also hold a social link)")
		twitter  = flag.String("twitter", "", "twitter clue (may also hold a website)")
		asCSV    = flag.Bool("csv", false, "print the report as CSV instead of JSON")
	)
	flag.Parse()

	if *project == "" {
		fmt.Fprintln(os.Stderr, "-project is required")
		flag.Usage()
		os.Exit(2)
	}

	// Load .env file (ignore error if not found)
	_ = godotenv.Load()

	ctx := context.Background()

	searchKey := os.Getenv("TAVILY_API_KEY")
	if searchKey == "" {
		fmt.Fprintln(os.Stderr, "TAVILY_API_KEY is required")
		os.Exit(1)
	}
	llmKey := os.Getenv("ANALYZER_LLM_API_KEY")
	if llmKey == "" {
		llmKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if llmKey == "" {
		fmt.Fprintln(os.Stderr, "ANALYZER_LLM_API_KEY (or DEEPSEEK_API_KEY) is required")
		os.Exit(1)
	}

	llmClient, err := llm.New(llm.Config{
		APIKey:  llmKey,
		BaseURL: getEnv("ANALYZER_LLM_BASE_URL", "https://api.deepseek.com"),
		Model:   getEnv("ANALYZER_LLM_MODEL", "deepseek-chat"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create LLM client: %v\n", err)
		os.Exit(1)
	}

	svc := hunt.NewService(
		search.NewExecutor(search.NewTavilyClient(config.SearchConfig{
			APIKey:  searchKey,
			BaseURL: getEnv("TAVILY_BASE_URL", "https://api.tavily.com"),
		})),
		analyzer.New(llmClient),
		config.HuntConfig{PerQueryLimit: 5},
	)

	report, err := svc.Run(ctx, model.HuntRequest{
		Project:     *project,
		Category:    model.Category(*category),
		WebsiteClue: *website,
		TwitterClue: *twitter,
	})
	if err != nil {
		if errors.Is(err, hunt.ErrNoEvidence) {
			fmt.Fprintln(os.Stderr, "No usable evidence found. Try adding a website or twitter clue.")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Hunt failed: %v\n", err)
		os.Exit(1)
	}

	if *asCSV {
		data, err := export.CSV(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render CSV: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode report: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
