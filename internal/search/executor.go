package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/Yy2z/crypto-hunter/common/logger"
	"github.com/Yy2z/crypto-hunter/internal/model"
)

// Executor runs planned queries strictly sequentially and merges their
// results: denylisted hits are dropped, URLs are deduplicated on first
// sight, and a failing query is skipped without aborting the batch.
type Executor struct {
	client Client
}

func NewExecutor(client Client) *Executor {
	return &Executor{client: client}
}

// Run returns the merged, filtered, deduplicated evidence list in
// first-seen order across queries. It never returns an error: per-query
// failures are logged and skipped, and an empty result is a normal state
// for the caller to interpret.
func (e *Executor) Run(ctx context.Context, queries []string, perQueryLimit int) []model.EvidenceItem {
	var merged []model.EvidenceItem
	seen := make(map[string]struct{})

	start := time.Now()
	for i, q := range queries {
		slog.InfoContext(ctx, "running search query",
			"query_index", i+1,
			"query_total", len(queries),
			"query", logger.Truncate(q, 200))

		results, err := e.client.Search(ctx, q, perQueryLimit)
		if err != nil {
			slog.WarnContext(ctx, "search query failed, skipping",
				"query", logger.Truncate(q, 200),
				"error", err)
			continue
		}

		for _, r := range results {
			if Denylisted(r.Title, r.Content) {
				slog.DebugContext(ctx, "dropping denylisted result", "url", r.URL)
				continue
			}
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			merged = append(merged, r)
		}
	}

	slog.InfoContext(ctx, "search batch completed",
		"queries", len(queries),
		"evidence", len(merged),
		"latency_ms", time.Since(start).Milliseconds())

	return merged
}
