// Package hunt wires the pipeline end to end: fingerprint extraction,
// query planning, search execution, grounded analysis.
package hunt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Yy2z/crypto-hunter/common/logger"
	"github.com/Yy2z/crypto-hunter/core/config"
	"github.com/Yy2z/crypto-hunter/internal/analyzer"
	"github.com/Yy2z/crypto-hunter/internal/fingerprint"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/planner"
	"github.com/Yy2z/crypto-hunter/internal/search"
)

var (
	// ErrNoEvidence means the search batch produced nothing after
	// filtering. It is a defined empty-result state, not a failure: the
	// analyzer is never invoked and callers report it distinctly.
	ErrNoEvidence = errors.New("no evidence found")

	// ErrMissingProject rejects a run before any work is attempted.
	ErrMissingProject = errors.New("project name is required")

	// ErrInvalidCategory rejects an unknown target category.
	ErrInvalidCategory = errors.New("invalid category")
)

type Service struct {
	executor      *search.Executor
	analyzer      *analyzer.Analyzer
	perQueryLimit int
}

func NewService(executor *search.Executor, a *analyzer.Analyzer, cfg config.HuntConfig) *Service {
	limit := cfg.PerQueryLimit
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		executor:      executor,
		analyzer:      a,
		perQueryLimit: limit,
	}
}

// Run executes one hunt synchronously. Queries run strictly sequentially;
// each invocation is stateless and independent of previous runs.
func (s *Service) Run(ctx context.Context, req model.HuntRequest) (*model.Report, error) {
	project := strings.TrimSpace(req.Project)
	if project == "" {
		return nil, ErrMissingProject
	}

	category := req.Category
	if category == "" {
		category = model.CategoryProject
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Project:   logger.Ptr(project),
		Component: "hunter.hunt",
	})

	start := time.Now()

	fps := fingerprint.Extract(req.WebsiteClue, req.TwitterClue)
	if fps.Empty() {
		slog.InfoContext(ctx, "no fingerprints detected, using generic search mode")
	} else {
		slog.InfoContext(ctx, "fingerprints detected",
			"handle", fps.Handle,
			"domain", fps.Domain)
	}

	queries := planner.Plan(project, category, fps)

	evidence := s.executor.Run(ctx, queries, s.perQueryLimit)
	if len(evidence) == 0 {
		slog.InfoContext(ctx, "hunt ended with no evidence",
			"queries", len(queries),
			"latency_ms", time.Since(start).Milliseconds())
		return nil, ErrNoEvidence
	}

	report, err := s.analyzer.Analyze(ctx, project, evidence, fps)
	if err != nil {
		return nil, fmt.Errorf("hunt %q: %w", project, err)
	}

	report.Project = project
	report.Category = category
	report.Fingerprints = fps
	report.EvidenceCount = len(evidence)

	slog.InfoContext(ctx, "hunt completed",
		"evidence", len(evidence),
		"team_members", len(report.Team),
		"contacts", len(report.Contacts),
		"latency_ms", time.Since(start).Milliseconds())

	return report, nil
}
