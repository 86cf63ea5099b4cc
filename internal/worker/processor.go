package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Yy2z/crypto-hunter/common/logger"
	"github.com/Yy2z/crypto-hunter/internal/hunt"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/Yy2z/crypto-hunter/internal/queue"
	"github.com/Yy2z/crypto-hunter/internal/store"
)

// HuntProcessor loads a queued hunt, runs the pipeline and records the
// terminal status.
type HuntProcessor struct {
	hunts   *store.HuntStore
	service *hunt.Service
}

func NewHuntProcessor(hunts *store.HuntStore, service *hunt.Service) *HuntProcessor {
	return &HuntProcessor{hunts: hunts, service: service}
}

func (p *HuntProcessor) Process(ctx context.Context, msg queue.Message) error {
	run, err := p.hunts.GetByID(ctx, msg.HuntID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Nothing to run against; ack and move on.
			slog.WarnContext(ctx, "hunt not found, dropping message")
			return nil
		}
		return fmt.Errorf("loading hunt: %w", err)
	}

	if run.Status != model.HuntStatusPending {
		// Redelivered message for a hunt another consumer already handled.
		slog.InfoContext(ctx, "hunt not pending, skipping", "status", run.Status)
		return nil
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{Project: logger.Ptr(run.Project)})

	if err := p.hunts.MarkRunning(ctx, run.ID); err != nil {
		return fmt.Errorf("marking hunt running: %w", err)
	}

	report, runErr := p.service.Run(ctx, model.HuntRequest{
		Project:     run.Project,
		Category:    run.Category,
		WebsiteClue: run.WebsiteClue,
		TwitterClue: run.TwitterClue,
	})

	switch {
	case runErr == nil:
		if err := p.hunts.Finish(ctx, run.ID, model.HuntStatusCompleted, report, nil); err != nil {
			return fmt.Errorf("finishing hunt: %w", err)
		}
		slog.InfoContext(ctx, "hunt completed",
			"team_members", len(report.Team),
			"contacts", len(report.Contacts),
			"evidence_count", report.EvidenceCount)
		return nil

	case errors.Is(runErr, hunt.ErrNoEvidence):
		// A legitimate terminal outcome, not a failure.
		if err := p.hunts.Finish(ctx, run.ID, model.HuntStatusNoEvidence, nil, nil); err != nil {
			return fmt.Errorf("finishing hunt: %w", err)
		}
		slog.InfoContext(ctx, "hunt finished without evidence")
		return nil

	default:
		errMsg := runErr.Error()
		if err := p.hunts.Finish(ctx, run.ID, model.HuntStatusFailed, nil, &errMsg); err != nil {
			slog.ErrorContext(ctx, "failed to record hunt failure", "error", err)
		}
		return fmt.Errorf("running hunt: %w", runErr)
	}
}
