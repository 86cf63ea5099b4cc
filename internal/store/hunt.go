package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Yy2z/crypto-hunter/core/db"
	"github.com/Yy2z/crypto-hunter/internal/model"
	"github.com/jackc/pgx/v5"
)

// HuntStore persists hunt runs. The report column is JSONB: the report is
// written once on completion and never updated in place.
type HuntStore struct {
	db *db.DB
}

func (s *HuntStore) Create(ctx context.Context, hunt *model.Hunt) error {
	row := s.db.Pool().QueryRow(ctx, `
		INSERT INTO hunts (id, project, category, website_clue, twitter_clue, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		hunt.ID, hunt.Project, hunt.Category, hunt.WebsiteClue, hunt.TwitterClue, hunt.Status,
	)
	if err := row.Scan(&hunt.CreatedAt); err != nil {
		return fmt.Errorf("insert hunt: %w", err)
	}
	return nil
}

func (s *HuntStore) MarkRunning(ctx context.Context, id int64) error {
	_, err := s.db.Pool().Exec(ctx,
		`UPDATE hunts SET status = $2 WHERE id = $1`,
		id, model.HuntStatusRunning,
	)
	return err
}

// Finish records the terminal state of a run. Report may be nil for the
// failed and no_evidence outcomes; errMsg is nil unless the run failed.
func (s *HuntStore) Finish(ctx context.Context, id int64, status model.HuntStatus, report *model.Report, errMsg *string) error {
	var reportJSON []byte
	if report != nil {
		var err error
		reportJSON, err = json.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
	}
	_, err := s.db.Pool().Exec(ctx, `
		UPDATE hunts
		SET status = $2, report = $3, error = $4, finished_at = now()
		WHERE id = $1`,
		id, status, reportJSON, errMsg,
	)
	return err
}

func (s *HuntStore) GetByID(ctx context.Context, id int64) (*model.Hunt, error) {
	row := s.db.Pool().QueryRow(ctx, `
		SELECT id, project, category, website_clue, twitter_clue, status,
		       report, error, created_at, finished_at
		FROM hunts WHERE id = $1`, id,
	)
	hunt, err := scanHunt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return hunt, nil
}

func (s *HuntStore) ListRecent(ctx context.Context, limit int32) ([]model.Hunt, error) {
	rows, err := s.db.Pool().Query(ctx, `
		SELECT id, project, category, website_clue, twitter_clue, status,
		       report, error, created_at, finished_at
		FROM hunts ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hunts := make([]model.Hunt, 0, limit)
	for rows.Next() {
		hunt, err := scanHunt(rows)
		if err != nil {
			return nil, err
		}
		hunts = append(hunts, *hunt)
	}
	return hunts, rows.Err()
}

func scanHunt(row pgx.Row) (*model.Hunt, error) {
	var (
		hunt       model.Hunt
		reportJSON []byte
		finishedAt *time.Time
	)
	err := row.Scan(
		&hunt.ID, &hunt.Project, &hunt.Category, &hunt.WebsiteClue, &hunt.TwitterClue,
		&hunt.Status, &reportJSON, &hunt.Error, &hunt.CreatedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}
	hunt.FinishedAt = finishedAt
	if len(reportJSON) > 0 {
		var report model.Report
		if err := json.Unmarshal(reportJSON, &report); err != nil {
			return nil, fmt.Errorf("unmarshal report for hunt %d: %w", hunt.ID, err)
		}
		hunt.Report = &report
	}
	return &hunt, nil
}
