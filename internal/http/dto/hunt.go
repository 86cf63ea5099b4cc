package dto

import (
	"time"

	"github.com/Yy2z/crypto-hunter/internal/model"
)

// CreateHuntRequest starts an asynchronous hunt. Category defaults to
// Project when omitted. The clue fields are free text and may be swapped.
type CreateHuntRequest struct {
	Project     string         `json:"project" binding:"required"`
	Category    model.Category `json:"category"`
	WebsiteClue string         `json:"website_clue"`
	TwitterClue string         `json:"twitter_clue"`
}

type CreateHuntResponse struct {
	HuntID int64            `json:"hunt_id"`
	Status model.HuntStatus `json:"status"`
}

type HuntResponse struct {
	HuntID     int64            `json:"hunt_id"`
	Project    string           `json:"project"`
	Category   model.Category   `json:"category"`
	Status     model.HuntStatus `json:"status"`
	Report     *model.Report    `json:"report,omitempty"`
	Error      *string          `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}

func ToHuntResponse(hunt *model.Hunt) HuntResponse {
	return HuntResponse{
		HuntID:     hunt.ID,
		Project:    hunt.Project,
		Category:   hunt.Category,
		Status:     hunt.Status,
		Report:     hunt.Report,
		Error:      hunt.Error,
		CreatedAt:  hunt.CreatedAt,
		FinishedAt: hunt.FinishedAt,
	}
}

type ListHuntsResponse struct {
	Hunts []HuntResponse `json:"hunts"`
}
