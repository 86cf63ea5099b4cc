package search

import (
	"context"

	"github.com/Yy2z/crypto-hunter/internal/model"
)

// Client is the external search capability. Implementations request
// maximum search depth and no synthesized answer text; only raw ranked
// results come back.
type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.EvidenceItem, error)
}
