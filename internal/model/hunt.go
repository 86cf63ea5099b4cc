package model

import "time"

// Category describes what kind of entity a hunt targets. It decides which
// role keywords the query planner anchors on.
type Category string

const (
	CategoryProject  Category = "Project"
	CategoryVC       Category = "VC"
	CategoryExchange Category = "Exchange"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryProject, CategoryVC, CategoryExchange:
		return true
	}
	return false
}

// Fingerprints is the canonical identity pair detected from free-text clues.
// Empty string means "not detected". Created once per run and immutable
// afterward.
type Fingerprints struct {
	Handle string `json:"handle,omitempty"`
	Domain string `json:"domain,omitempty"`
}

func (f Fingerprints) HasHandle() bool { return f.Handle != "" }
func (f Fingerprints) HasDomain() bool { return f.Domain != "" }

// Empty reports whether no fingerprint was detected at all. The planner
// falls back to generic name+industry queries in that case.
func (f Fingerprints) Empty() bool { return f.Handle == "" && f.Domain == "" }

// EvidenceItem is a single search hit. URL is the identity key: the merged
// result set of a run never contains two items with the same URL.
type EvidenceItem struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TeamMember is one extracted person. Link fields are nil when no URL from
// the evidence registry could be attached; they are never placeholder text.
type TeamMember struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	LinkedIn *string `json:"linkedin,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
}

// Contact is one official channel (telegram, email, docs page, ...).
type Contact struct {
	Type  string  `json:"type"`
	Value *string `json:"value,omitempty"`
	Note  string  `json:"note"`
}

// Report is the structured outcome of one hunt run. Team and Contacts keep
// the order the analyzer returned them in.
type Report struct {
	Project       string       `json:"project"`
	Category      Category     `json:"category"`
	Fingerprints  Fingerprints `json:"fingerprints"`
	Team          []TeamMember `json:"team"`
	Contacts      []Contact    `json:"contacts"`
	EvidenceCount int          `json:"evidence_count"`
}

type HuntStatus string

const (
	HuntStatusPending    HuntStatus = "pending"
	HuntStatusRunning    HuntStatus = "running"
	HuntStatusCompleted  HuntStatus = "completed"
	HuntStatusNoEvidence HuntStatus = "no_evidence"
	HuntStatusFailed     HuntStatus = "failed"
)

// Hunt is a persisted run: the request that started it, its lifecycle
// status and, once completed, the report.
type Hunt struct {
	ID          int64
	Project     string
	Category    Category
	WebsiteClue string
	TwitterClue string
	Status      HuntStatus
	Report      *Report
	Error       *string
	CreatedAt   time.Time
	FinishedAt  *time.Time
}

// HuntRequest is the input of one run. The clue fields are deliberately
// loose: either may hold a website, a social link, or garbage, and they may
// be swapped. The fingerprint extractor sorts that out.
type HuntRequest struct {
	Project     string   `json:"project"`
	Category    Category `json:"category"`
	WebsiteClue string   `json:"website_clue"`
	TwitterClue string   `json:"twitter_clue"`
}
