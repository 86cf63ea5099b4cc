// Package analyzer turns raw search evidence into a structured team and
// contacts roster. Every extracted link must come from a registry of real
// evidence URLs built here; the reasoning backend is never allowed to
// invent one.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Yy2z/crypto-hunter/common/llm"
	"github.com/Yy2z/crypto-hunter/internal/model"
)

// ExtractionResponse is the schema the reasoning backend must produce.
type ExtractionResponse struct {
	Team     []TeamMemberItem `json:"team" jsonschema_description:"Verified team members of the target project"`
	Contacts []ContactItem    `json:"contacts" jsonschema_description:"Official contact channels of the target project"`
}

type TeamMemberItem struct {
	Name     string `json:"name" jsonschema_description:"Person's full name"`
	Role     string `json:"role" jsonschema_description:"Role or title at the project"`
	LinkedIn string `json:"linkedin" jsonschema_description:"LinkedIn profile URL from the registry, or N/A"`
	Twitter  string `json:"twitter" jsonschema_description:"Twitter/X profile URL from the registry, or N/A"`
}

type ContactItem struct {
	Type  string `json:"type" jsonschema_description:"Channel type, e.g. Telegram, Email, Website"`
	Value string `json:"value" jsonschema_description:"Channel URL or address, or N/A"`
	Note  string `json:"note" jsonschema_description:"Short note on what the channel is for"`
}

var extractionSchema = llm.GenerateSchema[ExtractionResponse]()

// registryMarkers decide which evidence URLs are eligible link targets.
// Only social/professional-network profiles go into the registry.
var registryMarkers = []string{"linkedin.com", "x.com"}

// contentBudget caps how much of each result's snippet is fed to the
// reasoning backend.
const contentBudget = 800

type Analyzer struct {
	llm llm.Client
}

func New(client llm.Client) *Analyzer {
	return &Analyzer{llm: client}
}

// Analyze builds the grounded extraction prompt from the evidence list and
// asks the reasoning backend for the structured roster. One attempt, no
// retry: a transport or parse failure is fatal to the current run and is
// surfaced to the caller.
//
// Link fields in the returned report are normalized: placeholders collapse
// to nil, scheme-less values get an https:// prefix.
func (a *Analyzer) Analyze(ctx context.Context, projectName string, evidence []model.EvidenceItem, fps model.Fingerprints) (*model.Report, error) {
	prompt := buildPrompt(projectName, evidence, fps)

	var response ExtractionResponse
	start := time.Now()
	_, err := a.llm.Chat(ctx, llm.Request{
		SystemPrompt: analyzerSystemPrompt,
		UserPrompt:   prompt,
		SchemaName:   "extraction_result",
		Schema:       extractionSchema,
		Temperature:  llm.Temp(0.1), // low variance for consistent extraction
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("extraction analysis: %w", err)
	}

	report := toReport(response)

	slog.InfoContext(ctx, "analysis completed",
		"team_members", len(report.Team),
		"contacts", len(report.Contacts),
		"latency_ms", time.Since(start).Milliseconds())

	return report, nil
}

// buildPrompt composes the registry of citable URLs, the truncated content
// feed, and the extraction rules into a single request.
func buildPrompt(projectName string, evidence []model.EvidenceItem, fps model.Fingerprints) string {
	var registry []string
	var feed []string

	for idx, r := range evidence {
		sourceID := fmt.Sprintf("S%d", idx+1)

		if inRegistry(r.URL) {
			registry = append(registry, fmt.Sprintf("[%s] %s (Title: %s)", sourceID, r.URL, r.Title))
		}

		feed = append(feed, fmt.Sprintf("Source [%s]\nURL: %s\nContent: %s\n---", sourceID, r.URL, truncate(r.Content, contentBudget)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Target Project: %q\n", projectName)
	sb.WriteString("Context: Crypto/Web3 Industry.\n")
	fmt.Fprintf(&sb, "Detected Fingerprints: handle=%q domain=%q\n\n", fps.Handle, fps.Domain)

	sb.WriteString(`TASK: Extract verified Team Members and Official Contacts.

CRITICAL RULES:
1. NO STEAKHOUSES: If the content is about food/restaurants (e.g. "Fogo de Chao"), IGNORE IT.
2. LINK MATCHING: You MUST try to find a URL from the "URL REGISTRY" for every person.
   - If you see "Stephen Chen" in Source S1, and S1's URL is a LinkedIn profile, USE IT.
   - Do NOT output "LinkedIn Profile" as text. Output the actual URL or "N/A".
   - Never invent a URL that is not in the registry.
3. RECALL: If you find a person but no link, list them anyway.

URL REGISTRY (Pick links from here):
`)
	sb.WriteString(strings.Join(registry, "\n"))
	sb.WriteString("\n\nSEARCH CONTENT:\n")
	sb.WriteString(strings.Join(feed, "\n"))

	return sb.String()
}

const analyzerSystemPrompt = "You are a JSON extractor. Output valid JSON only."

func inRegistry(url string) bool {
	for _, marker := range registryMarkers {
		if strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most maxLen bytes without splitting a rune, so
// multi-byte snippets stay valid UTF-8 in the prompt.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// toReport coerces the backend's payload defensively: missing keys become
// empty sequences, link fields are normalized.
func toReport(response ExtractionResponse) *model.Report {
	team := make([]model.TeamMember, 0, len(response.Team))
	for _, t := range response.Team {
		team = append(team, model.TeamMember{
			Name:     t.Name,
			Role:     t.Role,
			LinkedIn: NormalizeURL(t.LinkedIn),
			Twitter:  NormalizeURL(t.Twitter),
		})
	}

	contacts := make([]model.Contact, 0, len(response.Contacts))
	for _, c := range response.Contacts {
		contacts = append(contacts, model.Contact{
			Type:  c.Type,
			Value: NormalizeURL(c.Value),
			Note:  c.Note,
		})
	}

	return &model.Report{Team: team, Contacts: contacts}
}
