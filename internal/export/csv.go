// Package export renders hunt reports into downloadable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/Yy2z/crypto-hunter/internal/model"
)

var csvHeader = []string{"Type", "Name", "Role/Desc", "Link"}

// CSV flattens a report into a two-section CSV: one "Person" row per
// team member, then one "Channel" row per contact method.
func CSV(report *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, m := range report.Team {
		link := firstLink(m.LinkedIn, m.Twitter)
		if err := w.Write([]string{"Person", m.Name, m.Role, link}); err != nil {
			return nil, fmt.Errorf("write person row: %w", err)
		}
	}

	for _, c := range report.Contacts {
		value := ""
		if c.Value != nil {
			value = *c.Value
		}
		if err := w.Write([]string{"Channel", c.Type, c.Note, value}); err != nil {
			return nil, fmt.Errorf("write channel row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName builds the download name for a project's report.
func FileName(project string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(project), " ", "_")
	return fmt.Sprintf("%s_hunter_report.csv", slug)
}

func firstLink(links ...*string) string {
	for _, l := range links {
		if l != nil && *l != "" {
			return *l
		}
	}
	return ""
}
