// Package report turns the Architect's Markdown into HTML and inspects its
// shape. Inspection never rejects a report.
package report

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Render converts Markdown to HTML. Raw HTML in the input is dropped.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Structure describes which of the requested formatting elements a report
// contains.
type Structure struct {
	HasTable          bool `json:"has_table"`
	HasBoldHeader     bool `json:"has_bold_header"`
	HasLogisticsAlert bool `json:"has_logistics_alert"`
	TableRows         int  `json:"table_rows"`
}

var (
	tableRowRe  = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	separatorRe = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)
	boldRe      = regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__`)
)

func Inspect(markdown string) Structure {
	var s Structure
	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case separatorRe.MatchString(line):
			s.HasTable = true
		case tableRowRe.MatchString(line):
			s.TableRows++
		}
	}
	if s.TableRows == 0 {
		s.HasTable = false
	}
	s.HasBoldHeader = boldRe.MatchString(markdown)
	s.HasLogisticsAlert = strings.Contains(strings.ToLower(markdown), "logistics alert")
	return s
}

// Missing lists the elements a report lacks, for logging.
func (s Structure) Missing() []string {
	var missing []string
	if !s.HasTable {
		missing = append(missing, "table")
	}
	if !s.HasBoldHeader {
		missing = append(missing, "bold header")
	}
	if !s.HasLogisticsAlert {
		missing = append(missing, "logistics alert")
	}
	return missing
}
