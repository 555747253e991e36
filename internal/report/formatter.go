package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sanzoku-labs/linkcheck/internal/linkverify"
)

// Formatter renders a scan result for output.
type Formatter interface {
	Format(w io.Writer, result *linkverify.Result) error
}

// timestampLayout is the generation-time format in report headers.
const timestampLayout = "2006-01-02 15:04:05"

// Markdown renders the canonical report document: a title, the generation
// timestamp, a summary block, one section per finding kind, and a per-file
// breakdown. The output is deterministic for a given result.
func Markdown(result *linkverify.Result) string {
	s := result.Summarize()

	var lines []string
	lines = append(lines,
		"# Dead Link Detection Report",
		"Generated: "+result.GeneratedAt.Format(timestampLayout),
		"",
		"## Summary",
		fmt.Sprintf("- **Total files scanned**: %d", s.TotalFiles),
		fmt.Sprintf("- **Files with issues**: %d", s.FilesWithIssues),
		fmt.Sprintf("- **Total dead links**: %d", s.TotalFindings),
		fmt.Sprintf("- **Missing files**: %d", s.MissingFiles),
		fmt.Sprintf("- **Invalid anchors**: %d", s.MissingAnchors),
		fmt.Sprintf("- **External link errors**: %d", s.ExternalErrors),
		"",
	)

	sections := []struct {
		title string
		kind  linkverify.FindingKind
	}{
		{"Missing Files", linkverify.KindMissingFile},
		{"Invalid Anchors", linkverify.KindMissingAnchor},
		{"External Link Errors", linkverify.KindExternal},
	}
	for _, sec := range sections {
		findings := result.FindingsByKind(sec.kind)
		if len(findings) == 0 {
			continue
		}
		lines = append(lines, "## "+sec.title)
		for _, f := range findings {
			lines = append(lines, fmt.Sprintf("- **%s**: `%s` - %s", f.File, f.Link, f.Message))
		}
		lines = append(lines, "")
	}

	if groups := result.FileBreakdown(); len(groups) > 0 {
		lines = append(lines, "## File-by-File Breakdown")
		for _, g := range groups {
			lines = append(lines, "### "+g.File)
			for _, f := range g.Findings {
				lines = append(lines, fmt.Sprintf("- `%s` (%s): %s", f.Link, f.Kind, f.Message))
			}
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// MarkdownFormatter renders the canonical markdown report.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the markdown report to w.
func (f *MarkdownFormatter) Format(w io.Writer, result *linkverify.Result) error {
	_, err := io.WriteString(w, Markdown(result))
	return err
}

// JSONFormatter renders results as machine-readable JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// JSONOutput is the top-level JSON report structure.
type JSONOutput struct {
	RunID       string                    `json:"run_id"`
	DocsRoot    string                    `json:"docs_root"`
	DocsHash    string                    `json:"docs_hash"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     linkverify.Summary        `json:"summary"`
	Findings    []linkverify.Finding      `json:"findings"`
	Files       []linkverify.FileFindings `json:"files"`
}

// Format writes the JSON report to w.
func (f *JSONFormatter) Format(w io.Writer, result *linkverify.Result) error {
	output := JSONOutput{
		RunID:       result.RunID,
		DocsRoot:    result.DocsRoot,
		DocsHash:    result.DocsHash,
		GeneratedAt: result.GeneratedAt,
		Summary:     result.Summarize(),
		Findings:    result.Findings,
		Files:       result.FileBreakdown(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the formatter for a format name. Unknown names fall
// back to markdown.
func NewFormatter(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	case "html":
		return NewHTMLFormatter()
	default:
		return NewMarkdownFormatter()
	}
}
