package linkverify

import (
	"time"

	"github.com/sanzoku-labs/linkcheck/internal/util/sets"
)

// FindingKind classifies a validation failure. The values double as the
// short labels printed in report breakdowns.
type FindingKind string

const (
	// KindMissingFile marks a link whose target file does not exist.
	KindMissingFile FindingKind = "file"
	// KindMissingAnchor marks a link whose target file exists but defines
	// no matching anchor slug.
	KindMissingAnchor FindingKind = "anchor"
	// KindExternal marks an external URL that failed its reachability probe.
	KindExternal FindingKind = "external"
)

// Finding is one recorded validation failure.
type Finding struct {
	Kind FindingKind `json:"type"`
	File string      `json:"file"` // Source file, relative to the docs root
	Link string      `json:"link"` // Raw link target as written
	Text string      `json:"text"` // Visible link text
	// Message is the human-readable explanation rendered in reports.
	Message string `json:"error"`
}

// Result is the outcome of one full scan over a docs tree.
type Result struct {
	RunID       string    `json:"run_id"`
	DocsRoot    string    `json:"docs_root"`
	DocsHash    string    `json:"docs_hash"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalFiles  int       `json:"total_files"`
	// Findings are ordered by scan position: files in discovery order,
	// links in file order. Two runs over an unchanged tree produce the
	// same sequence.
	Findings []Finding `json:"findings"`
}

// Summary holds the aggregate counts rendered at the top of a report.
type Summary struct {
	TotalFiles      int `json:"total_files"`
	FilesWithIssues int `json:"files_with_issues"`
	TotalFindings   int `json:"total_findings"`
	MissingFiles    int `json:"missing_files"`
	MissingAnchors  int `json:"missing_anchors"`
	ExternalErrors  int `json:"external_errors"`
}

// HasFindings reports whether the scan recorded at least one failure.
func (r *Result) HasFindings() bool {
	return len(r.Findings) > 0
}

// Summarize computes the aggregate counts for this result.
func (r *Result) Summarize() Summary {
	s := Summary{TotalFiles: r.TotalFiles, TotalFindings: len(r.Findings)}
	files := sets.New[string]()
	for _, f := range r.Findings {
		files.Add(f.File)
		switch f.Kind {
		case KindMissingFile:
			s.MissingFiles++
		case KindMissingAnchor:
			s.MissingAnchors++
		case KindExternal:
			s.ExternalErrors++
		}
	}
	s.FilesWithIssues = files.Len()
	return s
}

// FindingsByKind returns the findings of one kind, scan order preserved.
func (r *Result) FindingsByKind(kind FindingKind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// FileFindings groups the findings of a single source file.
type FileFindings struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// FileBreakdown groups findings by source file. Files appear in the order
// their first finding was recorded; findings keep their scan order within
// each file.
func (r *Result) FileBreakdown() []FileFindings {
	order := make(map[string]int)
	var out []FileFindings
	for _, f := range r.Findings {
		i, ok := order[f.File]
		if !ok {
			i = len(out)
			order[f.File] = i
			out = append(out, FileFindings{File: f.File})
		}
		out[i].Findings = append(out[i].Findings, f)
	}
	return out
}
