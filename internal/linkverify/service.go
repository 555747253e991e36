package linkverify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sanzoku-labs/linkcheck/internal/docs"
	"github.com/sanzoku-labs/linkcheck/internal/logfields"
	"github.com/sanzoku-labs/linkcheck/internal/markdown"
	"github.com/sanzoku-labs/linkcheck/internal/util/sets"
)

// Options configures one scan.
type Options struct {
	DocsRoot     string
	SkipExternal bool
	Timeout      time.Duration // Per-request bound for external probes
	Workers      int           // Concurrent external probes
}

// Service runs the full validation pass over a docs tree. A service is
// scoped to one run; watch mode builds a fresh one per rerun so the URL
// cache never leaks between scans.
type Service struct {
	opts Options
	now  func() time.Time
}

// NewService creates a service for one scan of the configured docs root.
func NewService(opts Options) *Service {
	return &Service{opts: opts, now: time.Now}
}

// occurrence tracks one extracted link through the two resolution phases.
// Internal targets resolve inline; external ones get their finding slot
// filled after the probe phase, so report order stays scan order.
type occurrence struct {
	file    *docs.DocFile
	link    markdown.Link
	url     string   // set when the target is external
	finding *Finding // set when resolution produced a failure
}

// Run executes discovery, indexing, resolution, and external probing, then
// assembles the result. The anchor index is fully built before any link is
// resolved, so forward references between files hold regardless of scan
// order. A canceled context aborts without a partial result.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	slog.Info("Starting link check",
		logfields.RunID(runID),
		logfields.DocsRoot(s.opts.DocsRoot))

	files, err := docs.NewDiscovery(s.opts.DocsRoot).Discover()
	if err != nil {
		return nil, err
	}

	for i := range files {
		if err := files[i].LoadContent(); err != nil {
			slog.Warn("Skipping unreadable file",
				logfields.Path(files[i].Path),
				logfields.Error(err))
		}
	}

	index := BuildAnchorIndex(files)
	resolver := NewResolver(s.opts.DocsRoot, index)

	var occurrences []occurrence
	for i := range files {
		f := &files[i]
		if f.Content == nil {
			continue
		}

		links := markdown.ExtractLinks(f.Content)
		slog.Debug("Checking file",
			logfields.Index(i+1),
			logfields.Total(len(files)),
			logfields.File(f.RelativePath),
			logfields.Count(len(links)))

		for _, link := range links {
			occ := occurrence{file: f, link: link}
			if IsExternal(link.Destination) {
				occ.url = link.Destination
			} else {
				occ.finding = resolver.CheckInternal(f, link)
			}
			occurrences = append(occurrences, occ)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if !s.opts.SkipExternal {
		if err := s.checkExternal(ctx, occurrences); err != nil {
			return nil, err
		}
	}

	result := &Result{
		RunID:       runID,
		DocsRoot:    s.opts.DocsRoot,
		DocsHash:    docs.ComputeDocsHash(files),
		GeneratedAt: s.now(),
		TotalFiles:  len(files),
		Findings:    make([]Finding, 0),
	}
	for i := range occurrences {
		if occurrences[i].finding != nil {
			result.Findings = append(result.Findings, *occurrences[i].finding)
		}
	}

	summary := result.Summarize()
	slog.Info("Link check finished",
		logfields.RunID(runID),
		logfields.Total(summary.TotalFiles),
		logfields.Count(summary.TotalFindings))

	return result, nil
}

// checkExternal probes every unique external URL once and materializes
// findings for failing occurrences. The first occurrence of a failing URL
// carries the probe's explanation; repeats carry a cached-result note.
func (s *Service) checkExternal(ctx context.Context, occurrences []occurrence) error {
	seen := sets.New[string]()
	var urls []string
	for i := range occurrences {
		if u := occurrences[i].url; u != "" && !seen.Has(u) {
			seen.Add(u)
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return nil
	}

	slog.Info("Checking external URLs", logfields.Count(len(urls)))

	checker := NewExternalChecker(s.opts.Timeout, s.opts.Workers)
	results, err := checker.CheckAll(ctx, urls)
	if err != nil {
		return err
	}

	reported := sets.New[string]()
	for i := range occurrences {
		occ := &occurrences[i]
		if occ.url == "" {
			continue
		}
		res := results[occ.url]
		if res.OK {
			continue
		}

		msg := res.Detail
		if reported.Has(occ.url) {
			msg = "URL not accessible (cached result)"
		}
		reported.Add(occ.url)

		occ.finding = &Finding{
			Kind:    KindExternal,
			File:    occ.file.RelativePath,
			Link:    occ.link.Destination,
			Text:    occ.link.Text,
			Message: msg,
		}
	}
	return nil
}
