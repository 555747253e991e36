package linkverify

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sanzoku-labs/linkcheck/internal/docs"
	"github.com/sanzoku-labs/linkcheck/internal/logfields"
	"github.com/sanzoku-labs/linkcheck/internal/markdown"
)

// Resolver checks internal link targets against the docs tree.
type Resolver struct {
	root  string
	index AnchorIndex
}

// NewResolver creates a resolver for one docs root and its anchor index.
func NewResolver(root string, index AnchorIndex) *Resolver {
	return &Resolver{root: root, index: index}
}

// IsExternal reports whether a link target is an external URL.
func IsExternal(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// CheckInternal validates one internal link occurrence from file. It
// returns nil when the link is healthy, and also when the target exists
// but cannot be judged (an unreadable file is a logged skip, not a
// finding).
func (r *Resolver) CheckInternal(file *docs.DocFile, link markdown.Link) *Finding {
	target, anchor := splitAnchor(link.Destination)

	if target == "" {
		// Bare anchor into the current file. An empty fragment ("#")
		// addresses the page top and always resolves.
		if anchor == "" {
			return nil
		}
		slugs := r.index[file.SitePath()]
		if slugs == nil {
			return nil
		}
		if !slugs.Has(anchor) {
			return r.finding(KindMissingAnchor, file, link, fmt.Sprintf("Anchor #%s not found in file", anchor))
		}
		return nil
	}

	rel, abs := r.resolveTarget(file, target)

	// Markdown targets inside the tree resolve through the index.
	if strings.HasSuffix(rel, ".md") && !escapesRoot(rel) {
		if slugs, ok := r.index[strings.TrimSuffix(rel, ".md")]; ok {
			if anchor == "" {
				return nil
			}
			if slugs == nil {
				return nil
			}
			if !slugs.Has(anchor) {
				return r.finding(KindMissingAnchor, file, link, fmt.Sprintf("Anchor #%s not found in %s", anchor, rel))
			}
			return nil
		}
	}

	// Everything else (assets, directories, targets above the root, and
	// markdown files the walk never saw) is probed directly.
	if _, err := os.Stat(abs); err != nil {
		return r.finding(KindMissingFile, file, link, "File not found: "+displayPath(rel, abs))
	}

	if anchor != "" && strings.HasSuffix(rel, ".md") {
		content, err := os.ReadFile(abs)
		if err != nil {
			slog.Warn("Skipping anchor check, target unreadable",
				logfields.File(file.RelativePath),
				logfields.Link(link.Destination),
				logfields.Error(err))
			return nil
		}
		if !markdown.HeadingSlugs(content).Has(anchor) {
			return r.finding(KindMissingAnchor, file, link, fmt.Sprintf("Anchor #%s not found in %s", anchor, displayPath(rel, abs)))
		}
	}

	return nil
}

func (r *Resolver) finding(kind FindingKind, file *docs.DocFile, link markdown.Link, msg string) *Finding {
	return &Finding{
		Kind:    kind,
		File:    file.RelativePath,
		Link:    link.Destination,
		Text:    link.Text,
		Message: msg,
	}
}

// splitAnchor separates a link target into its path and anchor parts. The
// anchor is the segment between the first and second '#'; anything after a
// second '#' is discarded.
func splitAnchor(dest string) (target, anchor string) {
	parts := strings.Split(dest, "#")
	target = parts[0]
	if len(parts) > 1 {
		anchor = parts[1]
	}
	return target, anchor
}

// resolveTarget turns a raw path target into a root-relative slash path and
// a filesystem path. Extension inference runs before any existence test:
// a target with no extension and no trailing slash gains ".md", and a
// directory-style target (trailing slash) addresses that directory's
// index.md.
func (r *Resolver) resolveTarget(file *docs.DocFile, target string) (rel, abs string) {
	t := target
	if strings.HasSuffix(t, "/") {
		t += "index.md"
	} else if path.Ext(t) == "" {
		t += ".md"
	}

	if strings.HasPrefix(target, "/") {
		// Root-relative, VitePress style.
		rel = path.Clean(strings.TrimLeft(t, "/"))
	} else {
		rel = path.Clean(path.Join(path.Dir(file.RelativePath), t))
	}

	abs = filepath.Join(r.root, filepath.FromSlash(rel))
	return rel, abs
}

// escapesRoot reports whether a cleaned root-relative path climbs above the
// docs root.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../")
}

// displayPath picks the path shown in finding messages: the root-relative
// form for targets inside the tree, the filesystem form for targets that
// escaped it.
func displayPath(rel, abs string) string {
	if escapesRoot(rel) {
		return abs
	}
	return rel
}
