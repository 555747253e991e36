package linkverify

import (
	"github.com/sanzoku-labs/linkcheck/internal/docs"
	"github.com/sanzoku-labs/linkcheck/internal/markdown"
	"github.com/sanzoku-labs/linkcheck/internal/util/sets"
)

// AnchorIndex maps a file's site path (root-relative, slash-separated,
// markdown extension stripped) to the set of anchor slugs it defines.
// Key presence doubles as the existence test for markdown link targets,
// so resolution does not depend on scan order.
//
// A nil slug set marks a file that exists on disk but whose content could
// not be read; anchor lookups against it are skipped rather than reported.
type AnchorIndex map[string]sets.Set[string]

// BuildAnchorIndex indexes every discovered file. Contents must already be
// loaded; files with nil content register with a nil slug set.
func BuildAnchorIndex(files []docs.DocFile) AnchorIndex {
	idx := make(AnchorIndex, len(files))
	for i := range files {
		f := &files[i]
		if f.Content == nil {
			idx[f.SitePath()] = nil
			continue
		}
		idx[f.SitePath()] = markdown.HeadingSlugs(f.Content)
	}
	return idx
}
