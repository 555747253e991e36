package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// ComputeDocsHash computes a deterministic hash for a set of documentation files.
// The hash covers file paths and content hashes, so it changes whenever a file
// is added, removed, renamed, or edited. Watch mode compares hashes between
// runs to tell real edits apart from spurious filesystem events.
func ComputeDocsHash(docFiles []DocFile) string {
	if len(docFiles) == 0 {
		// Empty set has a known hash
		h := sha256.Sum256([]byte("empty-docs-set"))
		return hex.EncodeToString(h[:])
	}

	type entry struct {
		relativePath string
		contentHash  string
	}

	entries := make([]entry, 0, len(docFiles))
	for _, df := range docFiles {
		contentHash := ""
		if len(df.Content) > 0 {
			h := sha256.Sum256(df.Content)
			contentHash = hex.EncodeToString(h[:])
		}
		entries = append(entries, entry{relativePath: df.RelativePath, contentHash: contentHash})
	}

	// Sort for deterministic ordering regardless of discovery order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].relativePath < entries[j].relativePath
	})

	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s|%s\n", e.relativePath, e.contentHash)
	}

	return hex.EncodeToString(h.Sum(nil))
}
