package linkverify

import (
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanzoku-labs/linkcheck/internal/docs"
	"github.com/sanzoku-labs/linkcheck/internal/markdown"
)

// writeTree materializes a docs tree in a temp dir from slash paths.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func buildResolver(t *testing.T, root string) *Resolver {
	t.Helper()
	files, err := docs.NewDiscovery(root).Discover()
	require.NoError(t, err)
	for i := range files {
		require.NoError(t, files[i].LoadContent())
	}
	return NewResolver(root, BuildAnchorIndex(files))
}

func srcFile(root, rel string) *docs.DocFile {
	return &docs.DocFile{
		Path:         filepath.Join(root, filepath.FromSlash(rel)),
		RelativePath: rel,
		Extension:    path.Ext(rel),
	}
}

func TestResolver_HealthyLinks(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":          "# Home\n",
		"guide/setup.md":    "# Setup\n\n## Getting Started (v2)\n",
		"guide/index.md":    "# Guide Index\n",
		"guide/advanced.md": "# Advanced\n",
		"img/logo.png":      "png-bytes",
	})
	r := buildResolver(t, root)
	index := srcFile(root, "index.md")
	advanced := srcFile(root, "guide/advanced.md")

	cases := []struct {
		name string
		file *docs.DocFile
		dest string
	}{
		{"absolute no extension", index, "/guide/setup"},
		{"absolute with extension", index, "/guide/setup.md"},
		{"absolute with anchor", index, "/guide/setup#getting-started-v2"},
		{"directory link", index, "/guide/"},
		{"relative with anchor", advanced, "./setup#getting-started-v2"},
		{"relative without dot", advanced, "setup"},
		{"parent traversal", advanced, "../index"},
		{"same-file anchor", index, "#home"},
		{"empty fragment", index, "#"},
		{"file plus empty fragment", index, "/guide/setup#"},
		{"anchor after second hash ignored", index, "/guide/setup#getting-started-v2#extra"},
		{"asset target", index, "/img/logo.png"},
		{"anchor into asset skipped", index, "/img/logo.png#section"},
	}

	for _, tc := range cases {
		f := r.CheckInternal(tc.file, markdown.Link{Text: "x", Destination: tc.dest})
		require.Nil(t, f, "%s: %s should resolve", tc.name, tc.dest)
	}
}

func TestResolver_MissingFile(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md": "# Home\n",
	})
	r := buildResolver(t, root)
	index := srcFile(root, "index.md")

	f := r.CheckInternal(index, markdown.Link{Text: "x", Destination: "/nope"})
	require.NotNil(t, f)
	require.Equal(t, KindMissingFile, f.Kind)
	require.Equal(t, "index.md", f.File)
	require.Equal(t, "/nope", f.Link)
	require.Equal(t, "File not found: nope.md", f.Message)
}

func TestResolver_MissingDirectoryIndex(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md": "# Home\n",
	})
	r := buildResolver(t, root)

	f := r.CheckInternal(srcFile(root, "index.md"), markdown.Link{Text: "x", Destination: "/api/"})
	require.NotNil(t, f)
	require.Equal(t, KindMissingFile, f.Kind)
	require.Equal(t, "File not found: api/index.md", f.Message)
}

func TestResolver_MissingAnchor(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":       "# Home\n",
		"guide/setup.md": "# Setup\n",
	})
	r := buildResolver(t, root)
	index := srcFile(root, "index.md")

	f := r.CheckInternal(index, markdown.Link{Text: "x", Destination: "/guide/setup#not-a-real-anchor"})
	require.NotNil(t, f)
	require.Equal(t, KindMissingAnchor, f.Kind)
	require.Equal(t, "Anchor #not-a-real-anchor not found in guide/setup.md", f.Message)

	f = r.CheckInternal(index, markdown.Link{Text: "x", Destination: "#missing-here"})
	require.NotNil(t, f)
	require.Equal(t, KindMissingAnchor, f.Kind)
	require.Equal(t, "Anchor #missing-here not found in file", f.Message)
}

func TestResolver_MissingAssetKeepsExtension(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md": "# Home\n",
	})
	r := buildResolver(t, root)

	// Extension inference must not rewrite targets that already carry one.
	f := r.CheckInternal(srcFile(root, "index.md"), markdown.Link{Text: "x", Destination: "/img/missing.png"})
	require.NotNil(t, f)
	require.Equal(t, KindMissingFile, f.Kind)
	require.Equal(t, "File not found: img/missing.png", f.Message)
}

func TestResolver_ForwardReference(t *testing.T) {
	// aaa.md is scanned before zzz.md; the index is complete before any
	// resolution happens, so the forward reference holds.
	root := writeTree(t, map[string]string{
		"aaa.md": "# First\n",
		"zzz.md": "# Last\n\n## The End\n",
	})
	r := buildResolver(t, root)

	f := r.CheckInternal(srcFile(root, "aaa.md"), markdown.Link{Text: "z", Destination: "/zzz#the-end"})
	require.Nil(t, f)
}

func TestResolver_EscapedRootUsesFilesystem(t *testing.T) {
	root := writeTree(t, map[string]string{
		"guide/page.md": "# Page\n",
	})
	r := buildResolver(t, root)
	page := srcFile(root, "guide/page.md")

	f := r.CheckInternal(page, markdown.Link{Text: "x", Destination: "../../outside"})
	require.NotNil(t, f)
	require.Equal(t, KindMissingFile, f.Kind)
	wantPath := filepath.Join(filepath.Dir(root), "outside.md")
	require.Equal(t, "File not found: "+wantPath, f.Message)
}

func TestResolver_UnreadableAnchorTargetSkipped(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md": "# Home\n",
	})
	// A directory with a .md name: it exists, so the link is not dead, but
	// its anchors cannot be read. That is a skip, not a finding.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "weird.md"), 0o755))
	r := buildResolver(t, root)

	f := r.CheckInternal(srcFile(root, "index.md"), markdown.Link{Text: "x", Destination: "/weird.md#top"})
	require.Nil(t, f)
}
