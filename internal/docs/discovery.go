package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/sanzoku-labs/linkcheck/internal/docs/errors"
	"github.com/sanzoku-labs/linkcheck/internal/logfields"
)

// DocFile represents a discovered documentation file
type DocFile struct {
	Path         string // Absolute path to the file
	RelativePath string // Slash-separated path relative to the docs root
	Name         string // File name without extension
	Extension    string // File extension
	Content      []byte // File content (loaded on demand)
}

// Discovery handles documentation file discovery under a single docs root
type Discovery struct {
	root string
}

// NewDiscovery creates a new documentation discovery instance
func NewDiscovery(root string) *Discovery {
	return &Discovery{root: root}
}

// Root returns the docs root this discovery scans.
func (d *Discovery) Root() string {
	return d.root
}

// Discover finds all markdown files under the docs root.
// filepath.WalkDir visits entries in lexical order, so the returned slice
// is stable between runs over an unchanged tree.
func (d *Discovery) Discover() ([]DocFile, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", derrors.ErrDocsRootNotFound, d.root)
		}
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsRootNotFound, d.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", derrors.ErrDocsRootNotFound, d.root)
	}

	var files []DocFile

	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !isMarkdownFile(entry.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(d.root, path)
		if err != nil {
			return fmt.Errorf("%w: %w", derrors.ErrInvalidRelativePath, err)
		}

		docFile := DocFile{
			Path:         path,
			RelativePath: filepath.ToSlash(relPath),
			Name:         strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Extension:    filepath.Ext(entry.Name()),
		}
		files = append(files, docFile)

		slog.Debug("Discovered file", logfields.File(docFile.RelativePath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDocsWalkFailed, d.root, err)
	}

	slog.Info("Documentation files discovered", logfields.DocsRoot(d.root), logfields.Count(len(files)))
	return files, nil
}

// LoadContent loads the content of a documentation file
func (df *DocFile) LoadContent() error {
	if df.Content != nil {
		return nil // Already loaded
	}

	content, err := os.ReadFile(df.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, df.Path, err)
	}

	df.Content = content
	return nil
}

// SitePath returns the URL-style path this file is addressed by in a rendered
// site: root-relative, slash-separated, with the markdown extension stripped.
// guide/setup.md becomes guide/setup.
func (df *DocFile) SitePath() string {
	return strings.TrimSuffix(df.RelativePath, df.Extension)
}

// isMarkdownFile checks if a file is a markdown file
func isMarkdownFile(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".md"
}
