package linkverify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	derrors "github.com/sanzoku-labs/linkcheck/internal/docs/errors"
)

func TestService_CleanTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.md":       "# Home\n\nSee [setup](/guide/setup#install) and [the guide](/guide/).\n",
		"guide/setup.md": "# Setup\n\n## Install\n\nBack to [home](../index.md).\n",
		"guide/index.md": "# Guide\n",
	})

	svc := NewService(Options{DocsRoot: root, SkipExternal: true})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.False(t, result.HasFindings())
	require.Equal(t, 3, result.TotalFiles)
	require.NotEmpty(t, result.RunID)
	require.Len(t, result.DocsHash, 64)
	require.Equal(t, root, result.DocsRoot)
}

func TestService_FindingsInScanOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md": "[one](/missing-one) and [anchor](/b#nope)\n",
		"b.md": "# B\n\n[two](/missing-two)\n",
	})

	svc := NewService(Options{DocsRoot: root, SkipExternal: true})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Findings, 3)
	require.Equal(t, KindMissingFile, result.Findings[0].Kind)
	require.Equal(t, "a.md", result.Findings[0].File)
	require.Equal(t, "/missing-one", result.Findings[0].Link)
	require.Equal(t, KindMissingAnchor, result.Findings[1].Kind)
	require.Equal(t, "Anchor #nope not found in b.md", result.Findings[1].Message)
	require.Equal(t, KindMissingFile, result.Findings[2].Kind)
	require.Equal(t, "b.md", result.Findings[2].File)
}

func TestService_MissingRootIsFatal(t *testing.T) {
	svc := NewService(Options{DocsRoot: filepath.Join(t.TempDir(), "absent"), SkipExternal: true})
	result, err := svc.Run(context.Background())
	require.Nil(t, result)
	require.True(t, errors.Is(err, derrors.ErrDocsRootNotFound))
}

func TestService_ExternalDeduplication(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	url := srv.URL + "/page"
	root := writeTree(t, map[string]string{
		"a.md": "[a](" + url + ")\n",
		"b.md": "[b](" + url + ")\n",
	})

	svc := NewService(Options{DocsRoot: root, Timeout: 5 * time.Second, Workers: 2})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// One request for the repeated URL, one finding per occurrence. The
	// first occurrence carries the probe detail, repeats the cached note.
	require.Equal(t, int64(1), calls.Load())
	require.Len(t, result.Findings, 2)
	require.Equal(t, KindExternal, result.Findings[0].Kind)
	require.Equal(t, "HTTP 404", result.Findings[0].Message)
	require.Equal(t, "a.md", result.Findings[0].File)
	require.Equal(t, "URL not accessible (cached result)", result.Findings[1].Message)
	require.Equal(t, "b.md", result.Findings[1].File)
}

func TestService_HealthyExternalNotFlagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	root := writeTree(t, map[string]string{
		"index.md": "[site](" + srv.URL + ")\n",
	})

	svc := NewService(Options{DocsRoot: root, Timeout: 5 * time.Second, Workers: 1})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.False(t, result.HasFindings())
}

func TestService_SkipExternalNeverRequests(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	root := writeTree(t, map[string]string{
		"index.md": "[site](" + srv.URL + "/broken)\n",
	})

	svc := NewService(Options{DocsRoot: root, SkipExternal: true})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Zero(t, calls.Load())
	require.False(t, result.HasFindings())
}

func TestService_DeterministicAcrossRuns(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md":     "[x](/gone) [y](#absent)\n",
		"b/c.md":   "# C\n\n[z](../a#also-absent)\n",
		"index.md": "# Home\n",
	})

	run := func() *Result {
		svc := NewService(Options{DocsRoot: root, SkipExternal: true})
		result, err := svc.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	require.Equal(t, first.Findings, second.Findings)
	require.Equal(t, first.DocsHash, second.DocsHash)
	require.Equal(t, first.TotalFiles, second.TotalFiles)
}

func TestService_UnreadableSourceSkippedButCounted(t *testing.T) {
	root := writeTree(t, map[string]string{
		"good.md": "# Good\n",
	})
	// A dangling symlink is discovered like a regular file but its content
	// cannot be read.
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), filepath.Join(root, "broken.md")))

	svc := NewService(Options{DocsRoot: root, SkipExternal: true})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	// The dangling link file is discovered and counted, its content skip
	// produces no findings.
	require.Equal(t, 2, result.TotalFiles)
	require.False(t, result.HasFindings())
}
