package integration

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sanzoku-labs/linkcheck/internal/linkverify"
	"github.com/sanzoku-labs/linkcheck/internal/report"
)

// generatedLineRe matches the report timestamp line, which differs per run.
var generatedLineRe = regexp.MustCompile(`(?m)^Generated: .*$`)

// normalizeReport replaces run-dependent content so golden comparisons are
// stable across runs.
func normalizeReport(body string) string {
	return generatedLineRe.ReplaceAllString(body, "Generated: NORMALIZED")
}

// runCheckScan executes one scan over a fixture tree. External probing is
// off so the tests never open sockets.
func runCheckScan(t *testing.T, docsRoot string) *linkverify.Result {
	t.Helper()

	result, err := linkverify.NewService(linkverify.Options{
		DocsRoot:     docsRoot,
		SkipExternal: true,
	}).Run(context.Background())
	require.NoError(t, err, "scan failed for %s", docsRoot)

	return result
}

// verifyReport compares the rendered markdown report against a golden file.
// With update set, the golden file is rewritten from the actual output.
func verifyReport(t *testing.T, result *linkverify.Result, goldenPath string, update bool) {
	t.Helper()

	actual := normalizeReport(report.Markdown(result))

	if update {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750))
		require.NoError(t, os.WriteFile(goldenPath, []byte(actual), 0o600))
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)
	require.Equal(t, string(golden), actual, "report mismatch against %s", goldenPath)
}
