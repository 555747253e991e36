package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	derrors "github.com/sanzoku-labs/linkcheck/internal/docs/errors"
	"github.com/sanzoku-labs/linkcheck/internal/report"
)

// CheckCmd implements the 'check' command: one validation pass over the
// docs tree, report written and echoed, exit 1 when findings exist.
type CheckCmd struct {
	DocsRoot     string        `short:"d" name:"docs-root" default:"docs" help:"Path to the docs tree to scan"`
	Report       string        `short:"o" name:"report" default:"dead_links_report.md" help:"Report output path"`
	SkipExternal bool          `name:"skip-external" help:"Do not probe external URLs (network-free run)"`
	Timeout      time.Duration `name:"timeout" default:"10s" help:"Per-request timeout for external URL probes"`
	Workers      int           `name:"workers" default:"4" help:"Concurrent external URL probes"`
	JSON         bool          `name:"json" help:"Also write a JSON report next to the markdown one"`
	HTML         bool          `name:"html" help:"Also write an HTML report next to the markdown one"`
}

func (cc *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	opts, reportPath := resolveScan(cfg, cc.DocsRoot, cc.Report, cc.SkipExternal, cc.Timeout, cc.Workers)

	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := runScan(sigctx, opts, reportPath, cc.JSON, cc.HTML)
	if err != nil {
		if errors.Is(err, derrors.ErrDocsRootNotFound) {
			return fmt.Errorf("docs directory %q not found", opts.DocsRoot)
		}
		return err
	}

	echoReport(report.Markdown(result), reportPath, !result.HasFindings())

	// Broken docs exit 1; tool failures surface as errors above.
	if result.HasFindings() {
		os.Exit(1)
	}
	return nil
}
