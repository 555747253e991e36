package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sanzoku-labs/linkcheck/internal/config"
	"github.com/sanzoku-labs/linkcheck/internal/linkverify"
	"github.com/sanzoku-labs/linkcheck/internal/logfields"
	"github.com/sanzoku-labs/linkcheck/internal/report"
)

// DefaultConfigPath is where the CLI looks for configuration when --config is
// not given. The default path is allowed to be absent; an explicit one is not.
const DefaultConfigPath = "linkcheck.yaml"

// Flag defaults shared by check and watch. They must stay in sync with the
// kong default tags so flag-over-config precedence can compare against them.
const (
	defaultDocsRoot   = "docs"
	defaultReportPath = "dead_links_report.md"
	defaultTimeout    = 10 * time.Second
	defaultWorkers    = 4
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"linkcheck.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check CheckCmd `cmd:"" help:"Validate cross-references in a markdown docs tree"`
	Watch WatchCmd `cmd:"" help:"Re-run validation whenever the docs tree changes"`
	Init  InitCmd  `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// LoadConfig reads the configured file. A missing file at the default path
// falls back to built-in defaults; a path the user asked for must exist.
func LoadConfig(root *CLI) (*config.Config, error) {
	if root.Config == DefaultConfigPath {
		if _, err := os.Stat(root.Config); os.IsNotExist(err) {
			slog.Debug("No configuration file found, using defaults", logfields.Path(root.Config))
			return config.Default(), nil
		}
	}
	return config.Load(root.Config)
}

// resolveScan merges command flags over file configuration. A flag left at
// its default defers to the config file; anything else wins.
func resolveScan(cfg *config.Config, docsRoot, reportPath string, skipExternal bool, timeout time.Duration, workers int) (linkverify.Options, string) {
	if docsRoot == defaultDocsRoot && cfg.DocsRoot != "" {
		docsRoot = cfg.DocsRoot
	}
	if reportPath == defaultReportPath && cfg.ReportPath != "" {
		reportPath = cfg.ReportPath
	}
	if !cfg.External.IsEnabled() {
		skipExternal = true
	}
	if timeout == defaultTimeout {
		timeout = cfg.External.TimeoutDuration()
	}
	if workers == defaultWorkers && cfg.External.Workers > 0 {
		workers = cfg.External.Workers
	}
	return linkverify.Options{
		DocsRoot:     docsRoot,
		SkipExternal: skipExternal,
		Timeout:      timeout,
		Workers:      workers,
	}, reportPath
}

// runScan executes one validation pass and writes the report artifacts.
// Findings are not an error; they live in the result.
func runScan(ctx context.Context, opts linkverify.Options, reportPath string, jsonOut, htmlOut bool) (*linkverify.Result, error) {
	result, err := linkverify.NewService(opts).Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := writeReports(result, reportPath, jsonOut, htmlOut); err != nil {
		return nil, err
	}
	return result, nil
}

// writeReports writes the markdown report and any requested sidecar formats.
func writeReports(result *linkverify.Result, reportPath string, jsonOut, htmlOut bool) error {
	if err := os.WriteFile(reportPath, []byte(report.Markdown(result)), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	slog.Debug("Report written", logfields.Path(reportPath))
	if jsonOut {
		if err := writeSidecar(result, reportPath, ".json", report.NewJSONFormatter()); err != nil {
			return err
		}
	}
	if htmlOut {
		if err := writeSidecar(result, reportPath, ".html", report.NewHTMLFormatter()); err != nil {
			return err
		}
	}
	return nil
}

// writeSidecar renders one extra format next to the markdown report, swapping
// the extension.
func writeSidecar(result *linkverify.Result, reportPath, ext string, f report.Formatter) error {
	path := strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ext
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s report: %w", ext, err)
	}
	defer func() {
		_ = file.Close()
	}()
	if err := f.Format(file, result); err != nil {
		return fmt.Errorf("rendering %s report: %w", ext, err)
	}
	slog.Debug("Sidecar report written", logfields.Path(path))
	return nil
}

// echoReport mirrors the report body on stdout after a visual separator so
// findings land in CI logs without opening the report file.
func echoReport(body, reportPath string, clean bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println(body)
	fmt.Printf("\nReport saved to: %s\n", reportPath)
	if clean {
		fmt.Println("\n✅ No dead links found!")
	}
}
