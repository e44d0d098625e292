// Package main provides the entry point for the rgetlinks CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitpan/rgetlinks/internal/config"
	"github.com/gitpan/rgetlinks/internal/crawler"
	"github.com/gitpan/rgetlinks/internal/log"
	"github.com/gitpan/rgetlinks/internal/model"
	"github.com/gitpan/rgetlinks/internal/proxy"
	"github.com/gitpan/rgetlinks/internal/report"
	"github.com/gitpan/rgetlinks/internal/store"
)

// NewRootCmd creates the root command for rgetlinks.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rgetlinks [flags] <start-url>",
		Short: "Recursively list the hyperlinks reachable from a URL",
		Long: `rgetlinks fetches a page, lists the links found on it, then does the same
for each of those links, breadth-first, down to a configurable depth.

Each discovered URL is printed on its own line, indented by one space per
depth level. Every URL appears at most once per run, at the depth where it
was first discovered. Only the listing goes to stdout; diagnostics go to
stderr, so the output is safe to pipe.

Examples:
  # List links two levels deep (the default)
  rgetlinks https://example.com/

  # Only the links on the start page itself
  rgetlinks --depth=1 https://example.com/

  # Faster crawl of a large site, output order unchanged
  rgetlinks -d 3 -w 8 https://example.com/

  # Crawl through a SOCKS5 proxy (e.g. ssh -D 1080)
  rgetlinks --proxy 127.0.0.1:1080 https://example.com/

  # Crawl through an embedded Tor daemon
  rgetlinks --tor http://example.onion/

  # Keep a queryable copy of the run and a summary
  rgetlinks --db run.db -o report.md https://example.com/

Configuration file (.rgetlinks) example:
  depth: 3
  timeout: 45s
  headers:
    Authorization: "Bearer token"`,
		Version:       buildVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Traversal flags
	cmd.Flags().IntP("depth", "d", config.DefaultDepth,
		"Maximum traversal depth (0 prints only the start URL)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of pages fetched concurrently")

	// HTTP flags
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent with requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes to read")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .rgetlinks in current, XDG config, or home directory)")

	// Export flags
	cmd.Flags().StringP("output", "o", "",
		"Write a Markdown summary report to this file")
	cmd.Flags().String("db", "",
		"Export the run's records to this SQLite database file")

	// Proxy flags
	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy at host:port (mutually exclusive with --tor)")
	cmd.Flags().Bool("tor", false,
		"Route requests through an embedded Tor daemon (mutually exclusive with --proxy)")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the crawl.
func runRootCmd(cmd *cobra.Command, args []string) error {
	// No start URL is a request for usage, not an error. Scripts have
	// relied on the bare invocation exiting zero for a long time.
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Diagnostics go to stderr; stdout belongs to the listing alone.
	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cmd, cfg, logger)
}

// buildConfig layers the configuration: defaults, then the config file,
// then the flags the user actually set on the command line.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]

	flags := cmd.Flags()

	configFlag, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFlag

	// An explicitly named config file must exist; the default search may
	// come up empty without complaint.
	if path := config.FindConfigFile(configFlag); path != "" {
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, err
		}
	} else if configFlag != "" {
		return nil, fmt.Errorf("config file not found: %s", configFlag)
	}

	// Only flags the user changed override the file. Reading unchanged
	// flags would silently clobber file values with flag defaults.
	if flags.Changed("depth") {
		if cfg.Depth, err = flags.GetInt("depth"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}

	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.DBPath, err = flags.GetString("db"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
		return nil, err
	}
	if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// runCrawl wires the components together and runs the traversal.
func runCrawl(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	httpClient, cleanup, err := buildHTTPClient(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	fetcher := crawler.NewFetcher(httpClient,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithRequestHeaders(cfg.Headers),
		crawler.WithFetcherLogger(logger),
	)

	plain := report.NewPlainWriter(cmd.OutOrStdout())
	traverser := crawler.NewTraverser(fetcher,
		crawler.WithMaxDepth(cfg.Depth),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithRecordHandler(plain.WriteRecord),
		crawler.WithTraverserLogger(logger),
	)

	start := time.Now()
	records, err := traverser.Traverse(ctx, cfg.StartURL)
	if err != nil {
		return err
	}

	result := &model.CrawlResult{
		StartURL: cfg.StartURL,
		MaxDepth: cfg.Depth,
		Records:  records,
		Stats:    fetcher.Stats(),
		Elapsed:  time.Since(start),
	}

	logger.Debug("traversal finished",
		"links", len(result.Records),
		"pages", result.Stats.Pages,
		"failures", result.Stats.Failures,
		"skipped", result.Stats.Skipped,
		"elapsed", result.Elapsed,
	)

	if cfg.DBPath != "" {
		if err := exportToDB(ctx, cfg.DBPath, result); err != nil {
			return err
		}
		logger.Debug("records exported", "db", cfg.DBPath)
	}

	if cfg.ReportFile != "" {
		if err := writeReport(cfg.ReportFile, result); err != nil {
			return err
		}
		logger.Debug("report written", "file", cfg.ReportFile)
	}

	return nil
}

// buildHTTPClient returns the HTTP client the fetcher should use, honoring
// the proxy flags, together with a cleanup function for resources that
// outlive client construction.
func buildHTTPClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Client, func(), error) {
	noop := func() {}

	switch {
	case cfg.UseTor:
		embedded := proxy.NewEmbeddedTor(proxy.WithStartupTimeout(cfg.TorStartupTimeout))

		logger.Info("starting embedded Tor daemon, this may take a few minutes...")
		if err := embedded.Start(ctx); err != nil {
			return nil, noop, err
		}

		client, err := embedded.NewClient(cfg.Timeout)
		if err != nil {
			_ = embedded.Stop()
			return nil, noop, err
		}

		logger.Debug("embedded Tor ready", "socksAddr", embedded.SocksAddr())
		return client.HTTPClient(), func() { _ = embedded.Stop() }, nil

	case cfg.ProxyAddress != "":
		client, err := proxy.NewClient(cfg.ProxyAddress, cfg.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return client.HTTPClient(), noop, nil

	default:
		return &http.Client{Timeout: cfg.Timeout}, noop, nil
	}
}

// exportToDB saves the run's records to the SQLite export file.
func exportToDB(ctx context.Context, dbPath string, result *model.CrawlResult) error {
	ldb, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = ldb.Close() }()

	return ldb.SaveResult(ctx, result)
}

// writeReport writes the Markdown summary, creating directories as needed.
func writeReport(path string, result *model.CrawlResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := report.NewMarkdownWriter(f).Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
