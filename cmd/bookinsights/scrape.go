package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/book-insights/config"
	"github.com/aluiziolira/book-insights/export"
	"github.com/aluiziolira/book-insights/parser"
	"github.com/aluiziolira/book-insights/pipeline"
	"github.com/aluiziolira/book-insights/scraper"
	"github.com/aluiziolira/book-insights/sentiment"
	"github.com/aluiziolira/book-insights/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Scrape one catalogue page and export the (filtered) records",
		Long: `Scrape one catalogue page. Without a url the first category page is used.

Every flag can also be set through the environment, e.g. BOOKINSIGHTS_FORMAT=json
or BOOKINSIGHTS_MAX_RETRIES=2. Flags win over the environment.

Records are written to stdout unless --output is set. The dual format always
writes files: <output>.csv and <output>.json (book_data by default).`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScrape,
	}

	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.String("url", defaults.URL, "catalogue page to scrape")
	flags.Duration("timeout", defaults.Timeout, "request timeout")
	flags.Int("max-retries", defaults.MaxRetries, "retry attempts for transient fetch failures")
	flags.Duration("retry-backoff", defaults.RetryBackoff, "initial retry backoff")
	flags.Duration("retry-backoff-max", defaults.RetryBackoffMax, "maximum retry backoff")
	flags.String("user-agent", defaults.UserAgent, "User-Agent header")
	flags.Int("max-body-size", defaults.MaxBodySize, "maximum response body size in bytes")
	flags.Bool("respect-robots", defaults.RespectRobotsTxt, "respect robots.txt directives")
	flags.String("engine", defaults.Engine, "extraction engine: css or xpath")
	flags.Int("sentiment-cache-size", defaults.SentimentCacheSize, "memoised sentiment scores")
	flags.StringP("output", "o", defaults.OutputFile, "output file (stdout when empty)")
	flags.StringP("format", "f", defaults.OutputFormat, "output format: csv, json, or dual")
	flags.StringP("filter", "q", defaults.Filter, "case-insensitive title search applied before export")
	flags.String("metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolP("verbose", "v", defaults.Verbose, "enable verbose logging")
	flags.Bool("summary", defaults.Summary, "print distribution summary of the filtered records")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.URL = args[0]
	}

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		return err
	}
	format, err := export.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}

	metrics := scraper.NewMetrics()
	fetcher := scraper.NewFetcher(cfg, metrics)
	extractor, err := parser.NewExtractor(cfg.Engine)
	if err != nil {
		return err
	}
	classifier, err := sentiment.NewClassifier(cfg.SentimentCacheSize)
	if err != nil {
		return err
	}
	p := pipeline.New(fetcher, extractor, classifier,
		pipeline.WithMetrics(metrics),
		pipeline.WithEventSink(pipeline.LogSink{Logger: logger}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	slog.Info("starting scrape",
		slog.String("url", cfg.URL),
		slog.String("engine", extractor.Name()),
	)

	sess := session.New()
	report, err := p.Scrape(ctx, sess, cfg.URL)
	if err != nil {
		return err
	}
	sess.SetQuery(cfg.Filter)

	destination, err := writeOutput(cmd, sess, format, cfg.OutputFile)
	if err != nil {
		slog.Error("export failed", slog.Any("error", err))
		return err
	}

	out := cmd.ErrOrStderr()
	printReport(out, sess, report, destination)
	if cfg.Summary {
		printSummary(out, sess.View().Summary())
	}
	return nil
}

// writeOutput exports the session's filtered view and returns where it went.
func writeOutput(cmd *cobra.Command, sess *session.Session, format export.Format, filename string) (string, error) {
	if filename == "" && format == export.FormatDual {
		filename = export.DefaultFilename(format)
	}
	if filename == "" {
		if err := sess.Export(cmd.OutOrStdout(), format); err != nil {
			return "", fmt.Errorf("write stdout: %w", err)
		}
		return "stdout", nil
	}
	if err := sess.View().ExportFile(filename, format); err != nil {
		return "", err
	}
	return filename, nil
}
