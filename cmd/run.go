package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/mailsift/internal/extract"
	"github.com/teemow/mailsift/internal/gmail"
	"github.com/teemow/mailsift/internal/google"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/logging"
	"github.com/teemow/mailsift/internal/pipeline"
	"github.com/teemow/mailsift/internal/retry"
	"github.com/teemow/mailsift/internal/sink"
)

// defaultQuery matches carrier rate-confirmation mails, the dataset this
// tool was originally built to collect.
const defaultQuery = `subject:"Rate Confirmation for order #" has:attachment from:@scotlynn.com`

func newRunCmd() *cobra.Command {
	var (
		credentialsFile string
		query           string
		contentTypes    []string
		output          string
		format          string
		maxAttempts     uint
		retryDelay      time.Duration
		workers         int
		timeout         time.Duration
		logLevel        string
		logFormat       string
		metricsAddr     string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a Gmail query and extract attachment text into records",
		Long: `Run executes a Gmail search query over all result pages, selects per
message the first attachment whose content type is on the allow-list,
converts it to plain text, and appends one record per message to the
output sink.

A message without a matching attachment is skipped. Fetch and extraction
failures are reported per message and never abort the run; the exit code
is non-zero only when the run itself cannot proceed (search failure,
rejected credentials, unwritable output).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Environment variables only apply when the flag was not set.
			if !cmd.Flags().Changed("query") {
				if q := os.Getenv("MAILSIFT_QUERY"); q != "" {
					query = q
				}
			}
			if !cmd.Flags().Changed("content-type") {
				if raw := os.Getenv("MAILSIFT_CONTENT_TYPES"); raw != "" {
					contentTypes = splitContentTypes(raw)
				}
			}

			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(os.Stderr, level, logFormat)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			creds, err := google.LoadCredentials(credentialsFile)
			if err != nil {
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			instrConfig := instrumentation.DefaultConfig()
			instrConfig.ServiceVersion = version
			if err := instrConfig.Validate(); err != nil {
				return fmt.Errorf("invalid instrumentation config: %w", err)
			}
			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("failed to initialize instrumentation: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					logger.Warn("failed to shut down instrumentation", logging.Err(err))
				}
			}()

			if provider.Enabled() && metricsAddr != "" {
				metricsServer := instrumentation.NewMetricsServer(metricsAddr)
				metricsServer.Start(logger)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := metricsServer.Shutdown(shutdownCtx); err != nil {
						logger.Warn("failed to shut down metrics server", logging.Err(err))
					}
				}()
			}

			client, err := gmail.NewClient(ctx, creds, timeout, retry.Config{
				MaxAttempts: maxAttempts,
				BaseDelay:   retryDelay,
			})
			if err != nil {
				return fmt.Errorf("failed to create Gmail client: %w", err)
			}

			registry := extract.NewRegistry()
			for _, ct := range contentTypes {
				if !registry.Supports(ct) {
					logger.Warn("no converter registered for allow-listed content type; matching attachments will fail extraction",
						logging.ContentType(ct),
					)
				}
			}

			recordSink, closeSink, err := newRecordSink(format, output)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeSink(); err != nil {
					logger.Warn("failed to close output sink", logging.Err(err))
				}
			}()

			driver, err := pipeline.NewDriver(client, client, registry, recordSink, pipeline.Config{
				Query:        query,
				ContentTypes: contentTypes,
				Workers:      workers,
			}, logger, provider.Metrics())
			if err != nil {
				return err
			}

			summary, err := driver.Run(ctx)
			for _, f := range summary.Failures {
				logger.Warn("message failed",
					logging.MessageID(f.MessageID),
					logging.Outcome(string(f.Outcome)),
					logging.Err(f.Err),
				)
			}
			if err != nil {
				return fmt.Errorf("run aborted after %d messages (%s): %w", summary.Total(), summary, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d messages: %s\n", summary.Total(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "Path to authorized-user credentials JSON. Can also use GMAIL_CREDENTIALS_FILE or GMAIL_CREDENTIALS_JSON env vars.")
	cmd.Flags().StringVar(&query, "query", defaultQuery, "Gmail search query, passed through verbatim. Can also use MAILSIFT_QUERY env var.")
	cmd.Flags().StringSliceVar(&contentTypes, "content-type", []string{extract.ContentTypePDF}, "Attachment content type to accept; repeatable. Can also use MAILSIFT_CONTENT_TYPES env var (comma-separated).")
	cmd.Flags().StringVar(&output, "output", "records.jsonl", "Output path; '-' writes JSONL to stdout")
	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format: jsonl or sqlite")
	cmd.Flags().UintVar(&maxAttempts, "max-attempts", 4, "Total attempts per Gmail fetch, including the first")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", time.Second, "Initial backoff delay between fetch retries")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of messages processed concurrently")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for each individual Gmail API call")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address for the Prometheus metrics endpoint; empty disables it")

	return cmd
}

// splitContentTypes parses a comma-separated content-type list, trimming
// whitespace and dropping empty elements.
func splitContentTypes(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// newRecordSink builds the sink for the requested format and returns it
// together with its close function.
func newRecordSink(format, output string) (pipeline.Sink, func() error, error) {
	switch format {
	case "sqlite":
		s, err := sink.NewSQLite(output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite output: %w", err)
		}
		return s, s.Close, nil
	case "jsonl":
		if output == "-" {
			s := sink.NewJSONL(os.Stdout)
			return s, s.Close, nil
		}
		s, err := sink.OpenJSONLFile(output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open jsonl output: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown output format %q, must be jsonl or sqlite", format)
	}
}
