package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"

	"github.com/teemow/mailsift/internal/extract"
	"github.com/teemow/mailsift/internal/gmail"
	"github.com/teemow/mailsift/internal/instrumentation"
	"github.com/teemow/mailsift/internal/logging"
)

// Searcher streams the identifiers of messages matching a query.
type Searcher interface {
	ForeachMessage(ctx context.Context, query string, fn func(id string) error) error
}

// Fetcher retrieves message metadata and attachment payloads.
type Fetcher interface {
	FetchMessage(ctx context.Context, messageID string) (*gmail.MessageSummary, error)
	FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}

// Extractor converts attachment bytes of a given content type to text.
type Extractor interface {
	Convert(contentType string, data []byte) (string, error)
}

// Sink receives completed records. Implementations need not be safe for
// concurrent use; the driver serializes Append calls.
type Sink interface {
	Append(rec *Record) error
}

// Config holds the per-run parameters of the driver.
type Config struct {
	// Query is the Gmail search expression passed through verbatim.
	Query string

	// ContentTypes is the attachment allow-list. It must not be empty.
	ContentTypes []string

	// Workers bounds how many messages are processed concurrently.
	// Zero or one means strictly sequential processing.
	Workers int
}

// Driver walks the messages matching a query and turns each into at most one
// record. Every message reaches exactly one terminal outcome; failures of one
// message never abort the run.
type Driver struct {
	searcher  Searcher
	fetcher   Fetcher
	extractor Extractor
	sink      Sink
	config    Config
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// NewDriver creates a driver. metrics may be nil-initialized (zero value)
// when instrumentation is disabled.
func NewDriver(searcher Searcher, fetcher Fetcher, extractor Extractor, sink Sink, config Config, logger *slog.Logger, metrics *instrumentation.Metrics) (*Driver, error) {
	if searcher == nil || fetcher == nil || extractor == nil || sink == nil {
		return nil, fmt.Errorf("searcher, fetcher, extractor and sink are required")
	}
	if len(config.ContentTypes) == 0 {
		return nil, fmt.Errorf("at least one content type is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	return &Driver{
		searcher:  searcher,
		fetcher:   fetcher,
		extractor: extractor,
		sink:      sink,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}, nil
}

// Run executes one extraction run and returns its summary.
//
// The returned error is non-nil only when the run itself could not continue:
// the search failed, the sink rejected a record, credentials stopped working
// mid-run, or the context was cancelled. Per-message failures are counted in
// the summary instead. On a halting error the summary still covers every
// message that reached a terminal state before the halt.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	d.logger.Info("starting run",
		logging.Query(d.config.Query),
		slog.Any("content_types", d.config.ContentTypes),
		slog.Int("workers", d.config.Workers),
	)

	var err error
	if d.config.Workers > 1 {
		err = d.runPipelined(ctx, summary)
	} else {
		err = d.runSequential(ctx, summary)
	}

	d.logger.Info("run finished",
		logging.Query(d.config.Query),
		slog.String("summary", summary.String()),
		logging.Err(err),
	)
	return summary, err
}

func (d *Driver) runSequential(ctx context.Context, summary *Summary) error {
	return d.search(ctx, func(id string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, outcome, perr := d.processMessage(ctx, id)
		return d.observe(ctx, summary, id, rec, outcome, perr)
	})
}

// runPipelined overlaps message processing across a bounded worker set.
// Summary bookkeeping and sink appends stay behind one mutex, so the sink
// sees the same serialized stream it would in a sequential run, in
// completion order rather than search order.
func (d *Driver) runPipelined(ctx context.Context, summary *Summary) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.config.Workers)

	var mu sync.Mutex

	searchErr := d.search(gctx, func(id string) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		g.Go(func() error {
			rec, outcome, perr := d.processMessage(gctx, id)

			mu.Lock()
			defer mu.Unlock()
			return d.observe(gctx, summary, id, rec, outcome, perr)
		})
		return nil
	})

	waitErr := g.Wait()
	if searchErr != nil {
		// A worker failure cancels gctx and surfaces through the search
		// loop as a cancellation; report the worker's error instead.
		if errors.Is(searchErr, context.Canceled) && waitErr != nil {
			return waitErr
		}
		return searchErr
	}
	return waitErr
}

// search wraps the searcher call with operation metrics.
func (d *Driver) search(ctx context.Context, fn func(id string) error) error {
	start := time.Now()
	err := d.searcher.ForeachMessage(ctx, d.config.Query, fn)

	status := instrumentation.StatusSuccess
	var searchErr *gmail.SearchError
	if errors.As(err, &searchErr) {
		status = instrumentation.StatusError
	}
	d.metrics.RecordGmailOperation(ctx, instrumentation.OperationSearch, status, time.Since(start))
	return err
}

// observe records one message's terminal state in the summary and, for an
// emitted record, appends it to the sink. A sink failure halts the run.
// Credential exhaustion detected on a fetch failure also halts: every
// remaining message would fail the same way.
func (d *Driver) observe(ctx context.Context, summary *Summary, id string, rec *Record, outcome Outcome, perr error) error {
	if outcome == OutcomeEmitted {
		if err := d.sink.Append(rec); err != nil {
			return fmt.Errorf("failed to append record for message %s: %w", id, err)
		}
		summary.add(OutcomeEmitted)
		d.metrics.RecordRecordEmitted(ctx, len(rec.Text))
		return nil
	}

	summary.add(outcome)
	if perr == nil {
		return nil
	}

	summary.Failures = append(summary.Failures, Failure{
		MessageID: id,
		Outcome:   outcome,
		Err:       perr,
	})
	if isCredentialError(perr) {
		return fmt.Errorf("credentials rejected while processing message %s: %w", id, perr)
	}
	return nil
}

// processMessage runs one message through the fetch / select / fetch /
// extract / assemble sequence and returns its terminal outcome. The record is
// non-nil only for OutcomeEmitted; the error is non-nil only for failure
// outcomes.
func (d *Driver) processMessage(ctx context.Context, id string) (*Record, Outcome, error) {
	ctx, span := instrumentation.StartMessageSpan(ctx, id)
	logger := logging.WithMessageID(d.logger, id)

	rec, outcome, err := d.process(ctx, logger, id)

	d.metrics.RecordMessageOutcome(ctx, string(outcome))
	instrumentation.EndMessageSpan(span, string(outcome), err)
	return rec, outcome, err
}

func (d *Driver) process(ctx context.Context, logger *slog.Logger, id string) (*Record, Outcome, error) {
	start := time.Now()
	msg, err := d.fetcher.FetchMessage(ctx, id)
	d.recordFetch(ctx, instrumentation.OperationGetMessage, err, start)
	if err != nil {
		logger.Warn("failed to fetch message", logging.Err(err))
		return nil, OutcomeFetchFailed, err
	}

	att := SelectAttachment(msg.Attachments, d.config.ContentTypes)
	if att == nil {
		logger.Debug("no attachment matched allow-list",
			slog.Int("manifest_size", len(msg.Attachments)),
		)
		return nil, OutcomeSkipped, nil
	}

	start = time.Now()
	data, err := d.fetcher.FetchAttachment(ctx, id, att.AttachmentID)
	d.recordFetch(ctx, instrumentation.OperationGetAttachment, err, start)
	if err != nil {
		logger.Warn("failed to fetch attachment",
			logging.Attachment(att.Filename),
			logging.Err(err),
		)
		return nil, OutcomeFetchFailed, err
	}
	d.metrics.RecordAttachmentBytes(ctx, len(data))

	text, err := d.extractor.Convert(att.MimeType, data)
	if err != nil {
		logger.Warn("failed to extract text",
			logging.Attachment(att.Filename),
			logging.ContentType(att.MimeType),
			logging.Err(err),
		)
		return nil, OutcomeExtractionFailed, err
	}

	logger.Debug("record extracted",
		logging.Attachment(att.Filename),
		logging.ContentType(att.MimeType),
		slog.Int("text_bytes", len(text)),
	)
	return NewRecord(msg, att, text, d.config.Query, d.config.ContentTypes), OutcomeEmitted, nil
}

func (d *Driver) recordFetch(ctx context.Context, operation string, err error, start time.Time) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	d.metrics.RecordGmailOperation(ctx, operation, status, time.Since(start))
}

// isCredentialError reports whether err stems from the API rejecting the
// run's credentials, which no retry or subsequent message can recover from.
func isCredentialError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized
	}
	return false
}

var _ Extractor = (*extract.Registry)(nil)
