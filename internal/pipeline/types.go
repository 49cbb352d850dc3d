package pipeline

import (
	"fmt"
)

// Outcome is the terminal state of one message's trip through the pipeline.
type Outcome string

const (
	// OutcomeEmitted means a record was extracted and handed to the sink.
	OutcomeEmitted Outcome = "emitted"

	// OutcomeSkipped means no manifest entry matched the allow-list.
	// A skip is a normal result, not an error.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFetchFailed means the message or its attachment could not be
	// retrieved after retries were exhausted.
	OutcomeFetchFailed Outcome = "fetch_failed"

	// OutcomeExtractionFailed means the selected attachment's bytes could
	// not be converted to text.
	OutcomeExtractionFailed Outcome = "extraction_failed"
)

// Failure identifies one failed message and its error classification.
type Failure struct {
	MessageID string
	Outcome   Outcome
	Err       error
}

// Summary aggregates per-message outcomes for one run. It is the run's
// externally observable correctness signal.
type Summary struct {
	Emitted          int
	Skipped          int
	FetchFailed      int
	ExtractionFailed int

	// Failures lists the messages that reached a failure outcome.
	Failures []Failure
}

// Total returns the number of messages that reached a terminal state.
func (s *Summary) Total() int {
	return s.Emitted + s.Skipped + s.FetchFailed + s.ExtractionFailed
}

// Failed returns the number of messages that reached a failure outcome.
func (s *Summary) Failed() int {
	return s.FetchFailed + s.ExtractionFailed
}

func (s *Summary) String() string {
	return fmt.Sprintf("%d emitted, %d skipped, %d fetch-failed, %d extraction-failed",
		s.Emitted, s.Skipped, s.FetchFailed, s.ExtractionFailed)
}

func (s *Summary) add(outcome Outcome) {
	switch outcome {
	case OutcomeEmitted:
		s.Emitted++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFetchFailed:
		s.FetchFailed++
	case OutcomeExtractionFailed:
		s.ExtractionFailed++
	}
}
