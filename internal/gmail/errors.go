package gmail

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"

	"github.com/teemow/mailsift/internal/retry"
)

// SearchError reports a rejected search query or failed result page. It is
// fatal to a run: there is nothing further to iterate over. Messages from
// pages fetched before the failure have already been yielded.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("gmail search %q failed: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// FetchError reports a failure to retrieve a single message or attachment
// after retries were exhausted. It is scoped to one message and does not
// abort the run.
type FetchError struct {
	MessageID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch of message %s failed: %v", e.MessageID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// classifyTransient decides whether an API error is worth retrying.
// Rate limiting (429, and Gmail's 403 quota responses) and server-side
// failures are transient; other HTTP errors are permanent. Errors that are
// not googleapi errors are assumed to be network problems and retried.
func classifyTransient(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == 429 || apiErr.Code >= 500:
		return err
	case apiErr.Code == 403 && hasRateLimitReason(apiErr):
		return err
	default:
		return retry.Permanent(err)
	}
}

func hasRateLimitReason(apiErr *googleapi.Error) bool {
	for _, e := range apiErr.Errors {
		switch e.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}
