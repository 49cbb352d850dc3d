package gmail

import (
	"context"
	"fmt"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/mailsift/internal/google"
	"github.com/teemow/mailsift/internal/retry"
)

// Client wraps the Gmail Users service for read-only message access.
type Client struct {
	svc   *gmail.UsersService
	retry retry.Config
}

// NewClient creates a Gmail client authenticated with the given credentials.
// timeout bounds every individual API call; retryCfg governs how transient
// fetch failures are retried.
func NewClient(ctx context.Context, creds *google.Credentials, timeout time.Duration, retryCfg retry.Config) (*Client, error) {
	httpClient := creds.HTTPClient(ctx)
	if timeout > 0 {
		httpClient.Timeout = timeout
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:   svc.Users,
		retry: retryCfg,
	}, nil
}

// ForeachMessage iterates over the identifiers of all messages matching the
// query, paginating until the provider reports no further pages. Page
// boundaries are invisible to fn; the stream is a single logical sequence.
//
// A failed list call is returned as a *SearchError. Messages from pages
// fetched before the failure have already been passed to fn. Errors returned
// by fn propagate unchanged.
func (c *Client) ForeachMessage(ctx context.Context, query string, fn func(id string) error) error {
	pageToken := ""
	for {
		req := c.svc.Messages.List("me").Q(query)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		res, err := req.Context(ctx).Do()
		if err != nil {
			return &SearchError{Query: query, Err: err}
		}
		for _, m := range res.Messages {
			if err := fn(m.Id); err != nil {
				return err
			}
		}
		if res.NextPageToken == "" {
			return nil
		}
		pageToken = res.NextPageToken
	}
}
