// Package retry provides a generic bounded-backoff decorator for network
// calls. It is independent of the pipeline's business logic: callers decide
// which errors are permanent via Permanent, everything else is retried with
// exponential backoff until the attempt budget runs out.
package retry
