// Package httputil provides HTTP utilities for fetching remote datasets.
//
// # Overview
//
//   - [Fetch]: GET a resource and return its body, retrying transient failures
//   - [Retry]: Automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-runs an operation only when its error is wrapped in
// [RetryableError]. [Fetch] wraps these as retryable:
//
//   - Network errors (connection refused, timeouts)
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other statuses fail immediately with an [errors.StatusError].
//
// # Configuration
//
// Defaults are suitable for the small CSV datasets swapcharts reads:
//
//   - Max attempts: 3
//   - Base backoff: 1 second, doubling each attempt
//   - Max body size: 64 MiB
package httputil
