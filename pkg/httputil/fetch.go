package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/swapcharts/pkg/buildinfo"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/observability"
)

// MaxBodySize caps how many bytes [Fetch] reads from a response.
const MaxBodySize = 64 << 20

// Fetcher downloads resources over HTTP with retries.
type Fetcher struct {
	Client   *http.Client
	Attempts int
	Delay    time.Duration
}

// NewFetcher returns a Fetcher with a 30 second client timeout and the
// default retry policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:   &http.Client{Timeout: 30 * time.Second},
		Attempts: 3,
		Delay:    time.Second,
	}
}

// Fetch performs a GET on rawURL using a default [Fetcher].
func Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return NewFetcher().Fetch(ctx, rawURL)
}

// Fetch performs a GET on rawURL and returns the response body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err := Retry(ctx, f.Attempts, f.Delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", buildinfo.UserAgent())
		req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

		hooks.OnRequest(ctx, http.MethodGet, host, path)
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			hooks.OnError(ctx, http.MethodGet, host, path, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			statusErr := &errors.StatusError{StatusCode: resp.StatusCode, URL: rawURL}
			if statusErr.Temporary() {
				return Retryable(statusErr)
			}
			return statusErr
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
		if err != nil {
			return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read body of %s", rawURL))
		}
		if len(data) > MaxBodySize {
			return fmt.Errorf("response from %s exceeds %d bytes", rawURL, MaxBodySize)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	return u.Host, u.Path
}
