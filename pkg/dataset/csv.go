package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/httputil"
	"github.com/matzehuels/swapcharts/pkg/observability"
)

// Source loads a table for a locator.
type Source interface {
	Load(ctx context.Context, locator string) (*Table, error)
}

// Fetcher retrieves the bytes behind an http(s) locator.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CSVSource reads CSV files from disk or over HTTP.
//
// Remote bytes are stored in Cache (when set) under Keyer.DatasetKey so
// later runs can skip the network until TTL elapses.
type CSVSource struct {
	Fetcher Fetcher
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
}

// NewCSVSource returns a source with the default HTTP fetcher and no
// byte cache.
func NewCSVSource() *CSVSource {
	return &CSVSource{
		Fetcher: httputil.NewFetcher(),
		Cache:   cache.NewNullCache(),
		Keyer:   cache.NewDefaultKeyer(),
		TTL:     cache.TTLDataset,
	}
}

// Load reads and parses the CSV behind locator. Failures are LOAD_FAILED
// or PARSE_FAILED errors.
func (s *CSVSource) Load(ctx context.Context, locator string) (*Table, error) {
	if err := errors.ValidateLocator(locator); err != nil {
		return nil, err
	}

	data, err := s.read(ctx, locator)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoad, err, "load %s", locator)
	}

	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse %s", locator)
	}
	t.Locator = locator
	t.Hash = cache.Hash(data)
	return t, nil
}

func (s *CSVSource) read(ctx context.Context, locator string) ([]byte, error) {
	if !isRemote(locator) {
		return os.ReadFile(localPath(locator))
	}

	key := s.keyer().DatasetKey(locator)
	hooks := observability.Cache()
	if s.Cache != nil && !refreshing(ctx) {
		if data, hit, err := s.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, "dataset")
			return data, nil
		}
		hooks.OnCacheMiss(ctx, "dataset")
	}

	fetcher := s.Fetcher
	if fetcher == nil {
		fetcher = httputil.NewFetcher()
	}
	data, err := fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, data, s.TTL); err == nil {
			hooks.OnCacheSet(ctx, "dataset", len(data))
		}
	}
	return data, nil
}

type refreshKey struct{}

// WithRefresh returns a context under which remote locators are fetched
// again instead of read from the byte cache. The fresh bytes are still
// stored.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey{}, true)
}

func refreshing(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey{}).(bool)
	return v
}

func (s *CSVSource) keyer() cache.Keyer {
	if s.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return s.Keyer
}

func isRemote(locator string) bool {
	l := strings.ToLower(locator)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func localPath(locator string) string {
	if !strings.HasPrefix(strings.ToLower(locator), "file://") {
		return locator
	}
	if u, err := url.Parse(locator); err == nil && u.Path != "" {
		return u.Path
	}
	return locator[len("file://"):]
}

// Parse decodes CSV from r. The first record is the header; header names
// are trimmed and a leading UTF-8 byte order mark is dropped. Records may
// be shorter or longer than the header: missing fields are absent from
// the row and extra fields are ignored.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeParse, "empty CSV: missing header row")
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make(Row, len(header))
		for i, v := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
