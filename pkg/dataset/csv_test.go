package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/httputil"
)

const sampleCSV = "genre,age_category,publicationYear,bestseller_status,adapted_to_movie\n" +
	"Fiction,Adult,1994,True,False\n" +
	"Fiction,Teen,1996,False,True\n" +
	"Mystery,,2001,False,False\n"

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	if !tbl.HasColumn(FieldGenre) || !tbl.HasColumn(FieldMovie) {
		t.Errorf("header = %v", tbl.Header)
	}

	if v, ok := tbl.Rows[0].Get(FieldGenre); !ok || v != "Fiction" {
		t.Errorf("row 0 genre = %q, %v", v, ok)
	}
	if _, ok := tbl.Rows[2].Get(FieldAgeCategory); ok {
		t.Error("blank age_category should report missing")
	}
	if got := tbl.Rows[2].GetOr(FieldAgeCategory, "Unknown"); got != "Unknown" {
		t.Errorf("GetOr = %q, want Unknown", got)
	}
}

func TestParseRaggedRowsAndBOM(t *testing.T) {
	in := "\ufeffgenre , age_category,publicationYear\nFiction,Adult\nDrama,Teen,1990,extra\n"
	tbl, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Header[0] != "genre" {
		t.Errorf("header[0] = %q, want genre", tbl.Header[0])
	}
	if _, ok := tbl.Rows[0].Get(FieldYear); ok {
		t.Error("short row should not have publicationYear")
	}
	if v, _ := tbl.Rows[1].Get(FieldYear); v != "1990" {
		t.Errorf("long row year = %q, want 1990", v)
	}
	if len(tbl.Rows[1]) != 3 {
		t.Errorf("extra fields should be ignored, got %v", tbl.Rows[1])
	}
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Errorf("err = %v, want PARSE_FAILED", err)
	}
}

func TestCSVSource_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewCSVSource()
	for _, loc := range []string{path, "file://" + path} {
		tbl, err := src.Load(context.Background(), loc)
		if err != nil {
			t.Fatalf("Load(%s): %v", loc, err)
		}
		if tbl.Len() != 3 || tbl.Locator != loc || tbl.Hash == "" {
			t.Errorf("Load(%s) = %d rows, locator %q, hash %q", loc, tbl.Len(), tbl.Locator, tbl.Hash)
		}
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	_, err := NewCSVSource().Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("err = %v, want LOAD_FAILED", err)
	}
}

func TestCSVSource_RemoteWithCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := &CSVSource{
		Fetcher: &httputil.Fetcher{Client: srv.Client(), Attempts: 1, Delay: time.Millisecond},
		Cache:   fc,
		Keyer:   cache.NewDefaultKeyer(),
		TTL:     time.Hour,
	}

	for range 2 {
		tbl, err := src.Load(context.Background(), srv.URL+"/books.csv")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if tbl.Len() != 3 {
			t.Errorf("Len = %d, want 3", tbl.Len())
		}
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 (second load from cache)", got)
	}

	if _, err := src.Load(WithRefresh(context.Background()), srv.URL+"/books.csv"); err != nil {
		t.Fatalf("Load with refresh: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits after refresh = %d, want 2", got)
	}
}

func TestCSVSource_InvalidLocator(t *testing.T) {
	_, err := NewCSVSource().Load(context.Background(), "ftp://example.com/books.csv")
	if !errors.Is(err, errors.ErrCodeInvalidLocator) {
		t.Errorf("err = %v, want INVALID_LOCATOR", err)
	}
}
