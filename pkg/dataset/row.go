package dataset

import "strings"

// Column names referenced by the chart reducers.
const (
	FieldGenre       = "genre"
	FieldAgeCategory = "age_category"
	FieldYear        = "publicationYear"
	FieldBestseller  = "bestseller_status"
	FieldMovie       = "adapted_to_movie"
)

// Row is one CSV record keyed by header name.
type Row map[string]string

// Get returns the trimmed value of field and whether it is present and
// non-empty.
func (r Row) Get(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// GetOr returns the trimmed value of field, or fallback when it is missing
// or blank.
func (r Row) GetOr(field, fallback string) string {
	if v, ok := r.Get(field); ok {
		return v
	}
	return fallback
}

// Table is an immutable, ordered sequence of rows plus the header they
// were parsed with.
type Table struct {
	Locator string
	Header  []string
	Rows    []Row
	// Hash is the SHA-256 of the raw bytes the table was parsed from.
	Hash string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}
