// Package dataset loads the book-swap CSV and shares it between charts.
//
// A [Source] turns a locator (local path, file:// URL, or http(s):// URL)
// into a [Table] of [Row] values with named string fields. Field presence
// and types are not validated; reducers coerce values as they need.
//
// [SharedLoader] memoizes tables per locator so the three charts on a page
// trigger a single fetch and parse:
//
//	loader := dataset.NewSharedLoader(dataset.NewCSVSource(), dataset.SharedOptions{})
//	table, release, err := loader.Acquire(ctx, "books.csv")
//	if err != nil {
//	    return err
//	}
//	defer release()
//
// Concurrent acquires of the same locator coalesce into one load. Entries
// are reference counted and evicted once unreferenced for IdleTTL.
package dataset
