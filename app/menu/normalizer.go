package menu

import (
	"golang.org/x/text/cases"
)

// Spreadsheet columns are matched case-insensitively via Unicode case
// folding, so "GroupingName", "groupingname" and "GROUPINGNAME" are the
// same field.

var folder = cases.Fold()

func foldKey(s string) string {
	return folder.String(s)
}

func foldEqual(a, b string) bool {
	return folder.String(a) == folder.String(b)
}

// Get looks up a field by name, case-insensitively.
func (r Row) Get(key string) string {
	return r[foldKey(key)]
}

// Name returns the row's display name, read from the "item" column with
// "name" as a fallback.
func (r Row) Name() string {
	if v := r.Get("item"); v != "" {
		return v
	}
	return r.Get("name")
}

// Special reports whether the row is marked special: the source value must
// equal "yes", case-insensitively.
func (r Row) Special() bool {
	return foldEqual(r.Get("special"), "yes")
}

// RibbonText tolerates the historical "ribontext" misspelling still present
// in older sheets; the first non-empty variant wins.
func (r Row) RibbonText() string {
	if v := r.Get("ribbontext"); v != "" {
		return v
	}
	return r.Get("ribontext")
}
