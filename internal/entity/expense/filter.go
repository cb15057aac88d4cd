package expense

import "strings"

// All disables an optional filter criterion.
const All = "all"

// Filter carries the optional criteria of one filtered listing. It lives
// for a single request and is never persisted.
type Filter struct {
	Category string
	From     int64
	To       int64
	Year     string
	Month    string
}

func (f Filter) HasCategory() bool {
	return !strings.EqualFold(f.Category, All)
}

func (f Filter) HasYear() bool {
	return !strings.EqualFold(f.Year, All)
}

func (f Filter) HasMonth() bool {
	return !strings.EqualFold(f.Month, All)
}
