package expense

import (
	"time"

	"github.com/pkg/errors"
)

// DateTimeLayout is the ISO-8601 local date-time form expenses are stored
// and exchanged in.
const DateTimeLayout = "2006-01-02T15:04:05"

// Record is a single dated transaction owned by exactly one client and
// tagged with exactly one category. Amount and DateTime are mandatory.
type Record struct {
	ID          int64
	Amount      int64
	DateTime    string
	Description string
	CategoryID  int64
	ClientID    int64
}

// Details is the display form of a record: the category resolved to its
// name and the date-time split into separate date and time strings.
type Details struct {
	Record
	CategoryName string
	Date         string
	Time         string
}

// SplitDateTime decomposes an ISO-8601 local date-time string into its
// date and time parts.
func SplitDateTime(dateTime string) (date, clock string, err error) {
	t, err := time.Parse(DateTimeLayout, dateTime)
	if err != nil {
		return "", "", errors.Wrap(err, "split date time")
	}
	return t.Format("2006-01-02"), t.Format("15:04:05"), nil
}
