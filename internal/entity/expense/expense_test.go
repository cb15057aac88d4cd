package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_OnSplitDateTime_ShouldReturnDateAndClock(t *testing.T) {
	date, clock, err := SplitDateTime("2024-01-15T09:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", date)
	assert.Equal(t, "09:30:00", clock)
}

func Test_OnSplitDateTime_ShouldRejectMalformedValue(t *testing.T) {
	_, _, err := SplitDateTime("not a date")
	assert.Error(t, err)
}

func Test_OnFilter_ShouldTreatAllCaseInsensitively(t *testing.T) {
	f := Filter{Category: "All", Year: "ALL", Month: "2"}
	assert.False(t, f.HasCategory())
	assert.False(t, f.HasYear())
	assert.True(t, f.HasMonth())
}
