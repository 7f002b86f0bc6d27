package bills_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maddyp86/congress/internal/bills"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "date only",
			in:   "2023-05-01",
			want: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339 with offset",
			in:   "2023-07-04T00:00:00+00:00",
			want: time.Date(2023, 7, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "naive timestamp treated as UTC",
			in:   "2023-07-04T12:30:00",
			want: time.Date(2023, 7, 4, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "space separated timestamp",
			in:   "2023-07-04 12:30:00",
			want: time.Date(2023, 7, 4, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "non-utc offset normalized",
			in:   "2023-07-04T00:00:00-05:00",
			want: time.Date(2023, 7, 4, 5, 0, 0, 0, time.UTC),
		},
		{
			name: "surrounding whitespace",
			in:   "  2023-05-01  ",
			want: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := bills.ParseDate(tt.in)
			require.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseDate_ZuluSuffixEquivalence(t *testing.T) {
	t.Parallel()

	zulu := bills.ParseDate("2023-07-04T00:00:00Z")
	explicit := bills.ParseDate("2023-07-04T00:00:00+00:00")
	require.False(t, zulu.IsZero())
	require.True(t, zulu.Equal(explicit))
}

func TestParseDate_Unknown(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "not a date", "May 1st 2023", "2023/05/01"} {
		require.True(t, bills.ParseDate(in).IsZero(), "expected zero time for %q", in)
	}
}

func TestParseDate_FallsBackToDatePortion(t *testing.T) {
	t.Parallel()

	got := bills.ParseDate("2023-05-01T99:99:99")
	require.True(t, got.Equal(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)))
}
