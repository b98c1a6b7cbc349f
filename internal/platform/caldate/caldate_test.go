package caldate_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pacekeeper/internal/platform/caldate"
)

func TestParseServerDateOnlyKeepsLiteralDay(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"2025-11-30", " 2025-11-30 ", "2025-11-30T00:00:00Z", "2025-11-30T23:00:00-08:00", "2025-11-30 00:00:00+00"} {
		d, ok := caldate.ParseServerDateOnly(input)
		require.True(t, ok, input)
		assert.Equal(t, caldate.Date{Year: 2025, Month: time.November, Day: 30}, d, input)
	}
}

func TestParseServerDateOnlyRejectsMalformed(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "soon", "2025-13-01", "2025-02-30", "2025-1-5", "2025-11-30Z", "20251130"} {
		_, ok := caldate.ParseServerDateOnly(input)
		assert.False(t, ok, input)
	}
}

func TestNormalizeServerDate(t *testing.T) {
	t.Parallel()
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	got, ok := caldate.NormalizeServerDate("2025-11-30T20:00:00Z", tokyo)
	require.True(t, ok)
	assert.Equal(t, caldate.Date{Year: 2025, Month: time.December, Day: 1}, caldate.DateOf(got))
	assert.Equal(t, 5, got.Hour())

	got, ok = caldate.NormalizeServerDate("2025-11-30 20:00:00.123456", tokyo)
	require.True(t, ok)
	assert.Equal(t, 5, got.Hour())

	got, ok = caldate.NormalizeServerDate("2025-11-30 20:00:00+00", tokyo)
	require.True(t, ok)
	assert.Equal(t, time.December, got.Month())

	_, ok = caldate.NormalizeServerDate("yesterday", tokyo)
	assert.False(t, ok)
}

func TestLocalDaysLeftSignAcrossOffsets(t *testing.T) {
	t.Parallel()
	zones := []string{"UTC", "Pacific/Kiritimati", "Pacific/Pago_Pago", "America/New_York", "Asia/Kolkata"}
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)
		for _, hour := range []int{0, 1, 12, 23} {
			now := time.Date(2026, 6, 15, hour, 59, 0, 0, loc)
			today := caldate.Today(now)

			left, ok := caldate.LocalDaysLeft(today.AddDays(-3).String(), now)
			require.True(t, ok)
			assert.Equal(t, -3, left, "%s %02d:59", name, hour)

			left, _ = caldate.LocalDaysLeft(today.String(), now)
			assert.Equal(t, 0, left, "%s %02d:59", name, hour)

			left, _ = caldate.LocalDaysLeft(today.AddDays(5).String(), now)
			assert.Equal(t, 5, left, "%s %02d:59", name, hour)
		}
	}
}

func TestLocalDaysLeftAcrossDSTBoundary(t *testing.T) {
	t.Parallel()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward on 2026-03-08 and fall back on 2026-11-01.
	springEve := time.Date(2026, 3, 7, 23, 30, 0, 0, ny)
	left, ok := caldate.LocalDaysLeft("2026-03-09", springEve)
	require.True(t, ok)
	assert.Equal(t, 2, left)

	fallEve := time.Date(2026, 10, 31, 23, 30, 0, 0, ny)
	left, _ = caldate.LocalDaysLeft("2026-11-05", fallEve)
	assert.Equal(t, 5, left)

	afterFall := time.Date(2026, 11, 2, 0, 30, 0, 0, ny)
	left, _ = caldate.LocalDaysLeft("2026-10-30", afterFall)
	assert.Equal(t, -3, left)
}

func TestLocalDaysLeftUnavailable(t *testing.T) {
	t.Parallel()
	_, ok := caldate.LocalDaysLeft("not a date", time.Now())
	assert.False(t, ok)
}

func TestDateArithmeticRoundTrips(t *testing.T) {
	t.Parallel()
	start := caldate.MustParse("1999-12-25")
	for n := -1500; n <= 1500; n += 7 {
		moved := start.AddDays(n)
		assert.Equal(t, n, moved.DaysSince(start))
		want := time.Date(1999, 12, 25+n, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, want.Format("2006-01-02"), moved.String())
	}
	assert.True(t, caldate.MustParse("2024-02-29").AddDays(1) == caldate.MustParse("2024-03-01"))
	assert.True(t, caldate.MustParse("2024-01-01").Before(caldate.MustParse("2024-01-02")))
}
