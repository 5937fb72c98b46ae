package analytics

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colinwhispers/standbyd/internal/eventlog"
)

func TestNormalizePeriod(t *testing.T) {
	assert.Equal(t, "daily", NormalizePeriod("daily"))
	assert.Equal(t, "weekly", NormalizePeriod("weekly"))
	assert.Equal(t, "monthly", NormalizePeriod("monthly"))
	assert.Equal(t, "daily", NormalizePeriod(""))
	assert.Equal(t, "daily", NormalizePeriod("yearly"))
	assert.Equal(t, "daily", NormalizePeriod("WEEKLY"))
}

func TestPeriodStart_Daily(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 11, 15, 4, 5, 0, loc)

	got := PeriodStart("daily", now)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, loc).Unix(), got)
}

func TestPeriodStart_WeeklyWindowIncludesToday(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// A Wednesday; six calendar days back lands on the previous Thursday.
	now := time.Date(2026, 3, 11, 10, 30, 0, 0, loc)
	require.Equal(t, time.Wednesday, now.Weekday())

	got := PeriodStart("weekly", now)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Thursday, want.Weekday())
	assert.Equal(t, want.Unix(), got)
}

func TestPeriodStart_WeeklyAcrossMonthBoundary(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, loc)

	got := PeriodStart("weekly", now)
	assert.Equal(t, time.Date(2026, 3, 27, 0, 0, 0, 0, loc).Unix(), got)
}

func TestPeriodStart_Monthly(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 11, 23, 59, 59, 0, loc)

	got := PeriodStart("monthly", now)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc).Unix(), got)
}

func TestPeriodStart_MonthlyOnFirstDay(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 5, 1, 0, 0, 1, 0, loc)

	got := PeriodStart("monthly", now)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, loc).Unix(), got)
}

func TestPeriodStart_UnknownFallsBackToDaily(t *testing.T) {
	loc := time.FixedZone("UTC", 0)
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, loc)

	assert.Equal(t, PeriodStart("daily", now), PeriodStart("quarterly", now))
}

func TestLocalMidnight_AmbiguousPicksEarliest(t *testing.T) {
	// Havana rolled clocks back on 2024-11-03 at 01:00, so that date's
	// midnight occurred twice: 04:00 UTC (offset -04) and 05:00 UTC (-05).
	loc, err := time.LoadLocation("America/Havana")
	require.NoError(t, err)

	now := time.Date(2024, 11, 3, 12, 0, 0, 0, loc)
	got := LocalMidnight(2024, time.November, 3, loc, now)

	assert.Equal(t, time.Date(2024, 11, 3, 4, 0, 0, 0, time.UTC).Unix(), got)
}

func TestLocalMidnight_SkippedFallsBackToNow(t *testing.T) {
	// São Paulo sprang forward at midnight on 2018-11-04; 00:00 never
	// happened on the clock, so resolution falls back to the current time.
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	now := time.Date(2018, 11, 4, 15, 30, 0, 0, loc)
	got := LocalMidnight(2018, time.November, 4, loc, now)

	assert.Equal(t, now.Unix(), got)
}

func TestLocalMidnight_PlainDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2026, 7, 15, 9, 0, 0, 0, loc)
	got := LocalMidnight(2026, time.July, 15, loc, now)

	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, loc).Unix(), got)
}

func TestLocalMidnight_TransitionLaterSameDay(t *testing.T) {
	// New York's 2024 fall-back happened at 02:00 on Nov 3, after midnight.
	// Midnight itself occurred exactly once, still on daylight time.
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	now := time.Date(2024, 11, 3, 12, 0, 0, 0, loc)
	got := LocalMidnight(2024, time.November, 3, loc, now)

	assert.Equal(t, time.Date(2024, 11, 3, 4, 0, 0, 0, time.UTC).Unix(), got)
}

func TestAggregate_DailyFilterIsInclusive(t *testing.T) {
	loc := time.FixedZone("UTC", 0)
	now := time.Date(2026, 3, 11, 18, 0, 0, 0, loc)
	start := time.Date(2026, 3, 11, 0, 0, 0, 0, loc).Unix()

	snap := eventlog.Snapshot{
		Sedentary: []eventlog.SedentaryEvent{
			{TS: start - 1, DurationSecs: 3000}, // yesterday, excluded
			{TS: start, DurationSecs: 3000},     // boundary, included
			{TS: start + 9*3600 + 1800, DurationSecs: 600},
		},
		Standups: []int64{start - 1, start + 9*3600 + 2700},
	}

	data := Aggregate(snap, "daily", now)

	assert.Equal(t, uint32(2), data.SedentarySessions)
	assert.Equal(t, uint32(1), data.StandupSessions)
	assert.Equal(t, uint32(3), data.RecordCount)
	assert.Equal(t, uint64(3600), data.TotalSittingSecs)
	assert.Equal(t, uint32(1), data.HourlySedentary[0])
	assert.Equal(t, uint32(1), data.HourlySedentary[9])
	assert.Equal(t, uint32(1), data.HourlyStandup[9])
	assert.Equal(t, uint64(3000), data.HourlySedentaryDelaySecs[0])
	assert.Equal(t, uint64(600), data.HourlySedentaryDelaySecs[9])
}

func TestAggregate_BinsByHourAcrossDates(t *testing.T) {
	loc := time.FixedZone("UTC", 0)
	now := time.Date(2026, 3, 11, 18, 0, 0, 0, loc)

	nineAM := func(day int) int64 {
		return time.Date(2026, 3, day, 9, 0, 0, 0, loc).Unix()
	}
	snap := eventlog.Snapshot{
		Sedentary: []eventlog.SedentaryEvent{
			{TS: nineAM(6), DurationSecs: 1200},
			{TS: nineAM(11), DurationSecs: 1200},
		},
	}

	data := Aggregate(snap, "weekly", now)

	// Both fall in the seven-day window and share the 09:00 bin.
	assert.Equal(t, uint32(2), data.HourlySedentary[9])
	assert.Equal(t, uint32(2), data.SedentarySessions)
}

func TestAggregate_EmptySnapshot(t *testing.T) {
	now := time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)

	data := Aggregate(eventlog.Snapshot{}, "monthly", now)

	assert.Len(t, data.HourlySedentary, Hours)
	assert.Len(t, data.HourlyStandup, Hours)
	assert.Len(t, data.HourlySedentaryDelaySecs, Hours)
	assert.Zero(t, data.RecordCount)
	assert.Zero(t, data.TotalSittingSecs)
}

func TestAggregate_LocalHourNotUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2026, 3, 11, 20, 0, 0, 0, loc)

	// 01:30 UTC is 09:30 local; the bin must reflect local time.
	ts := time.Date(2026, 3, 11, 9, 30, 0, 0, loc).Unix()
	snap := eventlog.Snapshot{
		Sedentary: []eventlog.SedentaryEvent{{TS: ts, DurationSecs: 300}},
	}

	data := Aggregate(snap, "daily", now)
	assert.Equal(t, uint32(1), data.HourlySedentary[9])
	assert.Equal(t, uint32(0), data.HourlySedentary[1])
}
