// Package analytics aggregates the event log into per-period hourly bins.
// Aggregation is pure: it reads a snapshot and a reference time, touches no
// shared state, and is safe to call from any goroutine.
package analytics

import (
	"time"

	"github.com/colinwhispers/standbyd/internal/eventlog"
)

// Hours is the number of hourly bins in every aggregate.
const Hours = 24

// Reporting periods. Anything unrecognized normalizes to daily.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Data is one aggregated view of the event log. Hourly slices always have
// exactly Hours entries; bin N collects events whose local wall-clock hour
// is N, regardless of date.
type Data struct {
	HourlySedentary          []uint32 `json:"hourly_sedentary"`
	HourlyStandup            []uint32 `json:"hourly_standup"`
	HourlySedentaryDelaySecs []uint64 `json:"hourly_sedentary_delay_secs"`
	StandupSessions          uint32   `json:"standup_sessions"`
	SedentarySessions        uint32   `json:"sedentary_sessions"`
	TotalSittingSecs         uint64   `json:"total_sitting_secs"`
	RecordCount              uint32   `json:"record_count"`
}

// NormalizePeriod maps any string onto one of the three period keys.
func NormalizePeriod(period string) string {
	switch period {
	case PeriodWeekly:
		return PeriodWeekly
	case PeriodMonthly:
		return PeriodMonthly
	default:
		return PeriodDaily
	}
}

// PeriodStart returns the epoch second the given period begins at, in now's
// location. Daily starts at today's local midnight, weekly six calendar days
// earlier (a seven-day window including today) and monthly at the first of
// the current month.
func PeriodStart(period string, now time.Time) int64 {
	loc := now.Location()
	switch NormalizePeriod(period) {
	case PeriodWeekly:
		d := now.AddDate(0, 0, -6)
		return LocalMidnight(d.Year(), d.Month(), d.Day(), loc, now)
	case PeriodMonthly:
		return LocalMidnight(now.Year(), now.Month(), 1, loc, now)
	default:
		return LocalMidnight(now.Year(), now.Month(), now.Day(), loc, now)
	}
}

// Aggregate filters the snapshot to events at or after the period start and
// buckets them by local wall-clock hour. The period-start comparison is
// inclusive.
func Aggregate(snap eventlog.Snapshot, period string, now time.Time) Data {
	loc := now.Location()
	start := PeriodStart(period, now)

	data := Data{
		HourlySedentary:          make([]uint32, Hours),
		HourlyStandup:            make([]uint32, Hours),
		HourlySedentaryDelaySecs: make([]uint64, Hours),
	}

	for _, e := range snap.Sedentary {
		if e.TS < start {
			continue
		}
		hour := time.Unix(e.TS, 0).In(loc).Hour()
		data.HourlySedentary[hour]++
		data.HourlySedentaryDelaySecs[hour] += e.DurationSecs
		data.TotalSittingSecs += e.DurationSecs
		data.SedentarySessions++
	}

	for _, ts := range snap.Standups {
		if ts < start {
			continue
		}
		hour := time.Unix(ts, 0).In(loc).Hour()
		data.HourlyStandup[hour]++
		data.StandupSessions++
	}

	data.RecordCount = data.SedentarySessions + data.StandupSessions
	return data
}
