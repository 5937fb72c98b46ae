package analytics

import "time"

// LocalMidnight resolves the calendar date's midnight to an instant in loc.
// Around DST transitions a wall-clock midnight can be ambiguous or missing,
// so resolution follows a fixed fallback chain: the exact instant when the
// mapping is unique, the earliest occurrence when midnight happens twice
// (clocks rolled back), and now itself when midnight was skipped entirely
// (clocks rolled forward).
//
// Only wall-clock-to-instant conversion needs this chain; the reverse
// direction (epoch second to local hour) is always unambiguous.
func LocalMidnight(year int, month time.Month, day int, loc *time.Location, now time.Time) int64 {
	// Collect the UTC offsets in force around the target date. A transition
	// near midnight means up to two distinct offsets can place a local
	// 00:00:00 on this date.
	seed := time.Date(year, month, day, 12, 0, 0, 0, loc)
	offsets := make(map[int]struct{}, 3)
	for _, probe := range []time.Time{seed.Add(-36 * time.Hour), seed, seed.Add(36 * time.Hour)} {
		_, off := probe.Zone()
		offsets[off] = struct{}{}
	}

	// Wall-clock reference pinned at UTC; shifting it by a candidate offset
	// yields the instant that would display as midnight under that offset.
	wall := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	var earliest int64
	matches := 0
	for off := range offsets {
		candidate := wall.Add(-time.Duration(off) * time.Second)
		local := candidate.In(loc)
		if local.Year() != year || local.Month() != month || local.Day() != day ||
			local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 {
			continue
		}
		ts := candidate.Unix()
		if matches == 0 || ts < earliest {
			earliest = ts
		}
		matches++
	}

	if matches == 0 {
		// Midnight fell inside a spring-forward gap; no instant displays as
		// 00:00:00 on this date.
		return now.Unix()
	}
	return earliest
}
