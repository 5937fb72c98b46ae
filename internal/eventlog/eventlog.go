// Package eventlog holds the in-memory event log: two append-only sequences
// of sedentary and standup events, bounded by a rolling retention window.
package eventlog

import "sync"

// RetentionSecs is the rolling retention window. Events older than this,
// relative to "now", are dropped on every load and save.
const RetentionSecs int64 = 180 * 24 * 60 * 60

// SedentaryEvent records one completed sedentary stretch. TS is the epoch
// second the reminder was raised; DurationSecs is the configured interval
// at that moment, not the observed lag.
type SedentaryEvent struct {
	TS           int64  `json:"ts"`
	DurationSecs uint64 `json:"duration_secs"`
}

// Snapshot is a point-in-time copy of both sequences, safe to read and
// persist without holding the log's lock.
type Snapshot struct {
	Sedentary []SedentaryEvent
	Standups  []int64
}

// Log is the process-wide event log. All methods are safe for concurrent
// use; the log keeps its own lock, independent of the scheduler's.
type Log struct {
	mu        sync.Mutex
	sedentary []SedentaryEvent
	standups  []int64
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// AppendSedentary records a sedentary event. Events are append-only; nothing
// ever rewrites an existing entry.
func (l *Log) AppendSedentary(e SedentaryEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sedentary = append(l.sedentary, e)
}

// AppendStandup records a standup at the given epoch second.
func (l *Log) AppendStandup(ts int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.standups = append(l.standups, ts)
}

// Prune drops events older than the retention window relative to now.
// The cutoff is inclusive: an event exactly at now-RetentionSecs survives.
func (l *Log) Prune(now int64) {
	cutoff := now - RetentionSecs
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.sedentary[:0]
	for _, e := range l.sedentary {
		if e.TS >= cutoff {
			kept = append(kept, e)
		}
	}
	l.sedentary = kept

	keptTS := l.standups[:0]
	for _, ts := range l.standups {
		if ts >= cutoff {
			keptTS = append(keptTS, ts)
		}
	}
	l.standups = keptTS
}

// DropFrom removes every event at or after startTS. Used by the daily reset,
// which clears today's records while keeping history intact.
func (l *Log) DropFrom(startTS int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.sedentary[:0]
	for _, e := range l.sedentary {
		if e.TS < startTS {
			kept = append(kept, e)
		}
	}
	l.sedentary = kept

	keptTS := l.standups[:0]
	for _, ts := range l.standups {
		if ts < startTS {
			keptTS = append(keptTS, ts)
		}
	}
	l.standups = keptTS
}

// Snapshot copies both sequences.
func (l *Log) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := Snapshot{
		Sedentary: make([]SedentaryEvent, len(l.sedentary)),
		Standups:  make([]int64, len(l.standups)),
	}
	copy(snap.Sedentary, l.sedentary)
	copy(snap.Standups, l.standups)
	return snap
}

// Replace swaps in the given snapshot, discarding current contents. Used
// once at startup after the store has loaded and pruned the persisted log.
func (l *Log) Replace(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sedentary = append([]SedentaryEvent(nil), snap.Sedentary...)
	l.standups = append([]int64(nil), snap.Standups...)
}

// Counts returns the current lengths of both sequences.
func (l *Log) Counts() (sedentary, standups int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sedentary), len(l.standups)
}
