package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colinwhispers/standbyd/internal/eventlog"
	"github.com/colinwhispers/standbyd/internal/settings"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSettings_FirstRun(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	got := s.LoadSettings()
	assert.Equal(t, settings.Default(), got)

	// First load writes the document so later runs find it.
	raw, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	var healed settings.Settings
	require.NoError(t, json.Unmarshal(raw, &healed))
	assert.Equal(t, settings.Default(), healed)
}

func TestLoadSettings_ReadsPrimary(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "config.json",
		`{"interval_minutes":20,"language":"zh-CN","reminder_language":"en","theme":"day"}`)
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	got := s.LoadSettings()
	assert.Equal(t, uint64(20), got.IntervalMinutes)
	assert.Equal(t, "zh-CN", got.Language)
	assert.Equal(t, "en", got.ReminderLanguage)
	assert.Equal(t, "day", got.Theme)
}

func TestLoadSettings_HealsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "config.json",
		`{"interval_minutes":7,"language":"de","reminder_language":"zh-CN","theme":"lava"}`)
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	got := s.LoadSettings()
	assert.Equal(t, settings.DefaultIntervalMinutes, got.IntervalMinutes)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "zh-CN", got.ReminderLanguage)
	assert.Equal(t, "night", got.Theme)

	// The healed values are written back, so the bad document never
	// survives a restart.
	raw, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	var healed settings.Settings
	require.NoError(t, json.Unmarshal(raw, &healed))
	assert.Equal(t, got, healed)
}

func TestLoadSettings_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "config.json", `{"interval_minutes":`)
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	assert.Equal(t, settings.Default(), s.LoadSettings())
}

func TestLoadSettings_LegacyFallback(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "com.colinwhispers.standbyd")
	legacyDir := filepath.Join(base, "com.colinwhispers.standby")
	writeDoc(t, legacyDir, "config.json",
		`{"interval_minutes":30,"language":"en","reminder_language":"en","theme":"night"}`)

	s := New(Config{DataDir: dataDir}, nil, zerolog.Nop())
	got := s.LoadSettings()
	assert.Equal(t, uint64(30), got.IntervalMinutes)

	// Loading migrates the document into the primary path.
	raw, err := os.ReadFile(filepath.Join(dataDir, "config.json"))
	require.NoError(t, err)
	var migrated settings.Settings
	require.NoError(t, json.Unmarshal(raw, &migrated))
	assert.Equal(t, uint64(30), migrated.IntervalMinutes)
}

func TestLoadSettings_PrimaryBeatsLegacy(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "com.colinwhispers.standbyd")
	legacyDir := filepath.Join(base, "com.colinwhispers.standby")
	writeDoc(t, dataDir, "config.json",
		`{"interval_minutes":10,"language":"en","reminder_language":"en","theme":"night"}`)
	writeDoc(t, legacyDir, "config.json",
		`{"interval_minutes":30,"language":"en","reminder_language":"en","theme":"night"}`)

	s := New(Config{DataDir: dataDir}, nil, zerolog.Nop())
	assert.Equal(t, uint64(10), s.LoadSettings().IntervalMinutes)
}

func TestLoadSettings_CorruptPrimaryFallsToLegacy(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "com.colinwhispers.standbyd")
	legacyDir := filepath.Join(base, "com.colinwhispers.standby")
	writeDoc(t, dataDir, "config.json", `not json at all`)
	writeDoc(t, legacyDir, "config.json",
		`{"interval_minutes":20,"language":"en","reminder_language":"en","theme":"night"}`)

	s := New(Config{DataDir: dataDir}, nil, zerolog.Nop())
	assert.Equal(t, uint64(20), s.LoadSettings().IntervalMinutes)
}

func TestLoadEvents(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Unix()
	writeDoc(t, dir, "analytics.json",
		`{"reminder_events":[{"ts":`+jsonInt(now-600)+`,"duration_secs":3000}],"standup_events":[`+jsonInt(now-300)+`]}`)

	s := New(Config{DataDir: dir}, nil, zerolog.Nop())
	snap := s.LoadEvents(now)
	require.Len(t, snap.Sedentary, 1)
	assert.Equal(t, now-600, snap.Sedentary[0].TS)
	assert.Equal(t, uint64(3000), snap.Sedentary[0].DurationSecs)
	require.Len(t, snap.Standups, 1)
	assert.Equal(t, now-300, snap.Standups[0])
}

func TestLoadEvents_Missing(t *testing.T) {
	s := New(Config{DataDir: t.TempDir()}, nil, zerolog.Nop())
	snap := s.LoadEvents(time.Now().Unix())
	assert.Empty(t, snap.Sedentary)
	assert.Empty(t, snap.Standups)
}

func TestLoadEvents_PrunesExpired(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Unix()
	fresh := now - 600
	expired := now - eventlog.RetentionSecs - 1
	writeDoc(t, dir, "analytics.json",
		`{"reminder_events":[{"ts":`+jsonInt(expired)+`,"duration_secs":3000},{"ts":`+jsonInt(fresh)+`,"duration_secs":3000}],`+
			`"standup_events":[`+jsonInt(expired)+`,`+jsonInt(fresh)+`]}`)

	s := New(Config{DataDir: dir}, nil, zerolog.Nop())
	snap := s.LoadEvents(now)
	require.Len(t, snap.Sedentary, 1)
	assert.Equal(t, fresh, snap.Sedentary[0].TS)
	require.Len(t, snap.Standups, 1)
	assert.Equal(t, fresh, snap.Standups[0])
}

func TestLoadEvents_CorruptPrimaryFallsToLegacy(t *testing.T) {
	base := t.TempDir()
	dataDir := filepath.Join(base, "com.colinwhispers.standbyd")
	legacyDir := filepath.Join(base, "com.colinwhispers.standby")
	now := time.Now().Unix()
	writeDoc(t, dataDir, "analytics.json", `{"reminder_events": [`)
	writeDoc(t, legacyDir, "analytics.json",
		`{"reminder_events":[],"standup_events":[`+jsonInt(now-60)+`]}`)

	s := New(Config{DataDir: dataDir}, nil, zerolog.Nop())
	snap := s.LoadEvents(now)
	require.Len(t, snap.Standups, 1)
	assert.Equal(t, now-60, snap.Standups[0])
}

func TestSaveEvents_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Unix()
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	s.SaveEvents(eventlog.Snapshot{
		Sedentary: []eventlog.SedentaryEvent{{TS: now - 600, DurationSecs: 1200}},
		Standups:  []int64{now - 300},
	}, now)

	snap := s.LoadEvents(now)
	require.Len(t, snap.Sedentary, 1)
	assert.Equal(t, uint64(1200), snap.Sedentary[0].DurationSecs)
	require.Len(t, snap.Standups, 1)
}

func TestSaveEvents_EnforcesRetention(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().Unix()
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	s.SaveEvents(eventlog.Snapshot{
		Standups: []int64{now - eventlog.RetentionSecs - 1, now - 60},
	}, now)

	snap := s.LoadEvents(now)
	require.Len(t, snap.Standups, 1)
	assert.Equal(t, now-60, snap.Standups[0])
}

func TestSaveEvents_EmptySlicesStayArrays(t *testing.T) {
	dir := t.TempDir()
	s := New(Config{DataDir: dir}, nil, zerolog.Nop())

	s.SaveEvents(eventlog.Snapshot{}, time.Now().Unix())

	raw, err := os.ReadFile(filepath.Join(dir, "analytics.json"))
	require.NoError(t, err)
	// The shell's reader chokes on null; both sequences serialize as [].
	assert.NotContains(t, string(raw), "null")
	var doc eventsDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.NotNil(t, doc.ReminderEvents)
	assert.NotNil(t, doc.StandupEvents)
}

func TestExportDir_OverrideWins(t *testing.T) {
	s := New(Config{
		DataDir:      t.TempDir(),
		DownloadsDir: t.TempDir(),
		ExportDir:    "/exports/override",
	}, nil, zerolog.Nop())

	dir, err := s.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, "/exports/override", dir)
}

func TestExportDir_PrefersDownloads(t *testing.T) {
	downloads := t.TempDir()
	desktop := t.TempDir()
	s := New(Config{
		DataDir:      t.TempDir(),
		DownloadsDir: downloads,
		DesktopDir:   desktop,
	}, nil, zerolog.Nop())

	dir, err := s.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, downloads, dir)
}

func TestExportDir_FallsBackToDesktop(t *testing.T) {
	desktop := t.TempDir()
	s := New(Config{
		DataDir:      t.TempDir(),
		DownloadsDir: filepath.Join(t.TempDir(), "does-not-exist"),
		DesktopDir:   desktop,
	}, nil, zerolog.Nop())

	dir, err := s.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, desktop, dir)
}

func TestExportDir_FallsBackToDataDir(t *testing.T) {
	dataDir := t.TempDir()
	s := New(Config{DataDir: dataDir}, nil, zerolog.Nop())

	dir, err := s.ExportDir()
	require.NoError(t, err)
	assert.Equal(t, dataDir, dir)
}

func TestExportDir_NoCandidates(t *testing.T) {
	s := New(Config{}, nil, zerolog.Nop())

	_, err := s.ExportDir()
	assert.ErrorIs(t, err, ErrNoExportDir)
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
