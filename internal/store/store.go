// Package store persists the settings and event-log documents as JSON files
// under the data directory, migrating reads from the legacy install path.
//
// Storage is deliberately forgiving: reads fall back through primary path,
// legacy path, and defaults, and writes are best-effort. A failed write is
// logged and retried implicitly on the next state mutation; the daemon never
// crashes over disk trouble.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/colinwhispers/standbyd/internal/eventlog"
	"github.com/colinwhispers/standbyd/internal/metrics"
	"github.com/colinwhispers/standbyd/internal/settings"
)

const (
	settingsFile = "config.json"
	eventsFile   = "analytics.json"

	// legacyDirName is the pre-migration install's data directory, looked up
	// as a sibling of the current data directory.
	legacyDirName = "com.colinwhispers.standby"
)

// ErrNoExportDir means no writable export location could be resolved.
var ErrNoExportDir = errors.New("cannot resolve export directory")

// Config locates the store's directories. Empty optional fields disable the
// corresponding export-location preference.
type Config struct {
	// DataDir holds config.json and analytics.json. Required.
	DataDir string

	// DownloadsDir and DesktopDir are export-location preferences, tried in
	// that order; the data directory is the final fallback.
	DownloadsDir string
	DesktopDir   string

	// ExportDir, when set, short-circuits export-location resolution.
	ExportDir string
}

// Store reads and writes the persisted documents.
type Store struct {
	cfg     Config
	legacy  string // legacy data dir; empty when absent
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// New creates a store rooted at cfg.DataDir. The legacy directory is probed
// once here; it only participates in reads if it exists now.
func New(cfg Config, m *metrics.Metrics, logger zerolog.Logger) *Store {
	s := &Store{
		cfg:     cfg,
		metrics: m,
		logger:  logger.With().Str("component", "store").Logger(),
	}
	legacy := filepath.Join(filepath.Dir(cfg.DataDir), legacyDirName)
	if info, err := os.Stat(legacy); err == nil && info.IsDir() {
		s.legacy = legacy
		s.logger.Info().Str("path", legacy).Msg("legacy data directory found, reads will fall back to it")
	}
	return s
}

// DataDir returns the primary data directory.
func (s *Store) DataDir() string {
	return s.cfg.DataDir
}

// LoadSettings reads the settings document. Missing or corrupt files fall
// back to the legacy path, then to defaults; every loaded value is
// normalized and the healed document is written back to the primary path so
// later reads and older files converge. This method cannot fail.
func (s *Store) LoadSettings() settings.Settings {
	loaded, source := s.readSettings()
	normalized := loaded.Normalized()

	if source != "" && loaded != normalized {
		s.logger.Warn().
			Str("source", source).
			Interface("stored", loaded).
			Msg("settings document had invalid values, normalized")
	}

	// Rewrite unconditionally: this heals corrupt values and migrates legacy
	// documents into the primary path in one step.
	s.SaveSettings(normalized)
	return normalized
}

func (s *Store) readSettings() (settings.Settings, string) {
	for _, path := range s.candidatePaths(settingsFile) {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc settings.Settings
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("settings document unreadable, trying next source")
			continue
		}
		return doc, path
	}
	return settings.Default(), ""
}

// SaveSettings writes the settings document to the primary path.
// Failures are logged and swallowed.
func (s *Store) SaveSettings(doc settings.Settings) {
	if err := s.writeJSON(filepath.Join(s.cfg.DataDir, settingsFile), doc); err != nil {
		s.recordWriteFailure("settings", err)
	}
}

// LoadEvents reads the event-log document, falling back to the legacy path.
// Events outside the retention window relative to now are dropped before the
// snapshot is returned. A missing or corrupt document loads as empty.
func (s *Store) LoadEvents(now int64) eventlog.Snapshot {
	for _, path := range s.candidatePaths(eventsFile) {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc eventsDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			s.logger.Warn().Err(err).Str("path", path).Msg("event log unreadable, trying next source")
			continue
		}
		log := eventlog.New()
		log.Replace(eventlog.Snapshot{Sedentary: doc.ReminderEvents, Standups: doc.StandupEvents})
		log.Prune(now)
		return log.Snapshot()
	}
	return eventlog.Snapshot{}
}

// SaveEvents persists the snapshot to the primary path, enforcing retention
// on the way out. Failures are logged and swallowed.
func (s *Store) SaveEvents(snap eventlog.Snapshot, now int64) {
	log := eventlog.New()
	log.Replace(snap)
	log.Prune(now)
	pruned := log.Snapshot()

	doc := eventsDoc{
		ReminderEvents: pruned.Sedentary,
		StandupEvents:  pruned.Standups,
	}
	if doc.ReminderEvents == nil {
		doc.ReminderEvents = []eventlog.SedentaryEvent{}
	}
	if doc.StandupEvents == nil {
		doc.StandupEvents = []int64{}
	}

	if err := s.writeJSON(filepath.Join(s.cfg.DataDir, eventsFile), doc); err != nil {
		s.recordWriteFailure("events", err)
	}
}

// ExportDir resolves where exports land: the configured override, else the
// first of downloads and desktop directories that exists, else the data
// directory.
func (s *Store) ExportDir() (string, error) {
	if s.cfg.ExportDir != "" {
		return s.cfg.ExportDir, nil
	}
	for _, dir := range []string{s.cfg.DownloadsDir, s.cfg.DesktopDir} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	if s.cfg.DataDir != "" {
		return s.cfg.DataDir, nil
	}
	return "", ErrNoExportDir
}

// eventsDoc is the on-disk shape of analytics.json.
type eventsDoc struct {
	ReminderEvents []eventlog.SedentaryEvent `json:"reminder_events"`
	StandupEvents  []int64                   `json:"standup_events"`
}

// candidatePaths lists read locations for a document, primary first.
func (s *Store) candidatePaths(name string) []string {
	paths := []string{filepath.Join(s.cfg.DataDir, name)}
	if s.legacy != "" {
		paths = append(paths, filepath.Join(s.legacy, name))
	}
	return paths
}

// writeJSON writes v pretty-printed via a temp file and rename, so readers
// never observe a partial document.
func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) recordWriteFailure(doc string, err error) {
	if s.metrics != nil {
		s.metrics.RecordStoreWriteFailure(doc)
	}
	s.logger.Warn().Err(err).Str("doc", doc).Msg("write failed, will retry on next change")
}
