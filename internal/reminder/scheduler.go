// Package reminder implements the sedentary reminder loop. A background
// goroutine ticks every five seconds; while idle each tick advances a
// countdown toward the configured interval, and when the countdown
// expires a prompt is armed on the Presenter. An armed prompt is either
// acknowledged by the user or, after sixty seconds unacknowledged, counted
// as a sedentary session. The countdown does not advance while a prompt
// is armed.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colinwhispers/standbyd/internal/analytics"
	"github.com/colinwhispers/standbyd/internal/eventlog"
	"github.com/colinwhispers/standbyd/internal/metrics"
	"github.com/colinwhispers/standbyd/internal/notify"
	"github.com/colinwhispers/standbyd/internal/settings"
	"github.com/colinwhispers/standbyd/internal/tips"
)

// defaultActiveTip seeds the active tip before the first reminder fires.
const defaultActiveTip = "Time to stand up and stretch."

// Config configures the reminder loop.
type Config struct {
	// TickInterval is how often the loop wakes. Default: 5s.
	TickInterval time.Duration

	// StaleAfter is how long an armed prompt may sit unacknowledged
	// before it is counted as a sedentary session. Default: 60s.
	StaleAfter time.Duration

	// MinPromptAge is the debounce window after a prompt is shown during
	// which acknowledgments are dropped. Default: 700ms.
	MinPromptAge time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 5 * time.Second,
		StaleAfter:   60 * time.Second,
		MinPromptAge: 700 * time.Millisecond,
	}
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Persister stores the documents the scheduler mutates. *store.Store
// satisfies it.
type Persister interface {
	SaveSettings(doc settings.Settings)
	SaveEvents(snap eventlog.Snapshot, now int64)
}

// ActiveReminder describes the current prompt state for API consumers.
// ID and Text refer to the most recently armed prompt even after it has
// been dismissed.
type ActiveReminder struct {
	ID      uint64 `json:"id"`
	Text    string `json:"text"`
	Theme   string `json:"theme"`
	Visible bool   `json:"visible"`
}

// Scheduler drives the reminder loop and owns all mutable daemon state:
// the countdown, the active prompt, the settings document and the event
// log. All exported methods are safe for concurrent use.
type Scheduler struct {
	cfg       Config
	stepSecs  uint64
	staleSecs int64

	log     *eventlog.Log
	persist Persister
	sel     *tips.Selector
	pres    Presenter
	hub     *notify.Hub
	metrics *metrics.Metrics
	clock   Clock
	logger  zerolog.Logger

	mu                 sync.Mutex
	running            bool
	ticks              uint64
	elapsedSecs        uint64
	cur                settings.Settings
	lastIntervalChange time.Time

	// Active prompt state. reminderID and activeTip persist across
	// dismissals; the rest is cleared when the prompt goes away.
	reminderID       uint64
	activeTip        string
	startTS          *int64
	shownAt          *time.Time
	sessIntervalSecs uint64
	loggedSedentary  bool
	visible          bool
}

// New creates a Scheduler. Nil presenter, selector, hub, metrics and
// clock fall back to a headless presenter, a time-seeded selector, a
// private hub and registry, and the system clock. A nil persister
// disables persistence.
func New(
	cfg Config,
	init settings.Settings,
	log *eventlog.Log,
	persist Persister,
	sel *tips.Selector,
	pres Presenter,
	hub *notify.Hub,
	m *metrics.Metrics,
	clock Clock,
	logger zerolog.Logger,
) *Scheduler {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = def.StaleAfter
	}
	if cfg.MinPromptAge <= 0 {
		cfg.MinPromptAge = def.MinPromptAge
	}
	if log == nil {
		log = eventlog.New()
	}
	if sel == nil {
		sel = tips.NewSelector(nil)
	}
	if pres == nil {
		pres = NewHeadlessPresenter()
	}
	if m == nil {
		m = metrics.New()
	}
	if hub == nil {
		hub = notify.NewHub(0, m, logger)
	}
	if clock == nil {
		clock = systemClock{}
	}
	stepSecs := uint64(cfg.TickInterval / time.Second)
	if stepSecs == 0 {
		stepSecs = 1
	}
	return &Scheduler{
		cfg:                cfg,
		stepSecs:           stepSecs,
		staleSecs:          int64(cfg.StaleAfter / time.Second),
		log:                log,
		persist:            persist,
		sel:                sel,
		pres:               pres,
		hub:                hub,
		metrics:            m,
		clock:              clock,
		logger:             logger.With().Str("component", "reminder").Logger(),
		cur:                init.Normalized(),
		lastIntervalChange: clock.Now(),
		activeTip:          defaultActiveTip,
	}
}

// Start launches the loop in a background goroutine.
// It returns immediately. Cancel ctx to stop the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("reminder: scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().
		Dur("tick_interval", s.cfg.TickInterval).
		Uint64("interval_minutes", s.IntervalMinutes()).
		Msg("reminder loop starting")

	go s.run(ctx)
	return nil
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TickCount returns the total number of completed ticks.
func (s *Scheduler) TickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// run is the main goroutine. It ticks every TickInterval; the countdown
// starts at zero, so the first tick never fires a reminder.
func (s *Scheduler) run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.logger.Info().Msg("reminder loop stopped")
	}()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(s.clock.Now())
		}
	}
}

// tick advances the state machine by one step. Split from run so tests
// can drive it with a fake clock.
func (s *Scheduler) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++

	if s.visible {
		s.armedTick(now)
		return
	}

	s.elapsedSecs += s.stepSecs
	limit := s.cur.IntervalMinutes * 60
	if s.elapsedSecs < limit {
		s.metrics.SetCountdownSeconds(float64(limit - s.elapsedSecs))
		return
	}

	if s.pres.Present() {
		s.arm(now)
	}
	s.hub.Publish(notify.ReminderFired, "")
	s.metrics.RecordReminderFired()
	s.elapsedSecs = 0
	s.metrics.SetCountdownSeconds(float64(limit))
}

// armedTick handles one tick while a prompt is armed. The countdown does
// not advance.
func (s *Scheduler) armedTick(now time.Time) {
	if !s.pres.Present() {
		// The surface is gone; drop the session without counting it.
		s.visible = false
		s.startTS = nil
		s.shownAt = nil
		s.metrics.SetReminderVisible(false)
		s.logger.Debug().Uint64("reminder_id", s.reminderID).Msg("prompt surface gone, session dropped")
		return
	}

	if !s.pres.Visible() {
		s.pres.Reshow(s.reminderID)
	}

	if s.startTS == nil || s.loggedSedentary {
		return
	}
	lag := now.Unix() - *s.startTS
	if lag < 0 {
		lag = 0
	}
	if lag < s.staleSecs {
		return
	}

	s.loggedSedentary = true
	s.log.AppendSedentary(eventlog.SedentaryEvent{TS: *s.startTS, DurationSecs: s.sessIntervalSecs})
	s.metrics.RecordSedentary("tick")
	s.saveEventsLocked(now.Unix())
	s.hub.Publish(notify.AnalyticsUpdated, "")
	s.logger.Info().
		Uint64("reminder_id", s.reminderID).
		Int64("lag_secs", lag).
		Uint64("duration_secs", s.sessIntervalSecs).
		Msg("sedentary session recorded")
}

// arm starts a new prompt session and shows it on the presenter.
func (s *Scheduler) arm(now time.Time) {
	s.reminderID++
	s.activeTip = tips.Text(s.sel.NextIndex())
	ts := now.Unix()
	s.startTS = &ts
	shown := now
	s.shownAt = &shown
	s.sessIntervalSecs = s.cur.IntervalMinutes * 60
	s.loggedSedentary = false
	s.visible = true

	s.pres.Show(Prompt{
		ID:     s.reminderID,
		Text:   s.activeTip,
		Theme:  s.cur.Theme,
		Bounds: PromptBounds(s.pres.WorkArea()),
	})
	s.metrics.SetReminderVisible(true)
	s.logger.Info().
		Uint64("reminder_id", s.reminderID).
		Uint64("interval_secs", s.sessIntervalSecs).
		Msg("reminder armed")
}

// SetInterval normalizes and applies a new reminder interval, resets the
// countdown, and persists the settings document. It returns the applied
// value and a confirmation message.
func (s *Scheduler) SetInterval(minutes uint64) (uint64, string) {
	s.mu.Lock()
	normalized := settings.NormalizeInterval(minutes)
	s.cur.IntervalMinutes = normalized
	s.elapsedSecs = 0
	s.lastIntervalChange = s.clock.Now()
	s.saveSettingsLocked()
	s.mu.Unlock()

	s.logger.Info().Uint64("minutes", normalized).Msg("reminder interval updated")
	return normalized, fmt.Sprintf("Interval set to %d minutes", normalized)
}

// IntervalMinutes returns the current interval.
func (s *Scheduler) IntervalMinutes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.IntervalMinutes
}

// SetLanguage normalizes and applies the UI language, persists it, and
// publishes a language-changed event. It returns the applied value.
func (s *Scheduler) SetLanguage(language string) string {
	s.mu.Lock()
	normalized := settings.NormalizeLanguage(language)
	s.cur.Language = normalized
	s.saveSettingsLocked()
	s.hub.Publish(notify.LanguageChanged, normalized)
	s.mu.Unlock()
	return normalized
}

// Language returns the current UI language.
func (s *Scheduler) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Language
}

// SetReminderLanguage normalizes and applies the prompt language,
// persists it, and publishes a reminder-language-changed event.
func (s *Scheduler) SetReminderLanguage(language string) string {
	s.mu.Lock()
	normalized := settings.NormalizeLanguage(language)
	s.cur.ReminderLanguage = normalized
	s.saveSettingsLocked()
	s.hub.Publish(notify.ReminderLanguageChanged, normalized)
	s.mu.Unlock()
	return normalized
}

// ReminderLanguage returns the current prompt language.
func (s *Scheduler) ReminderLanguage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.ReminderLanguage
}

// SetTheme normalizes and applies the theme, persists it, and publishes
// a theme-changed event.
func (s *Scheduler) SetTheme(theme string) string {
	s.mu.Lock()
	normalized := settings.NormalizeTheme(theme)
	s.cur.Theme = normalized
	s.saveSettingsLocked()
	s.hub.Publish(notify.ThemeChanged, normalized)
	s.mu.Unlock()
	return normalized
}

// Theme returns the current theme.
func (s *Scheduler) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Theme
}

// Settings returns a copy of the current settings document.
func (s *Scheduler) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// LogStandup records a standup directly, without an armed prompt. The
// countdown resets and any armed prompt is dismissed, but its session
// state is kept so a later acknowledgment cannot double-count it. It
// returns today's standup count.
func (s *Scheduler) LogStandup() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.elapsedSecs = 0
	s.visible = false
	s.metrics.SetReminderVisible(false)

	s.log.AppendStandup(now.Unix())
	s.metrics.RecordStandup("direct")
	s.saveEventsLocked(now.Unix())

	data := s.analyticsLocked(analytics.PeriodDaily, now)
	s.hub.Publish(notify.StandupLogged, "")
	s.hub.Publish(notify.AnalyticsUpdated, "")
	s.logger.Info().Uint32("standup_sessions", data.StandupSessions).Msg("standup logged")
	return data.StandupSessions
}

// Acknowledge resolves the armed prompt. The acknowledgment is dropped
// when reminderID names a stale prompt, no prompt is armed, or the
// prompt was shown less than MinPromptAge ago. Otherwise exactly one
// event is recorded: a sedentary session when the prompt sat
// unacknowledged past StaleAfter and was not already counted by the
// loop, else a standup when stoodUp is set. The countdown resets and the
// prompt is dismissed either way.
func (s *Scheduler) Acknowledge(stoodUp bool, reminderID *uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if reminderID != nil && *reminderID != s.reminderID {
		s.metrics.RecordAcknowledgment("ignored")
		return
	}
	if !s.visible {
		s.metrics.RecordAcknowledgment("ignored")
		return
	}
	now := s.clock.Now()
	if s.shownAt != nil && now.Sub(*s.shownAt) < s.cfg.MinPromptAge {
		s.metrics.RecordAcknowledgment("ignored")
		s.logger.Debug().Uint64("reminder_id", s.reminderID).Msg("acknowledgment within debounce window, dropped")
		return
	}

	wrote := false
	if s.startTS != nil {
		lag := now.Unix() - *s.startTS
		if lag < 0 {
			lag = 0
		}
		if !s.loggedSedentary && lag >= s.staleSecs {
			s.log.AppendSedentary(eventlog.SedentaryEvent{TS: *s.startTS, DurationSecs: s.sessIntervalSecs})
			s.loggedSedentary = true
			s.metrics.RecordSedentary("ack")
			wrote = true
		} else if !s.loggedSedentary && stoodUp {
			s.log.AppendStandup(now.Unix())
			s.metrics.RecordStandup("ack")
			wrote = true
		}
	} else if stoodUp {
		s.log.AppendStandup(now.Unix())
		s.metrics.RecordStandup("ack")
		wrote = true
	}

	s.elapsedSecs = 0
	s.visible = false
	s.startTS = nil
	s.shownAt = nil
	s.metrics.SetReminderVisible(false)
	s.metrics.RecordAcknowledgment("applied")

	if wrote {
		s.saveEventsLocked(now.Unix())
		s.hub.Publish(notify.AnalyticsUpdated, "")
		if stoodUp {
			s.hub.Publish(notify.StandupLogged, "")
		}
	}

	s.pres.Hide()
	s.logger.Info().
		Uint64("reminder_id", s.reminderID).
		Bool("stood_up", stoodUp).
		Bool("wrote", wrote).
		Msg("reminder acknowledged")
}

// StandupCount returns today's standup count.
func (s *Scheduler) StandupCount() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyticsLocked(analytics.PeriodDaily, s.clock.Now()).StandupSessions
}

// Analytics aggregates the event log over the given period. Events past
// retention are pruned first.
func (s *Scheduler) Analytics(period string) analytics.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyticsLocked(period, s.clock.Now())
}

// ResetToday drops all events recorded since the local midnight and
// persists the trimmed log.
func (s *Scheduler) ResetToday() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.log.DropFrom(analytics.PeriodStart(analytics.PeriodDaily, now))
	s.saveEventsLocked(now.Unix())
	s.hub.Publish(notify.AnalyticsUpdated, "")
	s.logger.Info().Msg("today's records reset")
}

// NextTip draws a tip for preview, never repeating the previous draw.
// The active prompt is unaffected.
func (s *Scheduler) NextTip() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.sel.NextIndex()
	return idx, tips.Text(idx)
}

// ActiveReminder returns the current prompt state.
func (s *Scheduler) ActiveReminder() ActiveReminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ActiveReminder{
		ID:      s.reminderID,
		Text:    s.activeTip,
		Theme:   s.cur.Theme,
		Visible: s.visible,
	}
}

// Stats returns a snapshot of loop statistics.
func (s *Scheduler) Stats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"running":              s.running,
		"ticks":                s.ticks,
		"elapsed_secs":         s.elapsedSecs,
		"interval_minutes":     s.cur.IntervalMinutes,
		"reminder_visible":     s.visible,
		"reminder_id":          s.reminderID,
		"last_interval_change": s.lastIntervalChange,
		"tick_interval":        s.cfg.TickInterval.String(),
	}
}

// analyticsLocked prunes expired events and aggregates the rest. The
// caller holds s.mu.
func (s *Scheduler) analyticsLocked(period string, now time.Time) analytics.Data {
	s.log.Prune(now.Unix())
	return analytics.Aggregate(s.log.Snapshot(), period, now)
}

// saveEventsLocked persists the event log. The caller holds s.mu.
func (s *Scheduler) saveEventsLocked(now int64) {
	if s.persist == nil {
		return
	}
	s.persist.SaveEvents(s.log.Snapshot(), now)
}

// saveSettingsLocked persists the settings document. The caller holds s.mu.
func (s *Scheduler) saveSettingsLocked() {
	if s.persist == nil {
		return
	}
	s.persist.SaveSettings(s.cur)
}
