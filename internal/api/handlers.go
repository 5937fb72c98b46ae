package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/colinwhispers/standbyd/internal/analytics"
	"github.com/colinwhispers/standbyd/internal/export"
	"github.com/colinwhispers/standbyd/internal/health"
	"github.com/colinwhispers/standbyd/internal/locale"
	"github.com/colinwhispers/standbyd/internal/metrics"
	"github.com/colinwhispers/standbyd/internal/reminder"
	"github.com/colinwhispers/standbyd/internal/store"
)

// Version is reported by GET /api/v1/health.
const Version = "1.2.0"

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	sched     *reminder.Scheduler
	store     *store.Store
	checker   *health.Checker
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	startTime time.Time

	// now is swappable for export filename tests.
	now func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sched *reminder.Scheduler, st *store.Store, checker *health.Checker, m *metrics.Metrics, logger zerolog.Logger) *Handlers {
	if m == nil {
		m = metrics.New()
	}
	return &Handlers{
		sched:     sched,
		store:     st,
		checker:   checker,
		metrics:   m,
		logger:    logger.With().Str("component", "handlers").Logger(),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// GetSettings handles GET /api/v1/settings.
func (h *Handlers) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.sched.Settings())
}

// GetInterval handles GET /api/v1/settings/interval.
func (h *Handlers) GetInterval(c *fiber.Ctx) error {
	return c.JSON(IntervalResponse{Minutes: h.sched.IntervalMinutes()})
}

// SetInterval handles PUT /api/v1/settings/interval. Values outside the
// supported catalog are coerced to the default; the response echoes what
// was applied.
func (h *Handlers) SetInterval(c *fiber.Ctx) error {
	var req IntervalUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	minutes, msg := h.sched.SetInterval(req.Minutes)
	return c.JSON(IntervalResponse{Minutes: minutes, Message: msg})
}

// GetLanguage handles GET /api/v1/settings/language.
func (h *Handlers) GetLanguage(c *fiber.Ctx) error {
	return c.JSON(LanguageResponse{Language: h.sched.Language()})
}

// SetLanguage handles PUT /api/v1/settings/language.
func (h *Handlers) SetLanguage(c *fiber.Ctx) error {
	var req LanguageUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	return c.JSON(LanguageResponse{Language: h.sched.SetLanguage(req.Language)})
}

// GetReminderLanguage handles GET /api/v1/settings/reminder-language.
func (h *Handlers) GetReminderLanguage(c *fiber.Ctx) error {
	return c.JSON(LanguageResponse{Language: h.sched.ReminderLanguage()})
}

// SetReminderLanguage handles PUT /api/v1/settings/reminder-language.
func (h *Handlers) SetReminderLanguage(c *fiber.Ctx) error {
	var req LanguageUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	return c.JSON(LanguageResponse{Language: h.sched.SetReminderLanguage(req.Language)})
}

// GetTheme handles GET /api/v1/settings/theme.
func (h *Handlers) GetTheme(c *fiber.Ctx) error {
	return c.JSON(ThemeResponse{Theme: h.sched.Theme()})
}

// SetTheme handles PUT /api/v1/settings/theme.
func (h *Handlers) SetTheme(c *fiber.Ctx) error {
	var req ThemeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	return c.JSON(ThemeResponse{Theme: h.sched.SetTheme(req.Theme)})
}

// ActiveReminder handles GET /api/v1/reminder.
func (h *Handlers) ActiveReminder(c *fiber.Ctx) error {
	return c.JSON(h.sched.ActiveReminder())
}

// Acknowledge handles POST /api/v1/reminder/acknowledge. Acknowledgments
// are fire-and-forget: stale, debounced and no-prompt acknowledgments are
// silently dropped and the response is 200 either way.
func (h *Handlers) Acknowledge(c *fiber.Ctx) error {
	var req AcknowledgeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return problemResponse(c, fiber.StatusBadRequest,
				"invalid_body", "Bad Request",
				"Invalid request body: "+err.Error())
		}
	}

	h.sched.Acknowledge(req.StoodUp, req.ReminderID)
	return c.JSON(StatusResponse{Status: "ok"})
}

// NextTip handles GET /api/v1/tip.
func (h *Handlers) NextTip(c *fiber.Ctx) error {
	idx, text := h.sched.NextTip()
	return c.JSON(TipResponse{Index: idx, Text: text})
}

// LogStandup handles POST /api/v1/standups.
func (h *Handlers) LogStandup(c *fiber.Ctx) error {
	return c.JSON(StandupResponse{StandupSessions: h.sched.LogStandup()})
}

// StandupCount handles GET /api/v1/standups/count.
func (h *Handlers) StandupCount(c *fiber.Ctx) error {
	return c.JSON(StandupResponse{StandupSessions: h.sched.StandupCount()})
}

// Analytics handles GET /api/v1/analytics. Unknown periods aggregate as
// daily.
func (h *Handlers) Analytics(c *fiber.Ctx) error {
	period := c.Query("period", analytics.PeriodDaily)
	return c.JSON(h.sched.Analytics(period))
}

// ExportCSV handles POST /api/v1/analytics/export/csv. The export is
// refused outright when the period holds fewer records than the CSV is
// worth writing for.
func (h *Handlers) ExportCSV(c *fiber.Ctx) error {
	var req ExportCSVRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return problemResponse(c, fiber.StatusBadRequest,
				"invalid_body", "Bad Request",
				"Invalid request body: "+err.Error())
		}
	}
	period := analytics.NormalizePeriod(req.Period)

	content, err := export.BuildCSV(h.sched.Analytics(period))
	if err != nil {
		h.metrics.RecordExport("csv", "refused")
		return problemResponse(c, fiber.StatusUnprocessableEntity,
			"insufficient_data", "Unprocessable Entity",
			err.Error())
	}

	dir, err := h.store.ExportDir()
	if err != nil {
		h.metrics.RecordExport("csv", "error")
		return problemResponse(c, fiber.StatusInternalServerError,
			"export_dir_unresolved", "Internal Server Error",
			err.Error())
	}

	path, err := export.WriteFile(dir, export.CSVFileName(period, h.now()), []byte(content))
	if err != nil {
		h.metrics.RecordExport("csv", "error")
		return problemResponse(c, fiber.StatusInternalServerError,
			"write_failed", "Internal Server Error",
			err.Error())
	}

	h.metrics.RecordExport("csv", "ok")
	h.logger.Info().Str("path", path).Str("period", period).Msg("analytics exported to csv")
	return c.JSON(ExportResponse{Path: path})
}

// ExportPNG handles POST /api/v1/analytics/export/png.
func (h *Handlers) ExportPNG(c *fiber.Ctx) error {
	var req ExportPNGRequest
	if err := c.BodyParser(&req); err != nil {
		return problemResponse(c, fiber.StatusBadRequest,
			"invalid_body", "Bad Request",
			"Invalid request body: "+err.Error())
	}

	png, err := export.DecodePNG(req.DataURL)
	if err != nil {
		h.metrics.RecordExport("png", "refused")
		errType := "decode_failed"
		if errors.Is(err, export.ErrInvalidPNGPayload) {
			errType = "invalid_payload"
		}
		return problemResponse(c, fiber.StatusBadRequest,
			errType, "Bad Request",
			err.Error())
	}

	dir, err := h.store.ExportDir()
	if err != nil {
		h.metrics.RecordExport("png", "error")
		return problemResponse(c, fiber.StatusInternalServerError,
			"export_dir_unresolved", "Internal Server Error",
			err.Error())
	}

	path, err := export.WriteFile(dir, export.PNGFileName(h.now()), png)
	if err != nil {
		h.metrics.RecordExport("png", "error")
		return problemResponse(c, fiber.StatusInternalServerError,
			"write_failed", "Internal Server Error",
			err.Error())
	}

	h.metrics.RecordExport("png", "ok")
	h.logger.Info().Str("path", path).Msg("heatmap exported to png")
	return c.JSON(ExportResponse{Path: path})
}

// ResetToday handles POST /api/v1/analytics/reset-today.
func (h *Handlers) ResetToday(c *fiber.Ctx) error {
	h.sched.ResetToday()
	return c.JSON(StatusResponse{Status: "ok"})
}

// Locale handles GET /api/v1/locale.
func (h *Handlers) Locale(c *fiber.Ctx) error {
	return c.JSON(LocaleResponse{Language: locale.System()})
}

// HealthDetail handles GET /api/v1/health.
func (h *Handlers) HealthDetail(c *fiber.Ctx) error {
	results := h.checker.RunAll(c.Context())

	checks := make(map[string]string, len(results))
	overall := "ok"
	for name, status := range results {
		checks[name] = string(status)
		if status == health.StatusDown {
			overall = "degraded"
		}
	}

	uptime := time.Since(h.startTime).Round(time.Second).String()

	return c.JSON(HealthDetailResponse{
		Status:  overall,
		Checks:  checks,
		Uptime:  uptime,
		Version: Version,
	})
}

// SchedulerStats handles GET /api/v1/scheduler.
func (h *Handlers) SchedulerStats(c *fiber.Ctx) error {
	return c.JSON(h.sched.Stats())
}

// Liveness handles GET /healthz.
func (h *Handlers) Liveness(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Readiness handles GET /readyz.
func (h *Handlers) Readiness(c *fiber.Ctx) error {
	ready := h.checker.IsReady(c.Context())
	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "not_ready",
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
