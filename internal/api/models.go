package api

// IntervalUpdateRequest is the body for PUT /api/v1/settings/interval.
type IntervalUpdateRequest struct {
	Minutes uint64 `json:"minutes"`
}

// IntervalResponse echoes the applied interval. Message is set on updates.
type IntervalResponse struct {
	Minutes uint64 `json:"minutes"`
	Message string `json:"message,omitempty"`
}

// LanguageUpdateRequest is the body for the language PUT endpoints.
type LanguageUpdateRequest struct {
	Language string `json:"language"`
}

// LanguageResponse echoes the applied language.
type LanguageResponse struct {
	Language string `json:"language"`
}

// ThemeUpdateRequest is the body for PUT /api/v1/settings/theme.
type ThemeUpdateRequest struct {
	Theme string `json:"theme"`
}

// ThemeResponse echoes the applied theme.
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// AcknowledgeRequest is the body for POST /api/v1/reminder/acknowledge.
// ReminderID guards against acknowledging a prompt that has already been
// replaced; omit it to target whatever prompt is armed.
type AcknowledgeRequest struct {
	StoodUp    bool    `json:"stood_up"`
	ReminderID *uint64 `json:"reminder_id,omitempty"`
}

// StatusResponse acknowledges a fire-and-forget operation.
type StatusResponse struct {
	Status string `json:"status"`
}

// StandupResponse carries today's standup count.
type StandupResponse struct {
	StandupSessions uint32 `json:"standup_sessions"`
}

// TipResponse is the response for GET /api/v1/tip.
type TipResponse struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ExportCSVRequest is the body for POST /api/v1/analytics/export/csv.
type ExportCSVRequest struct {
	Period string `json:"period"`
}

// ExportPNGRequest is the body for POST /api/v1/analytics/export/png.
// DataURL is a data:image/png;base64 payload rendered by the client.
type ExportPNGRequest struct {
	DataURL string `json:"data_url"`
}

// ExportResponse carries the path of the written export file.
type ExportResponse struct {
	Path string `json:"path"`
}

// LocaleResponse is the response for GET /api/v1/locale.
type LocaleResponse struct {
	Language string `json:"language"`
}

// HealthDetailResponse is the response for GET /api/v1/health.
type HealthDetailResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
}

// ProblemDetail follows RFC 7807 for error responses.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}
