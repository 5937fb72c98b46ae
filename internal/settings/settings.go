// Package settings defines the persisted user settings document and its
// normalization rules. Loading never fails: unknown or corrupted values are
// replaced by defaults so the daemon always starts with a usable document.
package settings

// DefaultIntervalMinutes is the reminder cadence used when the stored value
// is missing or not in AllowedIntervalMinutes.
const DefaultIntervalMinutes uint64 = 50

// AllowedIntervalMinutes is the closed set of reminder cadences the prompt
// UI offers. Anything else in a persisted document is treated as corrupt.
var AllowedIntervalMinutes = []uint64{5, 10, 20, 30, 50}

// Supported language codes.
const (
	LanguageEnglish = "en"
	LanguageChinese = "zh-CN"
)

// Supported prompt themes.
const (
	ThemeDay   = "day"
	ThemeNight = "night"
)

// Settings is the user settings document persisted as config.json.
type Settings struct {
	IntervalMinutes  uint64 `json:"interval_minutes"`
	Language         string `json:"language"`
	ReminderLanguage string `json:"reminder_language"`
	Theme            string `json:"theme"`
}

// Default returns the settings used on first run.
func Default() Settings {
	return Settings{
		IntervalMinutes:  DefaultIntervalMinutes,
		Language:         LanguageEnglish,
		ReminderLanguage: LanguageEnglish,
		Theme:            ThemeNight,
	}
}

// Normalized returns a copy with every field coerced into its allowed set.
func (s Settings) Normalized() Settings {
	return Settings{
		IntervalMinutes:  NormalizeInterval(s.IntervalMinutes),
		Language:         NormalizeLanguage(s.Language),
		ReminderLanguage: NormalizeLanguage(s.ReminderLanguage),
		Theme:            NormalizeTheme(s.Theme),
	}
}

// NormalizeInterval clamps minutes to the allowed set, falling back to the
// default cadence.
func NormalizeInterval(minutes uint64) uint64 {
	for _, allowed := range AllowedIntervalMinutes {
		if minutes == allowed {
			return minutes
		}
	}
	return DefaultIntervalMinutes
}

// NormalizeLanguage maps anything that is not exactly "zh-CN" to "en".
func NormalizeLanguage(lang string) string {
	if lang == LanguageChinese {
		return LanguageChinese
	}
	return LanguageEnglish
}

// NormalizeTheme maps anything that is not exactly "day" to "night".
func NormalizeTheme(theme string) string {
	if theme == ThemeDay {
		return ThemeDay
	}
	return ThemeNight
}
