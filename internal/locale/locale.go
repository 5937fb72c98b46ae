// Package locale detects the host system's UI language from the environment.
package locale

import (
	"os"
	"strings"

	"github.com/colinwhispers/standbyd/internal/settings"
)

// lookup order follows POSIX precedence.
var envKeys = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Detect maps the first non-empty locale variable to a supported language
// code: anything starting with "zh" becomes zh-CN, everything else en.
func Detect(getenv func(string) string) string {
	for _, key := range envKeys {
		v := getenv(key)
		if v == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(v), "zh") {
			return settings.LanguageChinese
		}
		return settings.LanguageEnglish
	}
	return settings.LanguageEnglish
}

// System detects the language from the process environment.
func System() string {
	return Detect(os.Getenv)
}
