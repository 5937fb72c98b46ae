// Package export renders analytics aggregates to files a user can share:
// a CSV table of hourly session counts and a PNG heatmap handed over by the
// shell as a base64 data URI.
package export

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colinwhispers/standbyd/internal/analytics"
)

// MinRecords is the smallest aggregate a CSV export accepts. Exports of
// near-empty periods are refused rather than producing a misleading file.
const MinRecords uint32 = 5

const (
	pngPrefix     = "data:image/png;base64,"
	timestampFmt  = "20060102_150405"
	csvHeader     = "hour,sedentary_sessions,standup_sessions"
	filePrefixCSV = "standby_%s_analytics_%s.csv"
	filePrefixPNG = "standby_24h_heatmap_%s.png"
)

// BuildCSV renders the aggregate as CSV text: a header row, one row per
// hourly bin, a totals row, and a total-sitting-minutes row. Rows are joined
// with newlines and the result carries no trailing newline.
func BuildCSV(data analytics.Data) (string, error) {
	if data.RecordCount < MinRecords {
		return "", &InsufficientDataError{Required: MinRecords, Count: data.RecordCount}
	}

	rows := make([]string, 0, analytics.Hours+3)
	rows = append(rows, csvHeader)
	for hour := 0; hour < analytics.Hours; hour++ {
		rows = append(rows, fmt.Sprintf("%02d:00,%d,%d",
			hour, data.HourlySedentary[hour], data.HourlyStandup[hour]))
	}
	rows = append(rows, fmt.Sprintf("totals,%d,%d",
		data.SedentarySessions, data.StandupSessions))
	rows = append(rows, fmt.Sprintf("total_sitting_minutes,%d,",
		data.TotalSittingSecs/60))

	return strings.Join(rows, "\n"), nil
}

// CSVFileName builds the export file name for a period at the given time.
func CSVFileName(period string, now time.Time) string {
	return fmt.Sprintf(filePrefixCSV, analytics.NormalizePeriod(period), now.Format(timestampFmt))
}

// PNGFileName builds the heatmap file name for the given time.
func PNGFileName(now time.Time) string {
	return fmt.Sprintf(filePrefixPNG, now.Format(timestampFmt))
}

// DecodePNG validates and decodes a PNG data URI produced by the shell's
// canvas. Only the data:image/png;base64 scheme is accepted.
func DecodePNG(dataURL string) ([]byte, error) {
	payload, ok := strings.CutPrefix(dataURL, pngPrefix)
	if !ok {
		return nil, ErrInvalidPNGPayload
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return raw, nil
}

// WriteFile writes b to dir/name, creating dir as needed, and returns the
// written path.
func WriteFile(dir, name string, b []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write failed: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write failed: %w", err)
	}
	return path, nil
}
