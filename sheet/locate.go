package sheet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/uhppoted/uhppoted-app-formfiles/errors"
)

// Spreadsheet serial dates count days from 1899-12-30 in the spreadsheet's time zone.
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var layouts = []string{
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// Locate returns the index of the first row whose first cell holds the same
// timestamp, to the second, as the form response. Cells may be spreadsheet
// serial numbers or formatted date/time strings in the spreadsheet time zone.
func Locate(rows [][]any, timestamp time.Time, loc *time.Location) (int, error) {
	if loc == nil {
		loc = time.UTC
	}

	target := serial(timestamp, loc)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		if v, ok := seconds(row[0], loc); ok && v == target {
			return i, nil
		}
	}

	return -1, errors.NewNotFoundError(fmt.Sprintf("no response log row with timestamp %v", timestamp.In(loc).Format("2006-01-02 15:04:05 MST")), nil)
}

// serial returns the wall clock time in loc as seconds since the spreadsheet
// epoch. Fractional seconds are truncated.
func serial(t time.Time, loc *time.Location) int64 {
	w := t.In(loc)
	wall := time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, time.UTC)

	return wall.Unix() - epoch.Unix()
}

func seconds(v any, loc *time.Location) (int64, bool) {
	switch value := v.(type) {
	case float64:
		ms := int64(math.Round(value * 86400000))
		return ms / 1000, true

	case int:
		return int64(value) * 86400, true

	case int64:
		return value * 86400, true

	case string:
		s := strings.TrimSpace(value)
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return serial(t, loc), true
			}
		}
	}

	return 0, false
}

// ParseSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL. A
// bare ID is returned as is.
func ParseSpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)

	if match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(s); len(match) > 1 && match[1] != "" {
		return match[1], nil
	}

	if regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(s) {
		return s, nil
	}

	return "", errors.NewConfigurationError(fmt.Sprintf("invalid spreadsheet URL '%v' - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'", s), nil)
}

// origin returns the worksheet name and the top-left cell of an A1 range as
// returned by the Sheets API e.g. 'Form Responses 1'!A1:Z1000.
func origin(area string) (string, int, int, error) {
	match := regexp.MustCompile(`^(.+)!([A-Za-z]+)([0-9]*)(?::.*)?$`).FindStringSubmatch(strings.TrimSpace(area))
	if len(match) < 4 {
		return "", 0, 0, fmt.Errorf("invalid range '%v'", area)
	}

	row := 1
	if match[3] != "" {
		if v, err := strconv.Atoi(match[3]); err != nil {
			return "", 0, 0, fmt.Errorf("invalid range '%v' (%v)", area, err)
		} else {
			row = v
		}
	}

	return match[1], index(match[2]), row, nil
}

// column converts a 0-based column index to A1 column letters.
func column(index int) string {
	letters := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}

	return letters
}

// index converts A1 column letters to a 0-based column index.
func index(letters string) int {
	n := 0
	for _, r := range strings.ToUpper(letters) {
		n = n*26 + int(r-'A') + 1
	}

	return n - 1
}
