package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// EditorDateLayout is the date-time layout used in point forms.
	EditorDateLayout = "02/01/06 15:04"
	cardDateLayout   = "Jan 2"
	cardTimeLayout   = "15:04"
	tripDateLayout   = "2 Jan"

	// Longer spans are shown with the full day count.
	minDaysInMonth = 29
)

// FormatCardDate formats the day of a point for the list ("Jul 10").
func FormatCardDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(cardDateLayout)
}

// FormatTime formats the time of day ("14:05").
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(cardTimeLayout)
}

// FormatEditorDate formats a timestamp for a form field.
func FormatEditorDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(EditorDateLayout)
}

// FormatTripDate formats a trip boundary for the header ("10 Jul").
func FormatTripDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(tripDateLayout)
}

// ParseEditorDate parses flexible user input into a timestamp in loc.
func ParseEditorDate(input string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	layouts := []string{
		EditorDateLayout,
		"02/01/2006 15:04",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date format, want dd/mm/yy hh:mm")
}

// FormatDuration formats a point duration as "05M", "02H 05M" or
// "01D 02H 05M". Spans longer than a month show the full day count.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	days := total / (24 * 60)
	hours := total / 60 % 24
	minutes := total % 60

	switch {
	case days > minDaysInMonth:
		return fmt.Sprintf("%dD %02dH %02dM", days, hours, minutes)
	case d >= 24*time.Hour:
		return fmt.Sprintf("%02dD %02dH %02dM", days, hours, minutes)
	case d >= time.Hour:
		return fmt.Sprintf("%02dH %02dM", hours, minutes)
	default:
		return fmt.Sprintf("%02dM", minutes)
	}
}

// FormatPrice formats an amount with thousands separators ("€ 1,250").
func FormatPrice(amount int) string {
	return "€ " + humanize.Comma(int64(amount))
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
