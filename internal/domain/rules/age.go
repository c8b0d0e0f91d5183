package rules

import (
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "02/01/2006"}

// ParseDate accepts the calendar date formats clients send.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func AgeYears(birthdate, now time.Time) int {
	if birthdate.IsZero() || now.Before(birthdate) {
		return 0
	}
	years := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() || (now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		years--
	}
	return years
}
