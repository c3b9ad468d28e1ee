// Package profile turns raw extracted experience into verified candidate
// data: deterministic role durations, seniority bands, and per-skill
// aggregated metrics. LLM output is treated as transcription only; every
// number persisted here is computed locally.
package profile

import (
	"log"
	"strings"
	"time"
)

// DefaultReferenceDate resolves "Present" when no reference date is
// configured. Kept fixed rather than using the wall clock so repeated
// ingestions of the same resume produce identical rows.
const DefaultReferenceDate = "2026-01-01"

// dateLayouts are the accepted resume date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// ParseRoleDate parses a raw resume date. The zero time is returned when no
// layout matches.
func ParseRoleDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsOngoing reports whether a raw end date marks a still-running role.
func IsOngoing(raw string) bool {
	return raw == "" || raw == "N/A" || strings.Contains(strings.ToLower(raw), "present")
}

// ResolveEndDate parses a raw end date, mapping ongoing markers ("Present",
// "N/A", empty) to the reference date.
func ResolveEndDate(raw string, ref time.Time) (time.Time, bool) {
	if IsOngoing(raw) {
		return ref, true
	}
	return ParseRoleDate(raw)
}

// DurationMonths is the verified month span between two dates. Day-of-month
// is ignored: January to March is two months regardless of the days.
func DurationMonths(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
}

// RoleDuration computes a role's verified duration from its raw dates.
// Unparseable dates yield 0 with a warning rather than failing ingestion.
func RoleDuration(startRaw, endRaw string, ref time.Time) int {
	start, ok := ParseRoleDate(startRaw)
	if !ok {
		log.Printf("[PROFILE] unparseable start date %q, recording 0 months", startRaw)
		return 0
	}
	end, ok := ResolveEndDate(endRaw, ref)
	if !ok {
		log.Printf("[PROFILE] unparseable end date %q, recording 0 months", endRaw)
		return 0
	}
	return DurationMonths(start, end)
}
