package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// ParseFunc converts one raw cell. ok is false when the cell does not parse.
type ParseFunc[T any] func(raw string) (value T, ok bool)

// DateStrategies are tried in order against the whole Date column. The first
// strategy that parses at least one cell is used for every cell.
var DateStrategies = []ParseFunc[time.Time]{
	ParseUSDate,
	ParseISODate,
}

var isoDateLayouts = []string{
	domain.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var timestampLayouts = []string{
	"1/2/2006 15:04:05 -07:00",
	"1/2/2006 15:04:05 -0700",
}

var clockDuration = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})(\.\d+)?$`)

// ParseUSDate parses the part of the cell before the first space as MM/DD/YYYY.
func ParseUSDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		raw = raw[:i]
	}
	t, err := time.Parse("1/2/2006", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseISODate parses ISO dates and datetimes, keeping the calendar date.
func ParseISODate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return truncateToDate(t), true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp parses MM/DD/YYYY HH:MM:SS ±HH:MM timestamps.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseClockDuration converts HH:MM:SS[.fraction] to seconds.
func ParseClockDuration(raw string) (float64, bool) {
	m := clockDuration.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	if hours > 23 || minutes > 59 || secs > 59 {
		return 0, false
	}

	seconds := float64(hours*3600 + minutes*60 + secs)
	if m[4] != "" {
		frac, _ := strconv.ParseFloat("0"+m[4], 64)
		seconds += frac
	}
	return seconds, true
}

// ResolveDates parses the Date column. ok[i] is false for rows that must be dropped.
func ResolveDates(column []string) (dates []time.Time, ok []bool) {
	for _, strategy := range DateStrategies {
		dates, ok = applyColumn(column, strategy)
		if anyTrue(ok) {
			return dates, ok
		}
	}
	return dates, ok
}

// ResolveDurations derives a holding time in seconds for every row. Entry and
// exit timestamps take precedence over a Duration column. Unresolvable rows get 0.
func ResolveDurations(n *NormalizedTable) []float64 {
	durations := make([]float64, len(n.Rows))

	if entered, exited, ok := n.Timestamps(); ok {
		for i := range durations {
			start, okStart := ParseTimestamp(entered[i])
			end, okEnd := ParseTimestamp(exited[i])
			if !okStart || !okEnd {
				continue
			}
			if d := end.Sub(start).Seconds(); d > 0 {
				durations[i] = d
			}
		}
		return durations
	}

	column := n.Column(domain.FieldDuration)
	if column == nil {
		return durations
	}

	parse := ParseClockDuration
	if isNumericColumn(column) {
		parse = parseNumber
	}
	for i, raw := range column {
		if d, ok := parse(raw); ok && d > 0 {
			durations[i] = d
		}
	}
	return durations
}

func applyColumn[T any](column []string, parse ParseFunc[T]) ([]T, []bool) {
	values := make([]T, len(column))
	ok := make([]bool, len(column))
	for i, raw := range column {
		values[i], ok[i] = parse(raw)
	}
	return values, ok
}

func anyTrue(values []bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
