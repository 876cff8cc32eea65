package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
)

// DateLayout is the calendar-day format accepted in query strings.
const DateLayout = "2006-01-02"

// Supported periods.
const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodMonth     = "month"
	PeriodCustom    = "custom"
)

// Range is an inclusive time window.
type Range struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the window.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Resolve turns a period keyword (or an explicit start/end pair) into a window anchored at now.
// It returns nil when no filter was requested.
func Resolve(period, startDate, endDate string, now time.Time) (*Range, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" && (startDate != "" || endDate != "") {
		period = PeriodCustom
	}

	switch period {
	case "":
		return nil, nil
	case PeriodToday:
		return &Range{From: StartOfDay(now), To: EndOfDay(now)}, nil
	case PeriodYesterday:
		y := now.AddDate(0, 0, -1)
		return &Range{From: StartOfDay(y), To: EndOfDay(y)}, nil
	case PeriodMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &Range{From: first, To: first.AddDate(0, 1, 0).Add(-time.Nanosecond)}, nil
	case PeriodCustom:
		if startDate == "" || endDate == "" {
			return nil, apperrors.NewValidationError("custom period requires startDate and endDate")
		}
		return Between(startDate, endDate, now.Location())
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown period %q, expected today, yesterday, month or custom", period))
	}
}

// Between parses two calendar days and spans from the start of the first to the end of the second.
func Between(startDate, endDate string, loc *time.Location) (*Range, error) {
	from, err := ParseDay(startDate, loc)
	if err != nil {
		return nil, err
	}
	to, err := ParseDay(endDate, loc)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, apperrors.NewValidationError("startDate must be before or equal to endDate")
	}
	return &Range{From: StartOfDay(from), To: EndOfDay(to)}, nil
}

// ParseDay accepts YYYY-MM-DD or a full RFC3339 timestamp.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid date %q, use YYYY-MM-DD", value))
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
