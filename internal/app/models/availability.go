package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeWindow is a contiguous time-of-day interval in "HH:MM" format (24h, minute precision).
type TimeWindow struct {
	StartTime string `json:"startTime" example:"09:00"`
	EndTime   string `json:"endTime" example:"12:00"`
}

// DayAvailability lists the open windows for one weekday.
type DayAvailability struct {
	Day       string       `json:"day" example:"Monday"`
	TimeSlots []TimeWindow `json:"timeSlots"`
}

// WeeklyAvailability is an instructor's recurring weekly schedule. It is an
// immutable snapshot: updates replace the whole set, there is no merge.
type WeeklyAvailability []DayAvailability

var weekdayNames = map[string]bool{
	"Sunday": true, "Monday": true, "Tuesday": true, "Wednesday": true,
	"Thursday": true, "Friday": true, "Saturday": true,
}

// ParseMinuteOfDay converts an "HH:MM" clock string to minutes since midnight.
// Comparing parsed minutes avoids the lexicographic pitfall with single-digit
// hours ("9:00" > "10:00" as strings).
func ParseMinuteOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return hour*60 + minute, nil
}

// CanonicalClock normalizes a clock string to zero-padded "HH:MM" so that
// "9:00" and "09:00" denote the same stored slot. String comparisons (the
// exact-slot conflict rule, the active-slot unique index, start_time
// ordering) rely on this canonical form.
func CanonicalClock(s string) (string, error) {
	minute, err := ParseMinuteOfDay(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60), nil
}

// IsAvailable reports whether some single window on the weekday of date fully
// contains [startTime, endTime]. A request spanning two adjacent windows is
// rejected even when they are contiguous; containment is per window, not over
// the union.
func (w WeeklyAvailability) IsAvailable(date time.Time, startTime, endTime string) bool {
	reqStart, err := ParseMinuteOfDay(startTime)
	if err != nil {
		return false
	}
	reqEnd, err := ParseMinuteOfDay(endTime)
	if err != nil {
		return false
	}

	dayName := date.Weekday().String()
	for _, day := range w {
		if day.Day != dayName {
			continue
		}
		for _, window := range day.TimeSlots {
			winStart, err := ParseMinuteOfDay(window.StartTime)
			if err != nil {
				continue
			}
			winEnd, err := ParseMinuteOfDay(window.EndTime)
			if err != nil {
				continue
			}
			if winStart <= reqStart && winEnd >= reqEnd {
				return true
			}
		}
	}
	return false
}

// Validate checks structural invariants of the schedule: known weekday names,
// well-formed times, start before end, and non-overlapping windows within a
// single day. Enforced on updates so stored schedules are always coherent.
func (w WeeklyAvailability) Validate() error {
	for _, day := range w {
		if !weekdayNames[day.Day] {
			return fmt.Errorf("unknown day of week %q", day.Day)
		}

		type span struct{ start, end int }
		spans := make([]span, 0, len(day.TimeSlots))
		for _, window := range day.TimeSlots {
			start, err := ParseMinuteOfDay(window.StartTime)
			if err != nil {
				return err
			}
			end, err := ParseMinuteOfDay(window.EndTime)
			if err != nil {
				return err
			}
			if start >= end {
				return fmt.Errorf("%s window %s-%s: start must be before end", day.Day, window.StartTime, window.EndTime)
			}
			spans = append(spans, span{start, end})
		}

		for i := range spans {
			for j := i + 1; j < len(spans); j++ {
				if spans[i].start < spans[j].end && spans[j].start < spans[i].end {
					return fmt.Errorf("%s windows overlap", day.Day)
				}
			}
		}
	}
	return nil
}
