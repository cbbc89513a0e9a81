package dvk

import (
	"fmt"
	"time"
)

// TimeUnset is the time value of a record with no known publication time.
const TimeUnset = "0000/00/00|00:00"

// SetTimeInt stores a publication time from its parts. Out of range parts
// leave the time unset.
func (r *Record) SetTimeInt(year, month, day, hour, minute int) {
	if year < 1 || year > 9999 || month < 1 || month > 12 || day < 1 || day > 31 ||
		hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		r.time = ""
		return
	}
	r.time = fmt.Sprintf("%04d/%02d/%02d|%02d:%02d", year, month, day, hour, minute)
}

// SetTime parses a time in the canonical layout. Any single non-digit
// character is accepted as a separator, so "2017!10!06!05!00" is valid.
func (r *Record) SetTime(value string) {
	if len(value) != len(TimeUnset) {
		r.time = ""
		return
	}
	var parts [5]int
	fields := [5][2]int{{0, 4}, {5, 7}, {8, 10}, {11, 13}, {14, 16}}
	for i, field := range fields {
		for _, c := range []byte(value[field[0]:field[1]]) {
			if !isDigit(c) {
				r.time = ""
				return
			}
			parts[i] = parts[i]*10 + int(c-'0')
		}
	}
	for _, sep := range []int{4, 7, 10, 13} {
		if isDigit(value[sep]) {
			r.time = ""
			return
		}
	}
	r.SetTimeInt(parts[0], parts[1], parts[2], parts[3], parts[4])
}

// SetTimeValue stores t, truncated to the minute.
func (r *Record) SetTimeValue(t time.Time) {
	if t.IsZero() {
		r.time = ""
		return
	}
	r.SetTimeInt(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute())
}

// Time returns the canonical publication time or TimeUnset.
func (r *Record) Time() string {
	if r.time == "" {
		return TimeUnset
	}
	return r.time
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
