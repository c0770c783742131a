package core

import (
	"time"
)

// DateLayout is the calendar-date format used as the daily period key.
const DateLayout = "2006-01-02"

// MonthLayout is the YYYY-MM format used as the monthly period key.
const MonthLayout = "2006-01"

// ParseDate parses a YYYY-MM-DD period key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// WeekStart returns the Monday on or before date. A Sunday belongs to the
// week that started six days earlier, not to the following week.
func WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, -(wd - 1)).Format(DateLayout), nil
}

// WeekEnd returns the Sunday on or after date, the last day of its week.
func WeekEnd(date string) (string, error) {
	start, err := WeekStart(date)
	if err != nil {
		return "", err
	}
	t, _ := ParseDate(start)
	return t.AddDate(0, 0, 6).Format(DateLayout), nil
}

// WeekRange returns both boundaries of the week containing date.
func WeekRange(date string) (start, end string, err error) {
	start, err = WeekStart(date)
	if err != nil {
		return "", "", err
	}
	end, err = WeekEnd(date)
	return start, end, err
}

// MonthKey returns the YYYY-MM prefix of a date or month key. Inputs shorter
// than a full date are passed through, so "2024-01" stays "2024-01".
func MonthKey(date string) string {
	if len(date) <= len(MonthLayout) {
		return date
	}
	return date[:len(MonthLayout)]
}

// MonthRange returns the inclusive date range covering a YYYY-MM key.
func MonthRange(month string) (start, end string) {
	return month + "-01", month + "-31"
}

// DayName returns the display weekday for a date, e.g. "Wednesday".
func DayName(t time.Time) string {
	return t.Weekday().String()
}

// ClockTime renders a timestamp as the 12-hour display time, e.g. "05:04 PM".
func ClockTime(t time.Time) string {
	return t.Format("03:04 PM")
}
