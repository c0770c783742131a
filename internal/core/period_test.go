package core

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "monday maps to itself", date: "2024-01-01", want: "2024-01-01"},
		{name: "wednesday maps back to monday", date: "2024-01-03", want: "2024-01-01"},
		{name: "sunday belongs to the preceding monday", date: "2024-01-07", want: "2024-01-01"},
		{name: "next monday starts a new week", date: "2024-01-08", want: "2024-01-08"},
		{name: "week spanning a month boundary", date: "2024-02-01", want: "2024-01-29"},
		{name: "week spanning a year boundary", date: "2023-12-31", want: "2023-12-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WeekStart(tt.date)
			if err != nil {
				t.Fatalf("WeekStart(%q) error: %v", tt.date, err)
			}
			if got != tt.want {
				t.Errorf("WeekStart(%q) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}

	if _, err := WeekStart("01/03/2024"); err == nil {
		t.Error("WeekStart with non-ISO date should fail")
	}
}

func TestWeekRange(t *testing.T) {
	start, end, err := WeekRange("2024-01-03")
	if err != nil {
		t.Fatalf("WeekRange error: %v", err)
	}
	if start != "2024-01-01" || end != "2024-01-07" {
		t.Errorf("WeekRange(2024-01-03) = %s..%s, want 2024-01-01..2024-01-07", start, end)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15", "2024-01"},
		{"2024-01", "2024-01"},
		{"2024-12-31", "2024-12"},
	}
	for _, tt := range tests {
		if got := MonthKey(tt.input); got != tt.want {
			t.Errorf("MonthKey(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange("2024-02")
	if start != "2024-02-01" || end != "2024-02-31" {
		t.Errorf("MonthRange(2024-02) = %s..%s", start, end)
	}
}

func TestDayName(t *testing.T) {
	d, _ := ParseDate("2024-01-03")
	if got := DayName(d); got != "Wednesday" {
		t.Errorf("DayName(2024-01-03) = %s, want Wednesday", got)
	}
}

func TestClockTime(t *testing.T) {
	at := time.Date(2024, 1, 3, 17, 4, 0, 0, time.UTC)
	if got := ClockTime(at); got != "05:04 PM" {
		t.Errorf("ClockTime(17:04) = %s, want 05:04 PM", got)
	}
}
