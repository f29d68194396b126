package utils

import (
	"testing"
	"time"
)

func TestNowET(t *testing.T) {
	now := NowET()
	if loc := now.Location().String(); loc != "America/New_York" && loc != "EST" {
		t.Errorf("NowET() location = %s, want America/New_York or EST", loc)
	}
}

func TestParseFinvizDate(t *testing.T) {
	got, err := ParseFinvizDate("Jan-05-24")
	if err != nil {
		t.Fatalf("ParseFinvizDate() error: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.January || got.Day() != 5 {
		t.Errorf("ParseFinvizDate = %v, want 2024-01-05", got)
	}
	if got.Location() != ET {
		t.Errorf("location = %v, want ET", got.Location())
	}

	if _, err := ParseFinvizDate("2024-01-05"); err == nil {
		t.Error("expected error for ISO date")
	}
}

func TestParseFinvizDateTime(t *testing.T) {
	got, err := ParseFinvizDateTime("Jan-01-24", "10:00AM")
	if err != nil {
		t.Fatalf("ParseFinvizDateTime() error: %v", err)
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, ET)
	if !got.Equal(want) {
		t.Errorf("ParseFinvizDateTime = %v, want %v", got, want)
	}

	pm, err := ParseFinvizDateTime("Feb-29-24", "04:15PM")
	if err != nil {
		t.Fatalf("ParseFinvizDateTime() error: %v", err)
	}
	if pm.Hour() != 16 || pm.Minute() != 15 {
		t.Errorf("PM clock = %02d:%02d, want 16:15", pm.Hour(), pm.Minute())
	}

	if _, err := ParseFinvizDateTime("", "10:00AM"); err == nil {
		t.Error("expected error for missing date")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2026, 3, 4, 15, 45, 10, 0, ET)
	got := StartOfDay(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Day() != 4 {
		t.Errorf("StartOfDay = %v", got)
	}
	if FormatFinvizDate(got) != "Mar-04-26" {
		t.Errorf("FormatFinvizDate = %q, want Mar-04-26", FormatFinvizDate(got))
	}
}

func TestIsMarketOpenAt(t *testing.T) {
	// Wednesday at 10:00 AM ET: should be open
	if !IsMarketOpenAt(time.Date(2026, 2, 18, 10, 0, 0, 0, ET)) {
		t.Error("Expected market to be open on Wednesday 10:00 AM")
	}
	// Saturday: closed
	if IsMarketOpenAt(time.Date(2026, 2, 21, 10, 0, 0, 0, ET)) {
		t.Error("Expected market to be closed on Saturday")
	}
	// 4:00 PM: closed
	if IsMarketOpenAt(time.Date(2026, 2, 18, 16, 0, 0, 0, ET)) {
		t.Error("Expected market to be closed at 4:00 PM")
	}
	// Good Friday: closed
	if IsMarketOpenAt(time.Date(2026, 4, 3, 11, 0, 0, 0, ET)) {
		t.Error("Expected market to be closed on Good Friday")
	}
}

func TestMarketStatusAt(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, 2, 18, 10, 0, 0, 0, ET), "OPEN"},
		{time.Date(2026, 2, 18, 8, 0, 0, 0, ET), "PRE-MARKET"},
		{time.Date(2026, 2, 18, 17, 0, 0, 0, ET), "CLOSED"},
		{time.Date(2026, 2, 21, 10, 0, 0, 0, ET), "CLOSED (Weekend)"},
		{time.Date(2026, 12, 25, 10, 0, 0, 0, ET), "CLOSED (Christmas Day)"},
	}
	for _, tt := range tests {
		if got := MarketStatusAt(tt.at); got != tt.want {
			t.Errorf("MarketStatusAt(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}
