package util

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestParseDate_DateOnly(t *testing.T) {
	got, err := ParseDate("2024-01-03")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	want := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	if !time.Time(got).Equal(want) {
		t.Fatalf("got %v want %v", time.Time(got), want)
	}
}

func TestParseDate_RFC3339_KeepsCalendarDay(t *testing.T) {
	got, err := ParseDate("2026-02-04T23:30:00+01:00")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if FormatDate(got) != "2026-02-04" {
		t.Fatalf("got %s want 2026-02-04", FormatDate(got))
	}
	if time.Time(got).Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", time.Time(got).Location())
	}
}

func TestParseDate_TrimSpaces(t *testing.T) {
	got, err := ParseDate("  2024-01-09 ")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if FormatDate(got) != "2024-01-09" {
		t.Fatalf("got %s", FormatDate(got))
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "03/01/2024", "2024-13-01", "Jan 3, 2024"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := datatypes.Date(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if got := FormatDate(d); got != "2024-12-31" {
		t.Fatalf("got %s", got)
	}
}

func TestMustParseDate_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	_ = MustParseDate("bad")
}
