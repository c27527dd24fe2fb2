package utils

import (
	"testing"
	"time"
)

func TestDayOf_TruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+6:30", 6*3600+1800)
	in := time.Date(2026, 3, 15, 23, 45, 12, 999, loc)
	got := DayOf(in)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DayOf(%v) = %v, want %v", in, got, want)
	}

	// Two timestamps on the same calendar day collapse to the same key.
	morning := DayOf(time.Date(2026, 3, 15, 1, 0, 0, 0, loc))
	evening := DayOf(time.Date(2026, 3, 15, 22, 0, 0, 0, loc))
	if !morning.Equal(evening) {
		t.Fatalf("same-day timestamps produce different keys: %v vs %v", morning, evening)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"admin@example.com", "a.b+c@sub.example.org"}
	invalid := []string{"", "no-at.example.com", "x@", "@example.com", "x@nodot"}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestUniqueSlice_PreservesFirstSeenOrder(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
