package booking

import (
	"testing"
	"time"
)

func TestTo24Hour(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"afternoon 12h", "2:30 PM", "14:30"},
		{"morning 12h", "9:00 AM", "09:00"},
		{"zero padded 12h", "09:15 AM", "09:15"},
		{"noon", "12:00 PM", "12:00"},
		{"midnight", "12:00 AM", "00:00"},
		{"already 24h", "14:30", "14:30"},
		{"24h with seconds", "14:30:00", "14:30"},
		{"lowercase meridiem", "2:30 pm", "14:30"},
		{"surrounding whitespace", "  2:30 PM ", "14:30"},
		{"garbage defaults", "banana", "09:00"},
		{"empty defaults", "", "09:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := To24Hour(tc.input); got != tc.want {
				t.Errorf("To24Hour(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// Upstream datetimes carry no offset; they must resolve in the marketplace
// timezone regardless of where the server runs.
func TestParseUpstreamTimePinsMarketTimezone(t *testing.T) {
	got, err := ParseUpstreamTime("2025-03-10T10:00:00")
	if err != nil {
		t.Fatal(err)
	}
	if got.Location() != MarketLocation() {
		t.Errorf("location = %v, want %v", got.Location(), MarketLocation())
	}
	if _, offset := got.Zone(); offset != 3*60*60 {
		t.Errorf("zone offset = %d, want +3h", offset)
	}
	// 10:00 marketplace time is 07:00 UTC.
	if want := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("instant = %v, want %v", got, want)
	}

	if _, err := ParseUpstreamTime("2025-03-10 10:00"); err == nil {
		t.Error("expected an error for a non-upstream layout")
	}
}

func TestCombineDateTime(t *testing.T) {
	tests := []struct {
		name string
		date string
		time string
		want string
	}{
		{"afternoon", "2025-03-10", "10:00 AM", "2025-03-10T10:00:00"},
		{"evening", "2025-03-10", "6:45 PM", "2025-03-10T18:45:00"},
		{"malformed time degrades", "2025-03-10", "noonish", "2025-03-10T09:00:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CombineDateTime(tc.date, tc.time); got != tc.want {
				t.Errorf("CombineDateTime(%q, %q) = %q, want %q", tc.date, tc.time, got, tc.want)
			}
		})
	}
}
