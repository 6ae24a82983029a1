package sqliterepos

import (
	"sort"
	"testing"
	"time"
)

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("SGT", 8*3600)
	orig := time.Date(2026, time.March, 14, 15, 9, 26, 535e6, loc)

	parsed, err := parseTime(formatTime(orig))
	if err != nil {
		t.Fatalf("parseTime() failed: %v", err)
	}
	if !parsed.Equal(orig) {
		t.Errorf("round trip = %v, want %v", parsed, orig)
	}
}

// Stored timestamps must sort lexicographically in chronological order, since
// range filters compare them as text.
func TestTimeLexicographicOrder(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(time.Millisecond),
		base.Add(time.Second),
		base.Add(999 * time.Millisecond),
		base.AddDate(0, 0, 1),
		base.AddDate(0, 1, 0),
		base.Add(time.Nanosecond),
	}

	formatted := make([]string, len(times))
	for i, tm := range times {
		formatted[i] = formatTime(tm)
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	sort.Strings(formatted)

	for i, tm := range times {
		if formatted[i] != formatTime(tm) {
			t.Fatalf("order diverges at %d: %s != %s", i, formatted[i], formatTime(tm))
		}
	}
}

func TestParseTimeToleratesRFC3339(t *testing.T) {
	parsed, err := parseTime("2026-05-01T10:00:00Z")
	if err != nil {
		t.Fatalf("parseTime() failed: %v", err)
	}
	want := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("parseTime() = %v, want %v", parsed, want)
	}
}
