// Package sqliterepos implements the core repositories on SQLite via sqlx.
package sqliterepos

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// timeLayout keeps a fixed-width fraction so that stored UTC timestamps order
// lexicographically; range scans on the date indexes rely on it.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// tolerate hand-edited rows
		if t, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
			return t, nil
		}
		return time.Time{}, errors.Wrapf(err, "parsing timestamp %q", s)
	}
	return t, nil
}

func formatNullTime(t null.Time) null.String {
	if !t.Valid {
		return null.String{}
	}
	return null.StringFrom(formatTime(t.Time))
}

func parseNullTime(s null.String) (null.Time, error) {
	if !s.Valid {
		return null.Time{}, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return null.Time{}, err
	}
	return null.TimeFrom(t), nil
}
