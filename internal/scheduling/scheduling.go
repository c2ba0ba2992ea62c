// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scheduling combines a calendar date and a time-of-day string into
// the single timestamp stored on a scheduled post.
package scheduling

import (
	"fmt"
	"time"
)

// Combine merges a calendar date with an "HH:MM" time-of-day in the given
// location. The date's own clock time is ignored.
func Combine(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	tod, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduling: parse time of day %q: %w", timeOfDay, err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), 0, 0, loc), nil
}

// ValidateFuture rejects timestamps at or before now. The lifecycle store
// itself does not enforce this; it is an entry-point constraint.
func ValidateFuture(t, now time.Time) error {
	if !t.After(now) {
		return fmt.Errorf("scheduling: %s is not in the future", t.Format(time.RFC3339))
	}
	return nil
}
