// Package timeslot handles the advisory HH:MM time a post is scheduled for.
// Nothing is dispatched at that time; the next occurrence is informational.
package timeslot

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const Layout = "15:04"

type Slot struct {
	Hour   int
	Minute int

	schedule cron.Schedule
}

// Parse accepts a 24h "HH:MM" value.
func Parse(value string) (Slot, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(value))
	if err != nil {
		return Slot{}, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}

	spec := fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return Slot{}, fmt.Errorf("build schedule %q: %w", spec, err)
	}

	return Slot{Hour: t.Hour(), Minute: t.Minute(), schedule: schedule}, nil
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// Next returns the first occurrence of the slot strictly after now, in now's location.
func (s Slot) Next(now time.Time) time.Time {
	if s.schedule == nil {
		return time.Time{}
	}
	return s.schedule.Next(now)
}

// NextOccurrence is Parse followed by Next.
func NextOccurrence(value string, now time.Time) (time.Time, error) {
	slot, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	return slot.Next(now), nil
}
