package ics

import (
	"log/slog"
	"time"

	"github.com/teambition/rrule-go"
)

// Safety cap so a runaway RRULE cannot flood the event set.
const maxOccurrencesPerEvent = 1000

// expand turns parsed events into concrete occurrences. Recurring events are
// expanded within [rangeStart, rangeEnd] honoring EXDATE; an event carrying
// RECURRENCE-ID replaces the base occurrence at that instant. Non-recurring
// events pass through untouched.
func expand(events []parsedEvent, rangeStart, rangeEnd time.Time) []Event {
	// Overridden instants count as exceptions for their base event.
	overriddenByUID := make(map[string][]time.Time)
	for _, ev := range events {
		if ev.recurrenceID != nil {
			overriddenByUID[ev.UID] = append(overriddenByUID[ev.UID], *ev.recurrenceID)
		}
	}

	out := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.rawRRule == "" {
			out = append(out, ev.Event)
			continue
		}

		out = append(out, expandRecurring(ev, overriddenByUID[ev.UID], rangeStart, rangeEnd)...)
	}

	return out
}

func expandRecurring(ev parsedEvent, overridden []time.Time, rangeStart, rangeEnd time.Time) []Event {
	r, err := rrule.StrToRRule(ev.rawRRule)
	if err != nil {
		slog.Warn("Skipping unparseable RRULE", "uid", ev.UID, "rrule", ev.rawRRule, "error", err)
		return []Event{ev.Event}
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exDates {
		set.ExDate(ex)
	}
	for _, ex := range overridden {
		set.ExDate(ex)
	}

	duration := ev.End.Sub(ev.Start)

	occurrences := set.Between(rangeStart, rangeEnd, true)
	if len(occurrences) > maxOccurrencesPerEvent {
		slog.Warn("Truncating recurrence expansion", "uid", ev.UID, "count", len(occurrences), "cap", maxOccurrencesPerEvent)
		occurrences = occurrences[:maxOccurrencesPerEvent]
	}

	out := make([]Event, 0, len(occurrences))
	for _, start := range occurrences {
		occ := ev.Event
		occ.Start = start
		occ.End = start.Add(duration)
		out = append(out, occ)
	}

	return out
}
