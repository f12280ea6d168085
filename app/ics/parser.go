package ics

import (
	"bytes"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"wallboard/app/fetch"
)

// Event is a normalized calendar event occurrence. Start is never after End.
type Event struct {
	UID         string    `json:"uid"`
	Summary     string    `json:"summary"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	AllDay      bool      `json:"isAllDay"`
}

// parsedEvent keeps the recurrence properties alongside the normalized
// fields until expansion.
type parsedEvent struct {
	Event

	rawRRule     string
	exDates      []time.Time
	recurrenceID *time.Time
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses an ICS document and expands recurring events into concrete
// occurrences within [rangeStart, rangeEnd]. Non-recurring events are kept
// regardless of the range so a month view can look arbitrarily far.
func (p *Parser) Run(data []byte, rangeStart, rangeEnd time.Time) ([]Event, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, &fetch.ParseError{Source: "ICS document", Err: err}
	}

	parsed := make([]parsedEvent, 0)
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		parsed = append(parsed, ev)
	}

	return expand(parsed, rangeStart, rangeEnd), nil
}

func parseVEvent(ve *ical.VEvent) (parsedEvent, bool) {
	var out parsedEvent

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}

	out.Summary = "No Title"
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && p.Value != "" {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	// All-day events carry a date-only DTSTART: VALUE=DATE or no time part.
	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, false
	}
	if params := dtStart.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
	}
	if !strings.Contains(dtStart.Value, "T") {
		out.AllDay = true
	}

	start, ok := eventTime(ve.GetStartAt, ve.GetAllDayStartAt, dtStart.Value)
	if !ok {
		return out, false
	}
	out.Start = start

	out.End = out.Start
	if dtEnd := ve.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
		if end, ok := eventTime(ve.GetEndAt, ve.GetAllDayEndAt, dtEnd.Value); ok {
			out.End = end
		}
	}
	if out.End.Before(out.Start) {
		out.End = out.Start
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(strings.TrimSpace(part)); err == nil {
				out.exDates = append(out.exDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := parseICSTime(p.Value); err == nil {
			out.recurrenceID = &t
		}
	}

	return out, true
}

// eventTime resolves DTSTART/DTEND through the library helpers, falling back
// to a direct parse of the raw value for date-only forms the helpers reject.
func eventTime(timed, allDay func() (time.Time, error), raw string) (time.Time, bool) {
	if t, err := timed(); err == nil && !t.IsZero() {
		return t, true
	}
	if t, err := allDay(); err == nil && !t.IsZero() {
		return t, true
	}
	if t, err := parseICSTime(raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// parseICSTime handles the basic DATE, DATE-TIME and UTC value forms.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)

	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.Local)
	}
	return time.ParseInLocation("20060102", v, time.Local)
}
