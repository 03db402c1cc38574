package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
)

const (
	defaultMaxOccurrences = 5000

	propRecurrenceID ical.ComponentProperty = "RECURRENCE-ID"
	propConference   ical.ComponentProperty = "X-GOOGLE-CONFERENCE"
)

// vevent is a parsed VEVENT before recurrence expansion.
type vevent struct {
	Event
	rrule      string
	exdates    []time.Time
	recurrence *time.Time
}

// ICSSource reads events from ICS subscription feeds.
type ICSSource struct {
	client         *http.Client
	urls           []string
	maxOccurrences int
	logger         *zap.Logger
}

// NewICSSource creates a source for the configured feeds.
func NewICSSource(cfg Config, logger *zap.Logger) *ICSSource {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	maxOcc := cfg.MaxOccurrences
	if maxOcc <= 0 {
		maxOcc = defaultMaxOccurrences
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ICSSource{
		client:         &http.Client{Timeout: time.Duration(timeout) * time.Second},
		urls:           cfg.URLs,
		maxOccurrences: maxOcc,
		logger:         logger,
	}
}

// Events fetches every feed and returns the timed events overlapping w,
// ordered by start then id. Any feed failure fails the whole query.
func (s *ICSSource) Events(ctx context.Context, w Window) ([]Event, error) {
	if len(s.urls) == 0 {
		return nil, errors.New("no calendar feeds configured")
	}

	var events []Event
	for _, feedURL := range s.urls {
		body, err := s.fetch(ctx, feedURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch feed %s: %w", redactURL(feedURL), err)
		}
		parsed, err := parseICS(body, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed %s: %w", redactURL(feedURL), err)
		}
		expanded := expand(parsed, w, s.maxOccurrences, s.logger)
		s.logger.Debug("Calendar feed loaded",
			zap.String("url", redactURL(feedURL)),
			zap.Int("vevents", len(parsed)),
			zap.Int("events", len(expanded)),
		)
		events = append(events, expanded...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (s *ICSSource) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// parseICS extracts timed VEVENTs. All-day and malformed events are skipped.
func parseICS(body []byte, logger *zap.Logger) ([]vevent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var out []vevent
	for _, ve := range cal.Events() {
		ev, ok, perr := parseVEvent(ve)
		if perr != nil {
			logger.Warn("Skipping malformed VEVENT", zap.Error(perr))
			continue
		}
		if ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

// parseVEvent returns ok=false for events that are not eligible (all-day, no end).
func parseVEvent(ve *ical.VEvent) (vevent, bool, error) {
	var out vevent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, false, errors.New("missing UID")
	}
	out.ID = uid.Value

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil || isDateOnly(dtStart) {
		return out, false, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false, fmt.Errorf("event %s: %w", out.ID, err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		// No DTEND means no concrete end instant.
		return out, false, nil
	}
	if !end.After(start) {
		return out, false, nil
	}
	out.Start = start
	out.End = end

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}
	if p := ve.GetProperty(propConference); p != nil && p.Value != "" {
		out.MeetingLink = p.Value
	} else if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		out.MeetingLink = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.rrule = p.Value
	}
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, tzidOf(p, start.Location())); err == nil {
				out.exdates = append(out.exdates, t)
			}
		}
	}
	if p := ve.GetProperty(propRecurrenceID); p != nil {
		if t, err := parseICSTime(p.Value, tzidOf(p, start.Location())); err == nil {
			out.recurrence = &t
		}
	}

	return out, true, nil
}

func isDateOnly(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func tzidOf(p *ical.IANAProperty, fallback *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if loc, err := time.LoadLocation(tzs[0]); err == nil {
			return loc
		}
	}
	return fallback
}

// parseICSTime parses a basic DATE-TIME value (UTC or floating).
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, loc)
	}
	return time.ParseInLocation("20060102", v, loc)
}

// expand turns parsed VEVENTs into concrete events overlapping w.
// RECURRENCE-ID overrides replace the matching generated instance.
func expand(parsed []vevent, w Window, maxOcc int, logger *zap.Logger) []Event {
	overrides := make(map[string][]vevent)
	var bases []vevent
	for _, ev := range parsed {
		if ev.recurrence != nil {
			overrides[ev.ID] = append(overrides[ev.ID], ev)
			continue
		}
		bases = append(bases, ev)
	}

	var out []Event
	for _, ev := range bases {
		if ev.rrule == "" {
			if w.Overlaps(ev.Start, ev.End) {
				out = append(out, ev.Event)
			}
			continue
		}

		occ, err := expandRecurring(ev, overrides[ev.ID], w, maxOcc)
		if err != nil {
			logger.Warn("Skipping unexpandable recurrence", zap.String("uid", ev.ID), zap.String("rrule", ev.rrule), zap.Error(err))
			continue
		}
		out = append(out, occ...)
	}
	return out
}

func expandRecurring(ev vevent, overrides []vevent, w Window, maxOcc int) ([]Event, error) {
	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		return nil, err
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exdates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	dur := ev.End.Sub(ev.Start)
	loc := ev.Start.Location()
	starts := set.Between(w.Start.Add(-dur).In(loc), w.End.In(loc), true)
	if len(starts) > maxOcc {
		starts = starts[:maxOcc]
	}

	matched := make([]bool, len(overrides))
	out := make([]Event, 0, len(starts))
	for _, start := range starts {
		inst := ev.Event
		inst.Start = start
		inst.End = start.Add(dur)
		for i, o := range overrides {
			if o.recurrence.Equal(start) {
				inst = o.Event
				matched[i] = true
				break
			}
		}
		if w.Overlaps(inst.Start, inst.End) {
			out = append(out, inst)
		}
	}

	// Instances moved into w from an original slot outside it.
	for i, o := range overrides {
		if !matched[i] && w.Overlaps(o.Start, o.End) {
			out = append(out, o.Event)
		}
	}
	return out, nil
}

// redactURL keeps only scheme and host; feed URLs often embed private tokens.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "ics://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
