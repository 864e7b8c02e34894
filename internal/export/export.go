// Package export projects the Martian calendar onto the terrestrial
// timeline as an iCalendar file: one event per sol (and per month start),
// plus configured recurring terrestrial events annotated with their
// Martian local time.
package export

import (
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"marsclock/darian"
	"marsclock/internal/config"
	appLog "marsclock/internal/log"
)

// maxOccurrences caps recurrence expansion per event so a malformed rule
// cannot blow up the calendar.
const maxOccurrences = 1000

// Builder assembles an iCalendar from Martian calendar structure and
// configured terrestrial events.
type Builder struct {
	// Zone is the Martian zone used for annotations; nil means MTC.
	Zone darian.Zone

	// SolBoundaries and MonthBoundaries select which Martian structure
	// is emitted.
	SolBoundaries   bool
	MonthBoundaries bool

	// Events are recurring terrestrial events to expand and annotate.
	Events []config.EventConfig
}

// NewBuilder wires a Builder from the configuration.
func NewBuilder(cfg *config.Config) (*Builder, error) {
	zone, err := cfg.DisplayZone()
	if err != nil {
		return nil, err
	}
	return &Builder{
		Zone:            zone,
		SolBoundaries:   cfg.Export.SolBoundaries,
		MonthBoundaries: cfg.Export.MonthBoundaries,
		Events:          cfg.Events,
	}, nil
}

// Build produces the calendar covering the terrestrial window
// [start, end).
func (b *Builder) Build(start, end time.Time) (*ical.Calendar, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("export: window end %v is not after start %v", end, start)
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//marsclock//darian calendar//EN")
	cal.SetXWRCalName("Darian calendar")
	cal.SetXWRCalDesc("Darian calendar structure on the terrestrial timeline")

	if b.SolBoundaries || b.MonthBoundaries {
		if err := b.addBoundaries(cal, start, end); err != nil {
			return nil, err
		}
	}
	for _, ev := range b.Events {
		if err := b.addRecurring(cal, ev, start, end); err != nil {
			return nil, err
		}
	}
	return cal, nil
}

// addBoundaries walks Martian midnights across the window. Each sol spans
// roughly 24h 39m 35s of terrestrial time, so the events drift through
// the terrestrial day.
func (b *Builder) addBoundaries(cal *ical.Calendar, start, end time.Time) error {
	mdt, err := darian.FromTime(start.UTC())
	if err != nil {
		return fmt.Errorf("export: window start: %w", err)
	}
	// First Martian midnight at or after the window start.
	midnight, err := darian.NewDateTime(
		mdt.Year(), mdt.Month(), mdt.Sol(), 0, 0, 0, 0, darian.MTC)
	if err != nil {
		return err
	}
	oneSol, err := darian.NewDuration(1, 0, 0)
	if err != nil {
		return err
	}
	if mdt.Hour() != 0 || mdt.Minute() != 0 || mdt.Second() != 0 || mdt.Microsecond() != 0 {
		if midnight, err = midnight.Add(oneSol); err != nil {
			return err
		}
	}

	count := 0
	for {
		solStart, err := midnight.Time()
		if err != nil {
			return err
		}
		if !solStart.Before(end) {
			break
		}
		next, err := midnight.Add(oneSol)
		if err != nil {
			// The window ran past the representable calendar; stop
			// emitting rather than failing the whole export.
			appLog.Info("export: calendar range exhausted", "at", midnight.String())
			break
		}
		solEnd, err := next.Time()
		if err != nil {
			return err
		}

		d := midnight.Date()
		if b.SolBoundaries {
			e := cal.AddEvent(uuid.NewString() + "@marsclock")
			e.SetDtStampTime(solStart.UTC())
			e.SetStartAt(solStart.UTC())
			e.SetEndAt(solEnd.UTC())
			e.SetSummary(FormatSol(d))
			e.SetDescription(b.describe(midnight))
		}
		if b.MonthBoundaries && d.Sol() == 1 {
			e := cal.AddEvent(uuid.NewString() + "@marsclock")
			e.SetDtStampTime(solStart.UTC())
			e.SetStartAt(solStart.UTC())
			e.SetEndAt(solStart.UTC().Add(time.Hour))
			if d.Month() == 1 {
				e.SetSummary(fmt.Sprintf("Martian year %d begins", d.Year()))
			} else {
				e.SetSummary(fmt.Sprintf("%s begins (%d)", MonthName(d.Month()), d.Year()))
			}
			e.SetDescription(b.describe(midnight))
		}

		midnight = next
		count++
	}
	appLog.Debug("export: boundary events emitted", "sols", count)
	return nil
}

// addRecurring expands one configured terrestrial event across the window
// and annotates every occurrence with its Martian local time.
func (b *Builder) addRecurring(cal *ical.Calendar, ev config.EventConfig, start, end time.Time) error {
	first, err := time.Parse(time.RFC3339, ev.Start)
	if err != nil {
		return fmt.Errorf("export: event %q start: %w", ev.Name, err)
	}
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		return fmt.Errorf("export: event %q rrule: %w", ev.Name, err)
	}
	r.DTStart(first)

	var set rrule.Set
	set.RRule(r)

	occs := set.Between(start.In(first.Location()), end.In(first.Location()), true)
	if len(occs) > maxOccurrences {
		appLog.Info("export: recurrence capped", "event", ev.Name, "cap", maxOccurrences)
		occs = occs[:maxOccurrences]
	}
	for _, occ := range occs {
		e := cal.AddEvent(uuid.NewString() + "@marsclock")
		e.SetDtStampTime(occ.UTC())
		e.SetStartAt(occ.UTC())
		e.SetEndAt(occ.UTC().Add(time.Hour))
		e.SetSummary(ev.Name)
		mdt, err := darian.FromTime(occ)
		if err != nil {
			return fmt.Errorf("export: event %q occurrence %v: %w", ev.Name, occ, err)
		}
		e.SetDescription(b.describe(mdt))
	}
	appLog.Debug("export: recurring event expanded", "event", ev.Name, "occurrences", len(occs))
	return nil
}

// describe renders the Martian local reading of an MTC value for event
// descriptions.
func (b *Builder) describe(mdt *darian.DateTime) string {
	local := mdt
	if b.Zone != nil {
		if converted, err := mdt.AsZone(b.Zone); err == nil {
			local = converted
		}
	}
	return fmt.Sprintf("%s (%s)", FormatSol(local.Date()), local.String())
}

// WriteFile serializes the calendar to path.
func WriteFile(path string, cal *ical.Calendar) error {
	return os.WriteFile(path, []byte(cal.Serialize()), 0o644)
}
