// Package export renders reminders as an iCalendar document so users
// can pull them into a regular calendar app.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tazhate/remindbot/internal/domain"
)

const FileName = "reminders.ics"

// Calendar builds a calendar with one VEVENT per reminder. Times are
// written in UTC so the Z suffix keeps them unambiguous.
func Calendar(reminders []*domain.Reminder) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//RemindBot//Reminders//EN")

	now := time.Now().UTC()
	for _, r := range reminders {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, fmt.Sprintf("reminder-%d@remindbot", r.ID))
		event.Props.SetText(ical.PropSummary, r.Text)
		event.Props.SetDateTime(ical.PropDateTimeStart, r.RemindAt.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStamp, now)
		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}

// Encode serializes the calendar to its wire format.
func Encode(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
