package service

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"petpal/internal/calendar"
	"petpal/internal/repository"
)

// ExportService renders a month of reminders as an iCalendar document, so
// the schedule can be imported into any external calendar app.
type ExportService struct {
	reminders *repository.ReminderStore
}

func NewExportService(reminders *repository.ReminderStore) *ExportService {
	return &ExportService{reminders: reminders}
}

// MonthICS serializes every reminder of the given month as a VEVENT.
// Events without a parsable time get an all-day-ish 09:00 slot.
func (s *ExportService) MonthICS(ctx context.Context, year int, month time.Month) (string, int, error) {
	events, err := s.reminders.List(ctx)
	if err != nil {
		return "", 0, err
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//petpal//calendar export//EN")

	count := 0
	for _, day := range calendar.MonthDays(year, month) {
		for _, ev := range events {
			if ev.Date != day {
				continue
			}

			start, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", ev.Date, ev.Time))
			if err != nil {
				start, _ = time.Parse("2006-01-02 15:04", fmt.Sprintf("%s 09:00", ev.Date))
			}

			ve := cal.AddEvent(ev.ID)
			ve.SetCreatedTime(time.Now())
			ve.SetStartAt(start)
			ve.SetEndAt(start.Add(30 * time.Minute))
			ve.SetSummary(ev.Title)
			if ev.Note != "" {
				ve.SetDescription(ev.Note)
			}
			count++
		}
	}

	return cal.Serialize(), count, nil
}
