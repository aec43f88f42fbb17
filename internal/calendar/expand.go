package calendar

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"petpal/internal/model"
)

// DateLayout is the canonical zero-padded date key format. Every date-based
// lookup in the app compares these strings for exact equality.
const DateLayout = "2006-01-02"

var (
	// ErrMissingFields is returned when the template lacks a title or pet.
	ErrMissingFields = errors.New("reminder title and pet are required")
	// ErrInvalidFrequency is returned for a frequency outside the closed set.
	ErrInvalidFrequency = errors.New("unknown recurrence frequency")
)

// instanceCounts maps each frequency to how many concrete events one
// template expands into.
var instanceCounts = map[model.Frequency]int{
	model.FreqOnce:      1,
	model.FreqDaily:     30,
	model.FreqWeekly:    52,
	model.FreqMonthly:   12,
	model.FreqQuarterly: 4,
	model.FreqYearly:    5,
}

// Expand turns a recurrence request into the ordered sequence of concrete
// reminder instances. The first instance lands exactly on the anchor date;
// every further instance applies the step to the previously computed date,
// so month-length overflow follows time.AddDate semantics (Jan 31 + 1 month
// rolls into early March rather than clamping to Feb). That drift is the
// documented behavior, not a bug.
//
// Expand is pure: it never touches stored state, and persistence of the
// returned slice is the caller's job.
func Expand(req model.RecurrenceRequest) ([]model.ReminderEvent, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.PetID) == "" {
		return nil, ErrMissingFields
	}

	count, ok := instanceCounts[req.Frequency]
	if !ok {
		return nil, ErrInvalidFrequency
	}

	anchor, err := time.Parse(DateLayout, req.AnchorDate)
	if err != nil {
		return nil, err
	}

	events := make([]model.ReminderEvent, 0, count)
	current := anchor
	for i := 0; i < count; i++ {
		events = append(events, model.ReminderEvent{
			ID:        uuid.NewString(),
			Date:      current.Format(DateLayout),
			Title:     req.Title,
			Type:      req.Type,
			PetID:     req.PetID,
			Time:      req.Time,
			Note:      req.Note,
			Completed: false,
		})
		current = step(current, req.Frequency)
	}

	return events, nil
}

func step(from time.Time, freq model.Frequency) time.Time {
	switch freq {
	case model.FreqDaily:
		return from.AddDate(0, 0, 1)
	case model.FreqWeekly:
		return from.AddDate(0, 0, 7)
	case model.FreqMonthly:
		return from.AddDate(0, 1, 0)
	case model.FreqQuarterly:
		return from.AddDate(0, 3, 0)
	case model.FreqYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}
