package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"petpal/internal/calendar"
	"petpal/internal/model"
	"petpal/internal/repository"
)

// DigestService builds the human-readable daily summary sent to every
// known chat.
type DigestService struct {
	cal  *CalendarService
	pets *repository.PetStore
}

func NewDigestService(cal *CalendarService, pets *repository.PetStore) *DigestService {
	return &DigestService{cal: cal, pets: pets}
}

// EventIcon returns the emoji used for an event type across the bot UI.
func EventIcon(t model.EventType) string {
	switch t {
	case model.EventVaccine:
		return "💉"
	case model.EventVet:
		return "🏥"
	case model.EventMedication:
		return "💊"
	case model.EventGrooming:
		return "✂️"
	case model.EventPlay:
		return "🎾"
	default:
		return "📌"
	}
}

// MoodIcon returns the emoji badge for a mood.
func MoodIcon(m model.Mood) string {
	switch m {
	case model.MoodHappy:
		return "😊"
	case model.MoodEnergetic:
		return "⚡"
	case model.MoodSleepy:
		return "😴"
	case model.MoodSick:
		return "🤒"
	default:
		return ""
	}
}

// Daily renders today's day cell as an HTML message.
func (s *DigestService) Daily(ctx context.Context, now time.Time) (string, error) {
	date := now.Format(calendar.DateLayout)
	cell, err := s.cal.Day(ctx, date)
	if err != nil {
		return "", err
	}

	pets, err := s.pets.List(ctx)
	if err != nil {
		return "", err
	}
	petNames := make(map[string]string, len(pets))
	for _, pet := range pets {
		petNames[pet.ID] = pet.Name
	}

	var builder strings.Builder
	builder.WriteString("🐾 <b>Daily pet digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", date))

	builder.WriteString("⏰ <b>Today</b>\n")
	if len(cell.Events) == 0 {
		builder.WriteString("— nothing scheduled\n")
	} else {
		for _, ev := range cell.Events {
			builder.WriteString(formatDigestLine(ev, petNames))
		}
	}

	if cell.Mood != "" {
		builder.WriteString(fmt.Sprintf("\n%s Mood already logged today\n", MoodIcon(cell.Mood)))
	}
	if cell.Photo != nil {
		builder.WriteString("📷 A photo memory exists for today\n")
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatDigestLine(ev model.ReminderEvent, petNames map[string]string) string {
	var sb strings.Builder

	check := ""
	if ev.Completed {
		check = " ✅"
	}
	sb.WriteString(fmt.Sprintf("%s %s <b>%s</b>%s", EventIcon(ev.Type), ev.Time, html.EscapeString(strings.TrimSpace(ev.Title)), check))

	if name, ok := petNames[ev.PetID]; ok && name != "" {
		sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
	}
	if ev.Note != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(ev.Note))))
	}
	sb.WriteByte('\n')
	return sb.String()
}
