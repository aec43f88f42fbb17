package service

import (
	"context"
	"errors"
	"time"

	"petpal/internal/calendar"
	"petpal/internal/model"
	"petpal/internal/repository"
)

// CalendarService answers day-cell and month-level queries by snapshotting
// the reminder, mood and photo collections and projecting them through the
// pure calendar engine.
type CalendarService struct {
	reminders *repository.ReminderStore
	pets      *repository.PetStore
	moods     *repository.MoodStore
	photos    *repository.PhotoStore
}

func NewCalendarService(reminders *repository.ReminderStore, pets *repository.PetStore, moods *repository.MoodStore, photos *repository.PhotoStore) *CalendarService {
	return &CalendarService{reminders: reminders, pets: pets, moods: moods, photos: photos}
}

func (s *CalendarService) snapshot(ctx context.Context) ([]model.ReminderEvent, model.MoodHistory, model.PhotoIndex, string, error) {
	reminders, err := s.reminders.List(ctx)
	if err != nil {
		return nil, nil, nil, "", err
	}
	moods, err := s.moods.History(ctx)
	if err != nil {
		return nil, nil, nil, "", err
	}
	photos, err := s.photos.Index(ctx)
	if err != nil {
		return nil, nil, nil, "", err
	}

	primaryID := ""
	primary, err := s.pets.Primary(ctx)
	switch {
	case err == nil:
		primaryID = primary.ID
	case errors.Is(err, repository.ErrNotFound):
		// No pets yet; mood badges simply stay empty.
	default:
		return nil, nil, nil, "", err
	}

	return reminders, moods, photos, primaryID, nil
}

// Day resolves a single date key.
func (s *CalendarService) Day(ctx context.Context, date string) (calendar.DayCell, error) {
	reminders, moods, photos, primaryID, err := s.snapshot(ctx)
	if err != nil {
		return calendar.DayCell{}, err
	}
	return calendar.ResolveDay(date, reminders, moods, photos, primaryID), nil
}

// Month resolves every day cell of the given month in order.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) ([]calendar.DayCell, error) {
	reminders, moods, photos, primaryID, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	days := calendar.MonthDays(year, month)
	cells := make([]calendar.DayCell, 0, len(days))
	for _, day := range days {
		cells = append(cells, calendar.ResolveDay(day, reminders, moods, photos, primaryID))
	}
	return cells, nil
}

// Memories returns the month's photo memories, ascending by date.
func (s *CalendarService) Memories(ctx context.Context, year int, month time.Month) ([]model.PhotoMemory, error) {
	photos, err := s.photos.Index(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.PhotosInMonth(photos, year, month), nil
}
