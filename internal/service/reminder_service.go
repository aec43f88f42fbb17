package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"petpal/internal/calendar"
	"petpal/internal/metrics"
	"petpal/internal/model"
	"petpal/internal/repository"
)

// ReminderService orchestrates recurrence expansion and the reminder
// collection lifecycle. Expansion itself is pure; this service owns the
// snapshot-expand-append-persist sequence.
type ReminderService struct {
	reminders *repository.ReminderStore
	pets      *repository.PetStore
	logger    *logrus.Logger
}

func NewReminderService(reminders *repository.ReminderStore, pets *repository.PetStore, logger *logrus.Logger) *ReminderService {
	return &ReminderService{reminders: reminders, pets: pets, logger: logger}
}

// Schedule expands the request and appends the resulting instances to the
// persisted collection. On validation failure nothing is written and the
// typed error is returned for the caller to surface.
func (s *ReminderService) Schedule(ctx context.Context, req model.RecurrenceRequest) ([]model.ReminderEvent, error) {
	events, err := calendar.Expand(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.pets.Get(ctx, req.PetID); err != nil {
		return nil, fmt.Errorf("scheduling for unknown pet %q: %w", req.PetID, err)
	}

	if err := s.reminders.Append(ctx, events); err != nil {
		return nil, err
	}

	metrics.RemindersExpanded.Add(float64(len(events)))
	s.logger.WithFields(logrus.Fields{
		"pet":       req.PetID,
		"frequency": req.Frequency,
		"count":     len(events),
	}).Info("reminder series scheduled")

	return events, nil
}

// ListForDate returns the day's events ordered by time of day.
func (s *ReminderService) ListForDate(ctx context.Context, date string) ([]model.ReminderEvent, error) {
	all, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	cell := calendar.ResolveDay(date, all, nil, nil, "")
	return cell.Events, nil
}

// DueAt returns uncompleted events scheduled for the exact minute of now.
// The notifier calls this once per minute, so each event fires once.
func (s *ReminderService) DueAt(ctx context.Context, now time.Time) ([]model.ReminderEvent, error) {
	all, err := s.reminders.List(ctx)
	if err != nil {
		return nil, err
	}

	date := now.Format(calendar.DateLayout)
	clock := now.Format("15:04")

	var due []model.ReminderEvent
	for _, ev := range all {
		if ev.Date == date && ev.Time == clock && !ev.Completed {
			due = append(due, ev)
		}
	}
	return due, nil
}

func (s *ReminderService) Complete(ctx context.Context, id string) error {
	return s.reminders.SetCompleted(ctx, id, true)
}

func (s *ReminderService) Delete(ctx context.Context, id string) error {
	return s.reminders.Delete(ctx, id)
}
