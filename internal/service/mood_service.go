package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"petpal/internal/calendar"
	"petpal/internal/model"
	"petpal/internal/repository"
)

// MoodService records per-day pet moods and keeps the consecutive-day
// logging streak up to date.
type MoodService struct {
	moods  *repository.MoodStore
	logger *logrus.Logger
}

func NewMoodService(moods *repository.MoodStore, logger *logrus.Logger) *MoodService {
	return &MoodService{moods: moods, logger: logger}
}

// Log stores the mood for (date, pet) and returns the updated streak.
// Logging twice on the same day overwrites the mood but leaves the streak
// unchanged; a one-day gap resets the streak to 1.
func (s *MoodService) Log(ctx context.Context, date, petID string, mood model.Mood) (model.Streak, error) {
	if !mood.Valid() {
		return model.Streak{}, fmt.Errorf("unknown mood %q", mood)
	}

	if err := s.moods.Log(ctx, date, petID, mood); err != nil {
		return model.Streak{}, err
	}

	streak, err := s.moods.Streak(ctx)
	if err != nil {
		return model.Streak{}, err
	}

	switch streak.LastDate {
	case date:
		// Already counted today.
	case previousDay(date):
		streak.Count++
		streak.LastDate = date
	default:
		streak.Count = 1
		streak.LastDate = date
	}

	if err := s.moods.SaveStreak(ctx, streak); err != nil {
		return model.Streak{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"pet":    petID,
		"mood":   mood,
		"streak": streak.Count,
	}).Info("mood logged")

	return streak, nil
}

func previousDay(date string) string {
	t, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(calendar.DateLayout)
}
