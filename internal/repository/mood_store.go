package repository

import (
	"context"
	"sync"

	"petpal/internal/model"
)

// MoodStore manages the per-date, per-pet mood history and the
// consecutive-day logging streak.
type MoodStore struct {
	kv *KV
	mu sync.Mutex
}

func NewMoodStore(kv *KV) *MoodStore {
	return &MoodStore{kv: kv}
}

func (s *MoodStore) History(ctx context.Context) (model.MoodHistory, error) {
	history := model.MoodHistory{}
	if err := s.kv.loadJSON(ctx, keyMoods, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Log records the mood for (date, pet), overwriting the day's earlier entry.
func (s *MoodStore) Log(ctx context.Context, date, petID string, mood model.Mood) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.History(ctx)
	if err != nil {
		return err
	}
	if history[date] == nil {
		history[date] = map[string]model.Mood{}
	}
	history[date][petID] = mood
	return s.kv.saveJSON(ctx, keyMoods, history)
}

func (s *MoodStore) Streak(ctx context.Context) (model.Streak, error) {
	var streak model.Streak
	if err := s.kv.loadJSON(ctx, keyStreak, &streak); err != nil {
		return model.Streak{}, err
	}
	return streak, nil
}

func (s *MoodStore) SaveStreak(ctx context.Context, streak model.Streak) error {
	return s.kv.saveJSON(ctx, keyStreak, streak)
}
