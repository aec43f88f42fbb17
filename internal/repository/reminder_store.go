package repository

import (
	"context"
	"fmt"
	"sync"

	"petpal/internal/model"
)

// ReminderStore manages the full reminder collection. The collection is
// append/filter only: an event's date never changes once created; edits are
// a delete plus a re-add.
type ReminderStore struct {
	kv *KV
	mu sync.Mutex
}

func NewReminderStore(kv *KV) *ReminderStore {
	return &ReminderStore{kv: kv}
}

func (s *ReminderStore) List(ctx context.Context) ([]model.ReminderEvent, error) {
	var events []model.ReminderEvent
	if err := s.kv.loadJSON(ctx, keyReminders, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Append adds freshly expanded instances and persists the merged collection
// in one write.
func (s *ReminderStore) Append(ctx context.Context, events []model.ReminderEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	merged := append(existing, events...)
	if err := s.kv.saveJSON(ctx, keyReminders, merged); err != nil {
		return fmt.Errorf("append reminders: %w", err)
	}
	return nil
}

// SetCompleted flips the completion flag of a single event.
func (s *ReminderStore) SetCompleted(ctx context.Context, id string, done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i := range events {
		if events[i].ID == id {
			events[i].Completed = done
			return s.kv.saveJSON(ctx, keyReminders, events)
		}
	}
	return ErrNotFound
}

func (s *ReminderStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.List(ctx)
	if err != nil {
		return err
	}
	filtered := events[:0]
	found := false
	for _, ev := range events {
		if ev.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, ev)
	}
	if !found {
		return ErrNotFound
	}
	return s.kv.saveJSON(ctx, keyReminders, filtered)
}
