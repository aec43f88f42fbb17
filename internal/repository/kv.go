package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed keys of the persisted collections. A missing key means "use the
// empty default"; there is no schema versioning.
const (
	keyPets      = "pets"
	keyReminders = "reminders"
	keyMoods     = "moods"
	keyPhotos    = "photos"
	keyStreak    = "streak"
	keyChats     = "chats"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("record not found")

// Record is one persisted row: a fixed key and a JSON-serialized value.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

// KV exposes the load/save contract every typed store builds on.
type KV struct {
	db *gorm.DB
}

func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

// Load returns the raw JSON value for key, with ok=false when absent.
func (kv *KV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	err := kv.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	switch {
	case err == nil:
		return rec.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("load %q: %w", key, err)
	}
}

// Save upserts the JSON value for key.
func (kv *KV) Save(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	err := kv.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// loadJSON unmarshals the stored value into dest; dest is left untouched
// when the key is absent.
func (kv *KV) loadJSON(ctx context.Context, key string, dest any) error {
	raw, ok, err := kv.Load(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

func (kv *KV) saveJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return kv.Save(ctx, key, raw)
}
