package repository

import (
	"context"
	"sync"

	"petpal/internal/model"
)

// PhotoStore manages the date-keyed photo memories.
type PhotoStore struct {
	kv *KV
	mu sync.Mutex
}

func NewPhotoStore(kv *KV) *PhotoStore {
	return &PhotoStore{kv: kv}
}

func (s *PhotoStore) Index(ctx context.Context) (model.PhotoIndex, error) {
	index := model.PhotoIndex{}
	if err := s.kv.loadJSON(ctx, keyPhotos, &index); err != nil {
		return nil, err
	}
	return index, nil
}

// Put stores the photo under its date key, replacing any earlier memory of
// that day.
func (s *PhotoStore) Put(ctx context.Context, photo model.PhotoMemory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.Index(ctx)
	if err != nil {
		return err
	}
	index[photo.Date] = photo
	return s.kv.saveJSON(ctx, keyPhotos, index)
}
