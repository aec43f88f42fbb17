package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"petpal/internal/model"
)

// PetStore manages the registered pet collection.
type PetStore struct {
	kv *KV
	mu sync.Mutex
}

func NewPetStore(kv *KV) *PetStore {
	return &PetStore{kv: kv}
}

func (s *PetStore) List(ctx context.Context) ([]model.Pet, error) {
	var pets []model.Pet
	if err := s.kv.loadJSON(ctx, keyPets, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

// Primary returns the first registered pet, which drives mood display at
// the calendar-grid level.
func (s *PetStore) Primary(ctx context.Context) (*model.Pet, error) {
	pets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(pets) == 0 {
		return nil, ErrNotFound
	}
	return &pets[0], nil
}

func (s *PetStore) Get(ctx context.Context, id string) (*model.Pet, error) {
	pets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pets {
		if pets[i].ID == id {
			return &pets[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByName matches a pet case-insensitively by name.
func (s *PetStore) FindByName(ctx context.Context, name string) (*model.Pet, error) {
	pets, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pets {
		if strings.EqualFold(pets[i].Name, name) {
			return &pets[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *PetStore) Add(ctx context.Context, pet model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pets, err := s.List(ctx)
	if err != nil {
		return err
	}
	pets = append(pets, pet)
	if err := s.kv.saveJSON(ctx, keyPets, pets); err != nil {
		return fmt.Errorf("add pet: %w", err)
	}
	return nil
}

// Update replaces the stored pet with the same ID.
func (s *PetStore) Update(ctx context.Context, pet model.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pets, err := s.List(ctx)
	if err != nil {
		return err
	}
	for i := range pets {
		if pets[i].ID == pet.ID {
			pets[i] = pet
			return s.kv.saveJSON(ctx, keyPets, pets)
		}
	}
	return ErrNotFound
}
