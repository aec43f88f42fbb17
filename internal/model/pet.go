package model

// Pet is a registered animal profile. The calendar engine only references
// pets by ID; it never creates or deletes them.
type Pet struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Species   string          `json:"species"`
	Breed     string          `json:"breed,omitempty"`
	Gender    string          `json:"gender,omitempty"`
	Color     string          `json:"color,omitempty"`
	BirthDate string          `json:"birthDate,omitempty"`
	Weights   []WeightEntry   `json:"weights,omitempty"`
	Vaccines  []VaccineRecord `json:"vaccines,omitempty"`
	Notes     []PetNote       `json:"notes,omitempty"`
}

// WeightEntry is one weigh-in, keyed by date.
type WeightEntry struct {
	Date string  `json:"date"`
	Kg   float64 `json:"kg"`
}

// VaccineRecord is one administered vaccine.
type VaccineRecord struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// PetNote is a free-text note attached to a pet.
type PetNote struct {
	Date string `json:"date"`
	Text string `json:"text"`
}
