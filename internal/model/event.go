package model

// EventType categorizes a calendar reminder (vaccine, vet visit, etc.).
type EventType string

const (
	EventVaccine    EventType = "vaccine"
	EventVet        EventType = "vet"
	EventMedication EventType = "medication"
	EventGrooming   EventType = "grooming"
	EventPlay       EventType = "play"
	EventOther      EventType = "other"
)

// Valid reports whether the type belongs to the closed set.
func (t EventType) Valid() bool {
	switch t {
	case EventVaccine, EventVet, EventMedication, EventGrooming, EventPlay, EventOther:
		return true
	}
	return false
}

// Frequency selects how a reminder template is expanded into instances.
type Frequency string

const (
	FreqOnce      Frequency = "once"
	FreqDaily     Frequency = "daily"
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
)

// Valid reports whether the frequency belongs to the closed set.
func (f Frequency) Valid() bool {
	switch f {
	case FreqOnce, FreqDaily, FreqWeekly, FreqMonthly, FreqQuarterly, FreqYearly:
		return true
	}
	return false
}

// ReminderEvent is a single dated calendar entry. Date is a naive local
// date key formatted YYYY-MM-DD; Time is a zero-padded 24h HH:MM string.
// Lookups rely on exact string equality of these keys.
type ReminderEvent struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Type      EventType `json:"type"`
	PetID     string    `json:"petId"`
	Time      string    `json:"time"`
	Note      string    `json:"note,omitempty"`
	Completed bool      `json:"completed"`
}

// RecurrenceRequest is the transient template used to expand a recurring
// reminder. It is never persisted; only the expanded instances are.
type RecurrenceRequest struct {
	Title      string
	Type       EventType
	PetID      string
	Time       string
	Note       string
	Frequency  Frequency
	AnchorDate string
}
