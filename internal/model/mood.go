package model

// Mood is a categorical per-day emotional/health state of a pet.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodEnergetic Mood = "energetic"
	MoodSleepy    Mood = "sleepy"
	MoodSick      Mood = "sick"
)

// Valid reports whether the mood belongs to the closed set.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodEnergetic, MoodSleepy, MoodSick:
		return true
	}
	return false
}

// MoodHistory maps date key -> pet ID -> mood.
type MoodHistory map[string]map[string]Mood

// Streak counts consecutive days with at least one mood log.
type Streak struct {
	Count    int    `json:"count"`
	LastDate string `json:"lastDate"`
}
