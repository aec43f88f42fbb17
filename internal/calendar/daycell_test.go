package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petpal/internal/model"
)

func TestResolveDayOrdersEventsByTime(t *testing.T) {
	reminders := []model.ReminderEvent{
		{ID: "b", Date: "2024-05-10", Title: "Walk", Type: model.EventPlay, Time: "14:00"},
		{ID: "a", Date: "2024-05-10", Title: "Pills", Type: model.EventMedication, Time: "09:00"},
		{ID: "c", Date: "2024-05-11", Title: "Groomer", Type: model.EventGrooming, Time: "08:00"},
	}

	cell := ResolveDay("2024-05-10", reminders, nil, nil, "pet-1")

	assert.True(t, cell.HasEvent)
	require.Len(t, cell.Events, 2)
	assert.Equal(t, "09:00", cell.Events[0].Time)
	assert.Equal(t, "14:00", cell.Events[1].Time)
}

func TestResolveDayEmpty(t *testing.T) {
	cell := ResolveDay("2024-05-10", nil, model.MoodHistory{}, model.PhotoIndex{}, "pet-1")

	assert.False(t, cell.HasEvent)
	assert.Empty(t, cell.Events)
	assert.Empty(t, cell.Mood)
	assert.Nil(t, cell.Photo)
}

func TestResolveDaySurfacesPrimaryPetMoodOnly(t *testing.T) {
	moods := model.MoodHistory{
		"2024-05-10": {
			"pet-1": model.MoodSleepy,
			"pet-2": model.MoodEnergetic,
		},
	}

	cell := ResolveDay("2024-05-10", nil, moods, nil, "pet-1")
	assert.Equal(t, model.MoodSleepy, cell.Mood)

	// A mood logged only for another pet does not reach the grid cell.
	cell = ResolveDay("2024-05-10", nil, model.MoodHistory{"2024-05-10": {"pet-2": model.MoodSick}}, nil, "pet-1")
	assert.Empty(t, cell.Mood)
}

func TestResolveDayPhotoAndMoodCoexist(t *testing.T) {
	moods := model.MoodHistory{"2024-05-10": {"pet-1": model.MoodHappy}}
	photos := model.PhotoIndex{"2024-05-10": {Date: "2024-05-10", FileID: "file-123"}}

	cell := ResolveDay("2024-05-10", nil, moods, photos, "pet-1")

	assert.Equal(t, model.MoodHappy, cell.Mood)
	require.NotNil(t, cell.Photo)
	assert.Equal(t, "file-123", cell.Photo.FileID)
}

func TestResolveDayIsIdempotent(t *testing.T) {
	reminders := []model.ReminderEvent{
		{ID: "a", Date: "2024-05-10", Title: "Pills", Type: model.EventMedication, Time: "09:00"},
	}
	moods := model.MoodHistory{"2024-05-10": {"pet-1": model.MoodHappy}}
	photos := model.PhotoIndex{"2024-05-10": {Date: "2024-05-10", FileID: "file-123"}}

	first := ResolveDay("2024-05-10", reminders, moods, photos, "pet-1")
	second := ResolveDay("2024-05-10", reminders, moods, photos, "pet-1")

	assert.Equal(t, first, second)
}

func TestPhotosInMonth(t *testing.T) {
	photos := model.PhotoIndex{
		"2024-05-15": {Date: "2024-05-15", FileID: "mid"},
		"2024-05-01": {Date: "2024-05-01", FileID: "early"},
		"2024-06-01": {Date: "2024-06-01", FileID: "next-month"},
	}

	got := PhotosInMonth(photos, 2024, time.May)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-05-01", got[0].Date)
	assert.Equal(t, "2024-05-15", got[1].Date)
}

func TestPhotosInMonthEmpty(t *testing.T) {
	assert.Empty(t, PhotosInMonth(model.PhotoIndex{}, 2024, time.May))
}

func TestMonthDays(t *testing.T) {
	days := MonthDays(2024, time.February)
	require.Len(t, days, 29)
	assert.Equal(t, "2024-02-01", days[0])
	assert.Equal(t, "2024-02-29", days[28])
}
