package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petpal/internal/calendar"
	"petpal/internal/model"
	"petpal/internal/repository"
	"petpal/pkg/logger"
)

type fixtures struct {
	pets      *repository.PetStore
	reminders *repository.ReminderStore
	moods     *repository.MoodStore
	photos    *repository.PhotoStore
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	// A named in-memory database keeps each test isolated from the others.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := repository.NewDB(dsn)
	require.NoError(t, err)

	kv := repository.NewKV(db)
	return fixtures{
		pets:      repository.NewPetStore(kv),
		reminders: repository.NewReminderStore(kv),
		moods:     repository.NewMoodStore(kv),
		photos:    repository.NewPhotoStore(kv),
	}
}

func TestScheduleExpandsAndPersists(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	require.NoError(t, f.pets.Add(ctx, model.Pet{ID: "p1", Name: "Rex", Species: "dog"}))

	svc := NewReminderService(f.reminders, f.pets, logger.New("error"))
	events, err := svc.Schedule(ctx, model.RecurrenceRequest{
		Title:      "Heartworm pill",
		Type:       model.EventMedication,
		PetID:      "p1",
		Time:       "08:00",
		Frequency:  model.FreqMonthly,
		AnchorDate: "2024-05-10",
	})
	require.NoError(t, err)
	assert.Len(t, events, 12)

	stored, err := f.reminders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 12)
	assert.Equal(t, "2024-05-10", stored[0].Date)
}

func TestScheduleRejectsUnknownPet(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()

	svc := NewReminderService(f.reminders, f.pets, logger.New("error"))
	_, err := svc.Schedule(ctx, model.RecurrenceRequest{
		Title:      "Checkup",
		Type:       model.EventVet,
		PetID:      "ghost",
		Time:       "10:00",
		Frequency:  model.FreqOnce,
		AnchorDate: "2024-05-10",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stored, err := f.reminders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestScheduleSurfacesValidationErrors(t *testing.T) {
	f := newFixtures(t)
	svc := NewReminderService(f.reminders, f.pets, logger.New("error"))

	_, err := svc.Schedule(context.Background(), model.RecurrenceRequest{
		Title:      "No pet",
		Type:       model.EventOther,
		Time:       "10:00",
		Frequency:  model.FreqDaily,
		AnchorDate: "2024-05-10",
	})
	assert.ErrorIs(t, err, calendar.ErrMissingFields)
}

func TestMoodStreakProgression(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	svc := NewMoodService(f.moods, logger.New("error"))

	streak, err := svc.Log(ctx, "2024-05-10", "p1", model.MoodHappy)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.Count)

	// Consecutive day increments.
	streak, err = svc.Log(ctx, "2024-05-11", "p1", model.MoodSleepy)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Count)

	// Same day again leaves the streak untouched.
	streak, err = svc.Log(ctx, "2024-05-11", "p1", model.MoodEnergetic)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.Count)

	// A gap resets to one.
	streak, err = svc.Log(ctx, "2024-05-14", "p1", model.MoodHappy)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.Count)
}

func TestMoodLogRejectsUnknownMood(t *testing.T) {
	f := newFixtures(t)
	svc := NewMoodService(f.moods, logger.New("error"))

	_, err := svc.Log(context.Background(), "2024-05-10", "p1", model.Mood("grumpy"))
	assert.Error(t, err)
}

func TestCalendarDayShowsPrimaryPetMood(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	require.NoError(t, f.pets.Add(ctx, model.Pet{ID: "p1", Name: "Rex", Species: "dog"}))
	require.NoError(t, f.pets.Add(ctx, model.Pet{ID: "p2", Name: "Whiskers", Species: "cat"}))
	require.NoError(t, f.moods.Log(ctx, "2024-05-10", "p2", model.MoodSick))
	require.NoError(t, f.moods.Log(ctx, "2024-05-10", "p1", model.MoodHappy))

	svc := NewCalendarService(f.reminders, f.pets, f.moods, f.photos)
	cell, err := svc.Day(ctx, "2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, model.MoodHappy, cell.Mood)
}

func TestCalendarMonthLength(t *testing.T) {
	f := newFixtures(t)
	svc := NewCalendarService(f.reminders, f.pets, f.moods, f.photos)

	cells, err := svc.Month(context.Background(), 2024, time.February)
	require.NoError(t, err)
	require.Len(t, cells, 29)
	assert.Equal(t, "2024-02-01", cells[0].Date)
	assert.Equal(t, "2024-02-29", cells[28].Date)
}

func TestExportMonthICS(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	require.NoError(t, f.reminders.Append(ctx, []model.ReminderEvent{
		{ID: "e1", Date: "2024-05-10", Title: "Rabies booster", Type: model.EventVaccine, PetID: "p1", Time: "09:00", Note: "bring the passport"},
		{ID: "e2", Date: "2024-05-20", Title: "Grooming", Type: model.EventGrooming, PetID: "p1", Time: "14:30"},
		{ID: "e3", Date: "2024-06-01", Title: "Outside the month", Type: model.EventOther, PetID: "p1", Time: "10:00"},
	}))

	svc := NewExportService(f.reminders)
	ics, count, err := svc.MonthICS(ctx, 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "Rabies booster")
	assert.Contains(t, ics, "Grooming")
	assert.NotContains(t, ics, "Outside the month")
}

func TestExportEmptyMonth(t *testing.T) {
	f := newFixtures(t)
	svc := NewExportService(f.reminders)

	_, count, err := svc.MonthICS(context.Background(), 2030, time.January)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDailyDigestContents(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	require.NoError(t, f.pets.Add(ctx, model.Pet{ID: "p1", Name: "Rex", Species: "dog"}))
	require.NoError(t, f.reminders.Append(ctx, []model.ReminderEvent{
		{ID: "e1", Date: "2024-05-10", Title: "Morning pill", Type: model.EventMedication, PetID: "p1", Time: "08:00"},
		{ID: "e2", Date: "2024-05-10", Title: "Evening walk", Type: model.EventPlay, PetID: "p1", Time: "19:00", Completed: true},
	}))
	require.NoError(t, f.moods.Log(ctx, "2024-05-10", "p1", model.MoodEnergetic))

	cal := NewCalendarService(f.reminders, f.pets, f.moods, f.photos)
	svc := NewDigestService(cal, f.pets)

	now, err := time.Parse("2006-01-02", "2024-05-10")
	require.NoError(t, err)
	text, err := svc.Daily(ctx, now)
	require.NoError(t, err)

	assert.Contains(t, text, "Morning pill")
	assert.Contains(t, text, "Evening walk")
	assert.Contains(t, text, "Rex")
	assert.Contains(t, text, "⚡")
	// Completed events keep their check mark.
	assert.Contains(t, text, "✅")
	// Morning pill sorts before the evening walk.
	assert.Less(t, strings.Index(text, "Morning pill"), strings.Index(text, "Evening walk"))
}

func TestDailyDigestEmptyDay(t *testing.T) {
	f := newFixtures(t)
	cal := NewCalendarService(f.reminders, f.pets, f.moods, f.photos)
	svc := NewDigestService(cal, f.pets)

	text, err := svc.Daily(context.Background(), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, text, "nothing scheduled")
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("08:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 8 * * *", spec)

	for _, bad := range []string{"24:00", "08:60", "8am", ""} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}
