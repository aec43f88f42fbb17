package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petpal/internal/model"
)

func validRequest(freq model.Frequency) model.RecurrenceRequest {
	return model.RecurrenceRequest{
		Title:      "Rabies booster",
		Type:       model.EventVaccine,
		PetID:      "pet-1",
		Time:       "09:30",
		Note:       "bring vaccination card",
		Frequency:  freq,
		AnchorDate: "2024-05-10",
	}
}

func TestExpandInstanceCounts(t *testing.T) {
	cases := map[model.Frequency]int{
		model.FreqOnce:      1,
		model.FreqDaily:     30,
		model.FreqWeekly:    52,
		model.FreqMonthly:   12,
		model.FreqQuarterly: 4,
		model.FreqYearly:    5,
	}

	for freq, want := range cases {
		events, err := Expand(validRequest(freq))
		require.NoError(t, err, "frequency %s", freq)
		assert.Len(t, events, want, "frequency %s", freq)
		assert.Equal(t, "2024-05-10", events[0].Date, "first instance must land on the anchor for %s", freq)
	}
}

func TestExpandCopiesTemplateFields(t *testing.T) {
	req := validRequest(model.FreqWeekly)
	events, err := Expand(req)
	require.NoError(t, err)

	for _, ev := range events {
		assert.Equal(t, req.Title, ev.Title)
		assert.Equal(t, req.Type, ev.Type)
		assert.Equal(t, req.PetID, ev.PetID)
		assert.Equal(t, req.Time, ev.Time)
		assert.Equal(t, req.Note, ev.Note)
		assert.False(t, ev.Completed)
		assert.NotEmpty(t, ev.ID)
	}
}

func TestExpandIDsUniqueAcrossCalls(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		events, err := Expand(validRequest(model.FreqDaily))
		require.NoError(t, err)
		for _, ev := range events {
			assert.False(t, seen[ev.ID], "duplicate id %s", ev.ID)
			seen[ev.ID] = true
		}
	}
	assert.Len(t, seen, 90)
}

func TestExpandRejectsMissingFields(t *testing.T) {
	frequencies := []model.Frequency{
		model.FreqOnce, model.FreqDaily, model.FreqWeekly,
		model.FreqMonthly, model.FreqQuarterly, model.FreqYearly,
	}

	for _, freq := range frequencies {
		noTitle := validRequest(freq)
		noTitle.Title = "  "
		events, err := Expand(noTitle)
		assert.ErrorIs(t, err, ErrMissingFields, "empty title, frequency %s", freq)
		assert.Empty(t, events)

		noPet := validRequest(freq)
		noPet.PetID = ""
		events, err = Expand(noPet)
		assert.ErrorIs(t, err, ErrMissingFields, "empty pet, frequency %s", freq)
		assert.Empty(t, events)
	}
}

func TestExpandRejectsUnknownFrequency(t *testing.T) {
	req := validRequest("fortnightly")
	events, err := Expand(req)
	assert.ErrorIs(t, err, ErrInvalidFrequency)
	assert.Empty(t, events)
}

func TestExpandRejectsMalformedAnchor(t *testing.T) {
	req := validRequest(model.FreqOnce)
	req.AnchorDate = "10.05.2024"
	_, err := Expand(req)
	assert.Error(t, err)
}

// Monthly stepping from Jan 31 must follow time.AddDate overflow: "Feb 31"
// normalizes to Mar 2 in a leap year, and the roll-off carries forward to
// every later instance. Clamping to Feb 29 would be wrong here.
func TestExpandMonthlyOverflowFromJan31(t *testing.T) {
	req := validRequest(model.FreqMonthly)
	req.AnchorDate = "2024-01-31"

	events, err := Expand(req)
	require.NoError(t, err)
	require.Len(t, events, 12)

	want := []string{
		"2024-01-31", "2024-03-02", "2024-04-02", "2024-05-02",
		"2024-06-02", "2024-07-02", "2024-08-02", "2024-09-02",
		"2024-10-02", "2024-11-02", "2024-12-02", "2025-01-02",
	}
	for i, ev := range events {
		assert.Equal(t, want[i], ev.Date, "instance %d", i)
	}
}

func TestExpandQuarterlyOverflow(t *testing.T) {
	req := validRequest(model.FreqQuarterly)
	req.AnchorDate = "2024-11-30"

	events, err := Expand(req)
	require.NoError(t, err)
	require.Len(t, events, 4)

	want := []string{"2024-11-30", "2025-03-02", "2025-06-02", "2025-09-02"}
	for i, ev := range events {
		assert.Equal(t, want[i], ev.Date, "instance %d", i)
	}
}

func TestExpandYearlyFromLeapDay(t *testing.T) {
	req := validRequest(model.FreqYearly)
	req.AnchorDate = "2024-02-29"

	events, err := Expand(req)
	require.NoError(t, err)
	require.Len(t, events, 5)

	want := []string{"2024-02-29", "2025-03-01", "2026-03-01", "2027-03-01", "2028-03-01"}
	for i, ev := range events {
		assert.Equal(t, want[i], ev.Date, "instance %d", i)
	}
}

func TestExpandDailyCrossesMonthBoundary(t *testing.T) {
	req := validRequest(model.FreqDaily)
	req.AnchorDate = "2024-02-27"

	events, err := Expand(req)
	require.NoError(t, err)
	require.Len(t, events, 30)

	assert.Equal(t, "2024-02-27", events[0].Date)
	assert.Equal(t, "2024-02-29", events[2].Date)
	assert.Equal(t, "2024-03-01", events[3].Date)
	assert.Equal(t, "2024-03-27", events[29].Date)
}

func TestExpandWeeklyCoversFullYear(t *testing.T) {
	events, err := Expand(validRequest(model.FreqWeekly))
	require.NoError(t, err)
	require.Len(t, events, 52)

	assert.Equal(t, "2024-05-10", events[0].Date)
	assert.Equal(t, "2024-05-17", events[1].Date)
	assert.Equal(t, "2025-05-02", events[51].Date)
}
