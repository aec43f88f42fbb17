package calendar

import (
	"fmt"
	"sort"
	"time"

	"petpal/internal/model"
)

// DayCell is the aggregated presence of event/mood/photo data for one
// calendar date. It is a pure projection recomputed on every query and is
// never persisted.
type DayCell struct {
	Date     string
	HasEvent bool
	Mood     model.Mood // primary pet only; empty when no entry exists
	Photo    *model.PhotoMemory
	Events   []model.ReminderEvent
}

// ResolveDay projects the three source collections onto a single date key.
// Only the primary pet's mood surfaces at the cell level; the photo and the
// mood are orthogonal facets and may both be present. Events are ordered
// ascending by time of day (lexicographic works: HH:MM is fixed-width).
func ResolveDay(date string, reminders []model.ReminderEvent, moods model.MoodHistory, photos model.PhotoIndex, primaryPetID string) DayCell {
	cell := DayCell{Date: date}

	for _, ev := range reminders {
		if ev.Date == date {
			cell.Events = append(cell.Events, ev)
		}
	}
	sort.SliceStable(cell.Events, func(i, j int) bool {
		return cell.Events[i].Time < cell.Events[j].Time
	})
	cell.HasEvent = len(cell.Events) > 0

	if byPet, ok := moods[date]; ok {
		if mood, ok := byPet[primaryPetID]; ok {
			cell.Mood = mood
		}
	}

	if photo, ok := photos[date]; ok {
		p := photo
		cell.Photo = &p
	}

	return cell
}

// PhotosInMonth returns every photo memory whose date falls within the
// given month, ascending by date. At most one photo exists per date key,
// so no dedup is needed.
func PhotosInMonth(photos model.PhotoIndex, year int, month time.Month) []model.PhotoMemory {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))

	var result []model.PhotoMemory
	for date, photo := range photos {
		if len(date) >= len(prefix) && date[:len(prefix)] == prefix {
			result = append(result, photo)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

// MonthDays lists every date key of the given month in order, for rendering
// a month grid cell by cell.
func MonthDays(year int, month time.Month) []string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]string, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}
