package services

import (
	"testing"
	"time"

	"event_gallery/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func testCollection() []models.MediaItem {
	return []models.MediaItem{
		{
			ID:        "m1",
			Type:      models.MediaTypePhoto,
			EventType: models.EventTypeMeetup,
			EventName: "Go Meetup Spring",
			EventDate: date(2025, time.April, 10),
			Tags:      []string{"golang", "community"},
		},
		{
			ID:          "m2",
			Type:        models.MediaTypeVideo,
			EventType:   models.EventTypeWorkshop,
			EventName:   "Docker Workshop",
			EventDate:   date(2025, time.January, 15),
			Description: "Hands-on container workshop",
		},
		{
			ID:        "m3",
			Type:      models.MediaTypePhoto,
			EventType: models.EventTypeSocial,
			EventName: "Summer Picnic",
			EventDate: date(2024, time.July, 20),
		},
		{
			ID:        "m4",
			Type:      models.MediaTypePhoto,
			EventType: models.EventTypeConference,
			EventName: "Annual Conference",
			EventDate: date(2024, time.March, 5),
		},
		{
			ID:        "m5",
			Type:      models.MediaTypeVideo,
			EventType: models.EventTypeMeetup,
			EventName: "Go Meetup Winter",
			// дата не распарсилась
		},
	}
}

func TestApplyFilters_DefaultsKeepEverything(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	got := ApplyFilters(items, models.DefaultFilters(), now)

	assert.Len(t, got, len(items))
	// date_desc, элементы без даты в хвосте
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
	assert.Equal(t, "m3", got[2].ID)
	assert.Equal(t, "m4", got[3].ID)
	assert.Equal(t, "m5", got[4].ID)
}

func TestApplyFilters_ByEventAndMediaType(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	tests := []struct {
		name    string
		filters models.GalleryFilters
		wantIDs []string
	}{
		{
			name:    "meetups only",
			filters: models.GalleryFilters{EventType: models.EventTypeMeetup},
			wantIDs: []string{"m1", "m5"},
		},
		{
			name:    "videos only",
			filters: models.GalleryFilters{MediaType: models.MediaTypeVideo},
			wantIDs: []string{"m2", "m5"},
		},
		{
			name: "meetup videos",
			filters: models.GalleryFilters{
				EventType: models.EventTypeMeetup,
				MediaType: models.MediaTypeVideo,
			},
			wantIDs: []string{"m5"},
		},
		{
			name:    "no matches",
			filters: models.GalleryFilters{EventType: models.EventTypeWorkshop, MediaType: models.MediaTypePhoto},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(items, tt.filters, now)

			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyFilters_TimePeriods(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	tests := []struct {
		period  models.TimePeriod
		wantIDs []string
	}{
		// последние три месяца: только апрельский митап
		{models.TimePeriodRecent, []string{"m1"}},
		// текущий год с 1 января
		{models.TimePeriodThisYear, []string{"m1", "m2"}},
		// ровно год назад .. начало текущего года
		{models.TimePeriodLastYear, []string{"m3"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := ApplyFilters(items, models.GalleryFilters{TimePeriod: tt.period}, now)

			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

// граница окна "прошлый год" при now=2025-06-01: ровно [2024-06-01, 2025-01-01)
func TestApplyFilters_LastYearWindowBoundaries(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	items := []models.MediaItem{
		{ID: "before", Type: models.MediaTypePhoto, EventType: models.EventTypeMeetup, EventDate: time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC)},
		{ID: "start", Type: models.MediaTypePhoto, EventType: models.EventTypeMeetup, EventDate: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "inside", Type: models.MediaTypePhoto, EventType: models.EventTypeMeetup, EventDate: time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{ID: "end", Type: models.MediaTypePhoto, EventType: models.EventTypeMeetup, EventDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := ApplyFilters(items, models.GalleryFilters{TimePeriod: models.TimePeriodLastYear}, now)

	require.Len(t, got, 2)
	assert.Equal(t, "inside", got[0].ID)
	assert.Equal(t, "start", got[1].ID)
}

func TestApplyFilters_UndatedExcludedFromPeriods(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	for _, period := range []models.TimePeriod{
		models.TimePeriodRecent,
		models.TimePeriodThisYear,
		models.TimePeriodLastYear,
	} {
		got := ApplyFilters(items, models.GalleryFilters{TimePeriod: period}, now)
		for _, it := range got {
			assert.NotEqual(t, "m5", it.ID, "undated item leaked into %s", period)
		}
	}

	// при all_time элемент без даты остаётся
	got := ApplyFilters(items, models.DefaultFilters(), now)
	assert.Equal(t, "m5", got[len(got)-1].ID)
}

// нераспознанный период ведёт себя как all: ничего не сужает
// и не отбрасывает элементы без даты
func TestApplyFilters_UnknownPeriodKeepsEverything(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	got := ApplyFilters(items, models.GalleryFilters{TimePeriod: "all_time"}, now)

	assert.Len(t, got, len(items))
	assert.Equal(t, "m5", got[len(got)-1].ID)
}

func TestApplyFilters_Search(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"by event name case-insensitive", "go meetup", []string{"m1", "m5"}},
		{"by description", "container", []string{"m2"}},
		{"by tag", "golang", []string{"m1"}},
		{"whitespace trimmed", "  picnic  ", []string{"m3"}},
		{"no match", "nonexistent", []string{}},
		{"empty matches everything", "", []string{"m1", "m2", "m3", "m4", "m5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(items, models.GalleryFilters{SearchQuery: tt.query}, now)

			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApplyFilters_Sorting(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()

	t.Run("date_asc puts undated first", func(t *testing.T) {
		got := ApplyFilters(items, models.GalleryFilters{SortBy: models.SortByDateAsc}, now)

		require.Len(t, got, 5)
		assert.Equal(t, "m5", got[0].ID)
		assert.Equal(t, "m1", got[len(got)-1].ID)
	})

	t.Run("event_name alphabetical", func(t *testing.T) {
		got := ApplyFilters(items, models.GalleryFilters{SortBy: models.SortByEventName}, now)

		require.Len(t, got, 5)
		assert.Equal(t, "Annual Conference", got[0].EventName)
		assert.Equal(t, "Docker Workshop", got[1].EventName)
		assert.Equal(t, "Summer Picnic", got[4].EventName)
	})

	t.Run("popularity falls back to date_desc", func(t *testing.T) {
		byPopularity := ApplyFilters(items, models.GalleryFilters{SortBy: models.SortByPopularity}, now)
		byDateDesc := ApplyFilters(items, models.GalleryFilters{SortBy: models.SortByDateDesc}, now)

		assert.Equal(t, byDateDesc, byPopularity)
	})
}

func TestApplyFilters_PureAndIdempotent(t *testing.T) {
	now := date(2025, time.June, 1)
	items := testCollection()
	filters := models.GalleryFilters{SortBy: models.SortByDateAsc}

	before := make([]models.MediaItem, len(items))
	copy(before, items)

	first := ApplyFilters(items, filters, now)
	second := ApplyFilters(items, filters, now)

	// исходный срез не тронут
	assert.Equal(t, before, items)
	// одинаковый вход даёт одинаковый выход
	assert.Equal(t, first, second)
	// повторное применение к результату ничего не меняет
	assert.Equal(t, first, ApplyFilters(first, filters, now))
}

func TestApplyFilters_EmptyInput(t *testing.T) {
	got := ApplyFilters(nil, models.DefaultFilters(), date(2025, time.June, 1))

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
