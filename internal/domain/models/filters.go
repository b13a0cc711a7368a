package models

import "strings"

type TimePeriod string

const (
	TimePeriodAll      TimePeriod = "all"
	TimePeriodRecent   TimePeriod = "recent"
	TimePeriodThisYear TimePeriod = "this_year"
	TimePeriodLastYear TimePeriod = "last_year"
)

type SortOrder string

const (
	SortByDateDesc   SortOrder = "date_desc"
	SortByDateAsc    SortOrder = "date_asc"
	SortByEventName  SortOrder = "event_name"
	SortByPopularity SortOrder = "popularity"
)

// GalleryFilters описывает выбранное пользователем представление галереи.
// Набор фильтров по умолчанию отбирает всю коллекцию, новые сверху.
type GalleryFilters struct {
	EventType   EventType  `json:"event_type"`
	MediaType   MediaType  `json:"media_type"`
	TimePeriod  TimePeriod `json:"time_period"`
	SearchQuery string     `json:"search_query"`
	SortBy      SortOrder  `json:"sort_by"`
}

func DefaultFilters() GalleryFilters {
	return GalleryFilters{
		EventType:   EventTypeAll,
		MediaType:   MediaTypeAll,
		TimePeriod:  TimePeriodAll,
		SearchQuery: "",
		SortBy:      SortByDateDesc,
	}
}

// Normalize подставляет значения по умолчанию вместо пустых полей,
// чтобы частично заполненный фильтр всегда был корректным
func (f GalleryFilters) Normalize() GalleryFilters {
	if f.EventType == "" {
		f.EventType = EventTypeAll
	}
	if f.MediaType == "" {
		f.MediaType = MediaTypeAll
	}
	if f.TimePeriod == "" {
		f.TimePeriod = TimePeriodAll
	}
	if f.SortBy == "" {
		f.SortBy = SortByDateDesc
	}
	f.SearchQuery = strings.TrimSpace(f.SearchQuery)

	return f
}

func (f GalleryFilters) IsDefault() bool {
	return f.Normalize() == DefaultFilters()
}

// CacheKey строит детерминированный ключ фильтра для кэширования представлений
func (f GalleryFilters) CacheKey() string {
	f = f.Normalize()

	return strings.Join([]string{
		string(f.EventType),
		string(f.MediaType),
		string(f.TimePeriod),
		strings.ToLower(f.SearchQuery),
		string(f.SortBy),
	}, "|")
}
