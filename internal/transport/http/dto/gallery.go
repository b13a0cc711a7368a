package dto

import "event_gallery/internal/domain/models"

// GalleryQuery — параметры фильтрации и сортировки галереи из query string.
// Пустые значения означают умолчания (all / all / all / date_desc).
type GalleryQuery struct {
	EventType  string `query:"event_type" validate:"omitempty,oneof=all meetup workshop social conference"`
	MediaType  string `query:"media_type" validate:"omitempty,oneof=all photo video"`
	TimePeriod string `query:"time_period" validate:"omitempty,oneof=all recent this_year last_year"`
	Search     string `query:"search" validate:"omitempty,max=200"`
	SortBy     string `query:"sort_by" validate:"omitempty,oneof=date_desc date_asc event_name popularity"`
	Cursor     int    `query:"cursor" validate:"omitempty,min=0"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

func (q GalleryQuery) ToFilters() models.GalleryFilters {
	f := models.GalleryFilters{
		EventType:   models.EventType(q.EventType),
		MediaType:   models.MediaType(q.MediaType),
		TimePeriod:  models.TimePeriod(q.TimePeriod),
		SearchQuery: q.Search,
		SortBy:      models.SortOrder(q.SortBy),
	}

	return f.Normalize()
}

// GalleryFiltersPayload — те же фильтры в теле POST-запросов
type GalleryFiltersPayload struct {
	EventType  string `json:"event_type" validate:"omitempty,oneof=all meetup workshop social conference"`
	MediaType  string `json:"media_type" validate:"omitempty,oneof=all photo video"`
	TimePeriod string `json:"time_period" validate:"omitempty,oneof=all recent this_year last_year"`
	Search     string `json:"search" validate:"omitempty,max=200"`
	SortBy     string `json:"sort_by" validate:"omitempty,oneof=date_desc date_asc event_name popularity"`
}

func (p GalleryFiltersPayload) ToFilters() models.GalleryFilters {
	f := models.GalleryFilters{
		EventType:   models.EventType(p.EventType),
		MediaType:   models.MediaType(p.MediaType),
		TimePeriod:  models.TimePeriod(p.TimePeriod),
		SearchQuery: p.Search,
		SortBy:      models.SortOrder(p.SortBy),
	}

	return f.Normalize()
}
