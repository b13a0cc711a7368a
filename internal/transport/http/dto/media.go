package dto

import (
	"time"

	"event_gallery/internal/domain/models"
)

// ThumbnailSet — готовый набор атрибутов миниатюры для рендера
type ThumbnailSet struct {
	URL     string `json:"url"`
	Srcset  string `json:"srcset"`
	Sizes   string `json:"sizes"`
	Loaded  bool   `json:"loaded"`
	Errored bool   `json:"errored"`
}

type MediaItemResponse struct {
	ID           string       `json:"id"`
	URL          string       `json:"url"`
	Type         string       `json:"type"`
	EventType    string       `json:"event_type"`
	EventName    string       `json:"event_name"`
	EventDate    *time.Time   `json:"event_date,omitempty"`
	Photographer string       `json:"photographer"`
	Description  string       `json:"description"`
	Tags         []string     `json:"tags"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	Duration     *int         `json:"duration,omitempty"`
	Thumbnail    ThumbnailSet `json:"thumbnail"`
}

// NewMediaItemResponse собирает ответный элемент; нулевая дата события
// наружу не отдаётся, в JSON её просто нет
func NewMediaItemResponse(item models.MediaItem, thumb ThumbnailSet) MediaItemResponse {
	resp := MediaItemResponse{
		ID:           item.ID,
		URL:          item.URL,
		Type:         string(item.Type),
		EventType:    string(item.EventType),
		EventName:    item.EventName,
		Photographer: item.Photographer,
		Description:  item.Description,
		Tags:         item.Tags,
		Width:        item.Width,
		Height:       item.Height,
		Duration:     item.Duration,
		Thumbnail:    thumb,
	}

	if item.HasValidDate() {
		d := item.EventDate
		resp.EventDate = &d
	}

	return resp
}

type GalleryResponse struct {
	Items      []MediaItemResponse `json:"items"`
	Total      int                 `json:"total"`
	NextCursor int                 `json:"next_cursor"`
	HasMore    bool                `json:"has_more"`
}

type LoadMoreRequest struct {
	Cursor  int                   `json:"cursor" validate:"min=0"`
	Limit   int                   `json:"limit" validate:"omitempty,min=1,max=100"`
	Filters GalleryFiltersPayload `json:"filters"`
}

type ThumbnailStateRequest struct {
	URL   string `json:"url" validate:"required"`
	Event string `json:"event" validate:"required,oneof=loaded errored"`
}

type ViewportRequest struct {
	Width      int     `json:"width" validate:"required,min=1"`
	PixelRatio float64 `json:"pixel_ratio" validate:"omitempty,min=0.5,max=5"`
}
