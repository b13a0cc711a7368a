package models

import (
	"fmt"
	"strings"
	"time"
)

type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"

	// MediaTypeAll используется только в фильтрах, никогда не хранится в элементе
	MediaTypeAll MediaType = "all"
)

type EventType string

const (
	EventTypeMeetup     EventType = "meetup"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeSocial     EventType = "social"
	EventTypeConference EventType = "conference"

	// EventTypeAll используется только в фильтрах, никогда не хранится в элементе
	EventTypeAll EventType = "all"
)

// DurationUnknown помечает видео, для которого источник не сообщил длительность
const DurationUnknown = 0

// MediaItem представляет один элемент галереи. После загрузки из листинга
// элемент неизменяем: фильтрация и сортировка всегда строят новые срезы.
type MediaItem struct {
	ID           string    `json:"id" db:"id"`
	URL          string    `json:"url" db:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	Type         MediaType `json:"type" db:"media_type"`
	EventType    EventType `json:"event_type" db:"event_type"`
	EventName    string    `json:"event_name" db:"event_name"`
	EventDate    time.Time `json:"event_date" db:"event_date"` // нулевое значение = дата не распарсилась
	Photographer string    `json:"photographer" db:"photographer"`
	Description  string    `json:"description" db:"description"`
	Tags         []string  `json:"tags" db:"-"` // порядок важен: первые N показываются в карточке
	Width        int       `json:"width" db:"width"`
	Height       int       `json:"height" db:"height"`
	Duration     *int      `json:"duration,omitempty" db:"duration"` // секунды, только для видео
}

func (m MediaItem) IsVideo() bool {
	return m.Type == MediaTypeVideo
}

// HasValidDate сообщает, распарсилась ли дата события из листинга
func (m MediaItem) HasValidDate() bool {
	return !m.EventDate.IsZero()
}

func (t MediaType) IsStorable() bool {
	return t == MediaTypePhoto || t == MediaTypeVideo
}

func (t EventType) IsStorable() bool {
	switch t {
	case EventTypeMeetup, EventTypeWorkshop, EventTypeSocial, EventTypeConference:
		return true
	}

	return false
}

// Validate проверяет инварианты элемента галереи
func (m *MediaItem) Validate() error {
	var validationErrors []string

	if m.ID == "" {
		validationErrors = append(validationErrors, "id is required")
	}
	if m.URL == "" {
		validationErrors = append(validationErrors, "url is required")
	}
	if m.EventName == "" {
		validationErrors = append(validationErrors, "event name is required")
	}
	if m.Photographer == "" {
		validationErrors = append(validationErrors, "photographer is required")
	}

	if !m.Type.IsStorable() {
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid media type '%s', must be one of: [%s %s]",
				m.Type, MediaTypePhoto, MediaTypeVideo))
	}

	if !m.EventType.IsStorable() {
		validationErrors = append(validationErrors,
			fmt.Sprintf("invalid event type '%s', must be one of: [%s %s %s %s]",
				m.EventType, EventTypeMeetup, EventTypeWorkshop, EventTypeSocial, EventTypeConference))
	}

	if m.Width <= 0 || m.Height <= 0 {
		validationErrors = append(validationErrors, "width and height must be positive values")
	}

	// Длительность есть тогда и только тогда, когда это видео
	switch {
	case m.Type == MediaTypeVideo && m.Duration == nil:
		validationErrors = append(validationErrors, "duration is required for videos")
	case m.Type == MediaTypeVideo && *m.Duration < DurationUnknown:
		validationErrors = append(validationErrors, "duration must not be negative")
	case m.Type == MediaTypePhoto && m.Duration != nil:
		validationErrors = append(validationErrors, "duration must be absent for photos")
	}

	if len(validationErrors) > 0 {
		return &MediaValidationError{
			Errors: validationErrors,
		}
	}

	return nil
}

// MediaValidationError кастомный тип ошибки для валидации
type MediaValidationError struct {
	Errors []string
}

func (e *MediaValidationError) Error() string {
	return fmt.Sprintf("media validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsMediaValidationError проверяет, является ли ошибка ошибкой валидации
func IsMediaValidationError(err error) bool {
	_, ok := err.(*MediaValidationError)
	return ok
}
