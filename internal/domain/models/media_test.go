package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPhoto() MediaItem {
	return MediaItem{
		ID:           "m1",
		URL:          "https://ik.example.com/gallery/summer.jpg",
		Type:         MediaTypePhoto,
		EventType:    EventTypeMeetup,
		EventName:    "Go Meetup",
		Photographer: "Anna",
		Width:        1600,
		Height:       900,
	}
}

func validVideo() MediaItem {
	d := 120
	item := validPhoto()
	item.Type = MediaTypeVideo
	item.Duration = &d
	return item
}

func TestMediaItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MediaItem)
		wantErr string
	}{
		{"valid photo", func(m *MediaItem) {}, ""},
		{
			"missing id",
			func(m *MediaItem) { m.ID = "" },
			"id is required",
		},
		{
			"missing url",
			func(m *MediaItem) { m.URL = "" },
			"url is required",
		},
		{
			"unknown media type",
			func(m *MediaItem) { m.Type = "gif" },
			"invalid media type",
		},
		{
			"filter-only media type is not storable",
			func(m *MediaItem) { m.Type = MediaTypeAll },
			"invalid media type",
		},
		{
			"unknown event type",
			func(m *MediaItem) { m.EventType = "hackathon" },
			"invalid event type",
		},
		{
			"filter-only event type is not storable",
			func(m *MediaItem) { m.EventType = EventTypeAll },
			"invalid event type",
		},
		{
			"non-positive dimensions",
			func(m *MediaItem) { m.Width = 0 },
			"width and height must be positive",
		},
		{
			"photo with duration",
			func(m *MediaItem) { d := 10; m.Duration = &d },
			"duration must be absent for photos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validPhoto()
			tt.mutate(&item)

			err := item.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsMediaValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMediaItem_ValidateVideoDuration(t *testing.T) {
	t.Run("video without duration", func(t *testing.T) {
		item := validVideo()
		item.Duration = nil

		err := item.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duration is required for videos")
	})

	t.Run("negative duration", func(t *testing.T) {
		item := validVideo()
		d := -1
		item.Duration = &d

		err := item.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duration must not be negative")
	})

	t.Run("unknown duration sentinel is allowed", func(t *testing.T) {
		item := validVideo()
		d := DurationUnknown
		item.Duration = &d

		assert.NoError(t, item.Validate())
	})
}

func TestMediaItem_HasValidDate(t *testing.T) {
	item := validPhoto()
	assert.False(t, item.HasValidDate())

	item.EventDate = time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, item.HasValidDate())
}

func TestMediaItem_IsVideo(t *testing.T) {
	assert.False(t, validPhoto().IsVideo())
	assert.True(t, validVideo().IsVideo())
}
