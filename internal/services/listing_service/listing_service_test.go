package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event_gallery/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"log/slog"
)

type MockMediaSaver struct {
	mock.Mock
}

func (m *MockMediaSaver) UpsertMedia(ctx context.Context, items []models.MediaItem) (int, error) {
	args := m.Called(ctx, items)
	return args.Int(0), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateItems(ctx context.Context) {
	m.Called(ctx)
}

const listingPayload = `{
	"meetup": [
		{
			"id": "m1",
			"url": "https://ik.example.com/gallery/meetup1.jpg",
			"type": "photo",
			"eventName": "Go Meetup",
			"eventDate": "2025-04-10",
			"photographer": "Anna",
			"tags": ["golang"],
			"width": 1600,
			"height": 900
		},
		{
			"url": "https://ik.example.com/gallery/meetup2.mp4",
			"type": "video",
			"eventName": "Go Meetup",
			"eventDate": "2025-04-10T18:30:00Z",
			"photographer": "Anna"
		}
	],
	"unknown_folder": [
		{
			"id": "x1",
			"url": "https://ik.example.com/gallery/odd.jpg",
			"type": "photo",
			"eventName": "Mystery",
			"photographer": "Bob"
		}
	]
}`

func TestListingService_Sync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPayload))
	}))
	defer srv.Close()

	saver := new(MockMediaSaver)
	invalidator := new(MockInvalidator)

	var saved []models.MediaItem
	saver.On("UpsertMedia", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]models.MediaItem)
		}).
		Return(2, nil).Once()
	invalidator.On("InvalidateItems", mock.Anything).Once()

	svc := NewListingService(slog.Default(), saver, invalidator, srv.URL)

	count, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// элемент из неизвестной папки не прошёл валидацию и был пропущен
	require.Len(t, saved, 2)

	photo, video := saved[0], saved[1]
	if photo.IsVideo() {
		photo, video = video, photo
	}

	// явные размеры сохранены как есть
	assert.Equal(t, "m1", photo.ID)
	assert.Equal(t, models.EventTypeMeetup, photo.EventType)
	assert.Equal(t, 1600, photo.Width)
	assert.Equal(t, 900, photo.Height)
	assert.Equal(t, time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC), photo.EventDate)
	assert.Nil(t, photo.Duration)

	// видео без id/размеров/длительности получает умолчания
	assert.NotEmpty(t, video.ID)
	assert.Equal(t, 1920, video.Width)
	assert.Equal(t, 1080, video.Height)
	require.NotNil(t, video.Duration)
	assert.Equal(t, models.DurationUnknown, *video.Duration)
	assert.Equal(t, time.Date(2025, time.April, 10, 18, 30, 0, 0, time.UTC), video.EventDate)

	saver.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestListingService_SyncRetriesOnce(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	saver := new(MockMediaSaver)
	invalidator := new(MockInvalidator)

	saver.On("UpsertMedia", mock.Anything, mock.Anything).Return(0, nil).Once()
	invalidator.On("InvalidateItems", mock.Anything).Once()

	svc := NewListingService(slog.Default(), saver, invalidator, srv.URL)

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestListingService_SyncFailsAfterRetry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	saver := new(MockMediaSaver)
	invalidator := new(MockInvalidator)

	svc := NewListingService(slog.Default(), saver, invalidator, srv.URL)

	_, err := svc.Sync(context.Background())
	assert.Error(t, err)

	// при недоступном каталоге ранее сохранённые медиа не трогаем
	saver.AssertNotCalled(t, "UpsertMedia", mock.Anything, mock.Anything)
	invalidator.AssertNotCalled(t, "InvalidateItems", mock.Anything)
}

func TestListingService_SyncBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	saver := new(MockMediaSaver)
	svc := NewListingService(slog.Default(), saver, new(MockInvalidator), srv.URL)

	_, err := svc.Sync(context.Background())
	assert.Error(t, err)
	saver.AssertNotCalled(t, "UpsertMedia", mock.Anything, mock.Anything)
}

// листинги встречаются с повторами тегов; в хранилище тег уникален
// на элемент, поэтому повторы снимаются до сохранения
func TestListingService_SyncDeduplicatesTags(t *testing.T) {
	payload := `{
		"meetup": [
			{
				"id": "m1",
				"url": "https://ik.example.com/gallery/meetup1.jpg",
				"type": "photo",
				"eventName": "Go Meetup",
				"photographer": "Anna",
				"tags": ["go", "community", "go", "go"]
			}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	saver := new(MockMediaSaver)
	invalidator := new(MockInvalidator)

	var saved []models.MediaItem
	saver.On("UpsertMedia", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]models.MediaItem)
		}).
		Return(1, nil).Once()
	invalidator.On("InvalidateItems", mock.Anything).Once()

	svc := NewListingService(slog.Default(), saver, invalidator, srv.URL)

	_, err := svc.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, saved, 1)
	assert.Equal(t, []string{"go", "community"}, saved[0].Tags)
}

func TestDedupeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"order preserved", []string{"b", "a", "b", "a"}, []string{"b", "a"}},
		{"all same", []string{"x", "x", "x"}, []string{"x"}},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupeTags(tt.in))
		})
	}
}

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		raw      string
		wantZero bool
	}{
		{"2025-04-10", false},
		{"2025-04-10T18:30:00Z", false},
		{"", true},
		{"next tuesday", true},
		{"10.04.2025", true},
	}

	for _, tt := range tests {
		got := parseEventDate(tt.raw)
		assert.Equal(t, tt.wantZero, got.IsZero(), "raw=%q", tt.raw)
	}
}
