package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/metrics"

	"github.com/google/uuid"
)

const (
	requestTimeout = 30 * time.Second
	retryBackoff   = 2 * time.Second

	defaultPhotoWidth  = 1200
	defaultPhotoHeight = 800
	defaultVideoWidth  = 1920
	defaultVideoHeight = 1080
)

// MediaSaver сохраняет элементы каталога в хранилище
type MediaSaver interface {
	UpsertMedia(ctx context.Context, items []models.MediaItem) (int, error)
}

// GalleryInvalidator сбрасывает кэш коллекции после синхронизации
type GalleryInvalidator interface {
	InvalidateItems(ctx context.Context)
}

// listingEntry — один медиафайл в ответе каталога
type listingEntry struct {
	ID           string   `json:"id"`
	URL          string   `json:"url"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Type         string   `json:"type"`
	EventName    string   `json:"eventName"`
	EventDate    string   `json:"eventDate"`
	Photographer string   `json:"photographer"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Width        int      `json:"width"`
	Height       int      `json:"height"`
	Duration     *int     `json:"duration"`
}

// ListingService забирает каталог медиа с внешнего эндпоинта и
// раскладывает его в хранилище. Каталог сгруппирован по папкам,
// имя папки задаёт тип события.
type ListingService struct {
	log         *slog.Logger
	saver       MediaSaver
	invalidator GalleryInvalidator
	listingURL  string
	client      *http.Client
}

func NewListingService(log *slog.Logger, saver MediaSaver, invalidator GalleryInvalidator, listingURL string) *ListingService {
	return &ListingService{
		log:         log,
		saver:       saver,
		invalidator: invalidator,
		listingURL:  listingURL,
		client:      &http.Client{Timeout: requestTimeout},
	}
}

// Sync забирает каталог и обновляет хранилище; возвращает число сохранённых
// элементов. При недоступном каталоге ранее сохранённые медиа остаются как есть.
func (s *ListingService) Sync(ctx context.Context) (int, error) {
	const op = "listing_service.Sync"

	log := s.log.With(slog.String("op", op))

	body, err := s.fetchListing(ctx)
	if err != nil {
		metrics.ListingSyncTotal.WithLabelValues("fetch_error").Inc()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var listing map[string][]listingEntry
	if err := json.Unmarshal(body, &listing); err != nil {
		metrics.ListingSyncTotal.WithLabelValues("decode_error").Inc()
		return 0, fmt.Errorf("%s: decode listing: %w", op, err)
	}

	items := make([]models.MediaItem, 0, len(listing)*8)
	skipped := 0

	for folder, entries := range listing {
		for _, e := range entries {
			item := s.buildItem(folder, e)
			if err := item.Validate(); err != nil {
				skipped++
				log.Warn("skipping listing entry",
					slog.String("folder", folder),
					slog.String("url", e.URL),
					sl.Err(err),
				)

				continue
			}

			items = append(items, item)
		}
	}

	saved, err := s.saver.UpsertMedia(ctx, items)
	if err != nil {
		metrics.ListingSyncTotal.WithLabelValues("save_error").Inc()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidator.InvalidateItems(ctx)
	metrics.ListingSyncTotal.WithLabelValues("ok").Inc()

	log.Info("listing synced",
		slog.Int("saved", saved),
		slog.Int("skipped", skipped),
	)

	return saved, nil
}

// fetchListing делает запрос каталога с одним повтором после паузы
func (s *ListingService) fetchListing(ctx context.Context) ([]byte, error) {
	body, err := s.doFetch(ctx)
	if err == nil {
		return body, nil
	}

	s.log.Warn("listing fetch failed, retrying", sl.Err(err))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryBackoff):
	}

	return s.doFetch(ctx)
}

func (s *ListingService) doFetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.listingURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing endpoint returned %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// buildItem переводит запись каталога в доменную модель, подставляя
// умолчания для пропущенных размеров и дат
func (s *ListingService) buildItem(folder string, e listingEntry) models.MediaItem {
	item := models.MediaItem{
		ID:           e.ID,
		URL:          e.URL,
		ThumbnailURL: e.ThumbnailURL,
		Type:         models.MediaType(e.Type),
		EventType:    models.EventType(folder),
		EventName:    e.EventName,
		EventDate:    parseEventDate(e.EventDate),
		Photographer: e.Photographer,
		Description:  e.Description,
		Tags:         dedupeTags(e.Tags),
		Width:        e.Width,
		Height:       e.Height,
		Duration:     e.Duration,
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if item.Width <= 0 || item.Height <= 0 {
		if item.IsVideo() {
			item.Width, item.Height = defaultVideoWidth, defaultVideoHeight
		} else {
			item.Width, item.Height = defaultPhotoWidth, defaultPhotoHeight
		}
	}

	if item.IsVideo() && item.Duration == nil {
		d := models.DurationUnknown
		item.Duration = &d
	}

	return item
}

// dedupeTags убирает повторы, сохраняя порядок листинга
// (первые теги показываются в карточке)
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return tags
	}

	seen := make(map[string]struct{}, len(tags))
	out := tags[:0:0]
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}

// parseEventDate принимает RFC3339 и короткую дату; непригодные значения
// дают нулевое время, такие элементы не попадают в периодные фильтры
func parseEventDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}

	return time.Time{}
}
