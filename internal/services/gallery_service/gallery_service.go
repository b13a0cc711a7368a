package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	"event_gallery/internal/metrics"
	"event_gallery/internal/repository"
	redisapp "event_gallery/internal/storage/redis"
)

const (
	itemsCacheKey   = "gallery:items"
	DefaultPageSize = 24
)

// GalleryService собирает представление галереи: коллекция из БД (с кэшем
// в redis), фильтрация/сортировка и постраничная выдача поверх неё.
type GalleryService struct {
	log      *slog.Logger
	repo     repository.MediaRepository
	cache    *redisapp.Client
	cacheTTL time.Duration
	now      func() time.Time
}

// NewGalleryService создает сервис галереи; cache может быть nil,
// тогда каждый запрос идёт в БД
func NewGalleryService(log *slog.Logger, repo repository.MediaRepository, cache *redisapp.Client, cacheTTL time.Duration) *GalleryService {
	return &GalleryService{
		log:      log,
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// Page представляет одну страницу отфильтрованной галереи
type Page struct {
	Items      []models.MediaItem
	Total      int
	NextCursor int
	HasMore    bool
}

// Page возвращает срез отфильтрованного представления начиная с cursor
func (s *GalleryService) Page(ctx context.Context, filters models.GalleryFilters, cursor, limit int) (*Page, error) {
	const op = "gallery_service.Page"

	filtered, err := s.FilteredItems(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cursor < 0 {
		cursor = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if cursor >= len(filtered) {
		return &Page{
			Items:      []models.MediaItem{},
			Total:      len(filtered),
			NextCursor: len(filtered),
			HasMore:    false,
		}, nil
	}

	end := cursor + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return &Page{
		Items:      filtered[cursor:end],
		Total:      len(filtered),
		NextCursor: end,
		HasMore:    end < len(filtered),
	}, nil
}

// FilteredItems возвращает текущее отфильтрованное+отсортированное
// представление коллекции целиком (по нему же ходит модальная навигация)
func (s *GalleryService) FilteredItems(ctx context.Context, filters models.GalleryFilters) ([]models.MediaItem, error) {
	const op = "gallery_service.FilteredItems"

	items, err := s.items(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ApplyFilters(items, filters, s.now()), nil
}

func (s *GalleryService) ItemByID(ctx context.Context, id string) (*models.MediaItem, error) {
	const op = "gallery_service.ItemByID"

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// InvalidateItems сбрасывает кэш коллекции (вызывается после синхронизации
// листинга)
func (s *GalleryService) InvalidateItems(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	return s.cache.Del(ctx, itemsCacheKey).Err()
}

func (s *GalleryService) items(ctx context.Context) ([]models.MediaItem, error) {
	const op = "gallery_service.items"

	log := s.log.With(slog.String("op", op))

	if s.cache != nil {
		val, err := s.cache.Get(ctx, itemsCacheKey).Result()
		switch {
		case err == nil:
			var items []models.MediaItem
			if jsonErr := json.Unmarshal([]byte(val), &items); jsonErr == nil {
				metrics.GalleryCacheTotal.WithLabelValues("hit").Inc()
				return items, nil
			}
			// битый кэш — игнорируем и перечитываем из БД
			log.Warn("corrupted items cache, falling back to database")
		case !redisapp.IsNil(err):
			// redis недоступен — деградируем к БД, не падаем
			log.Warn("items cache unavailable", sl.Err(err))
		}
	}

	metrics.GalleryCacheTotal.WithLabelValues("miss").Inc()

	items, err := s.repo.ListMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if b, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, itemsCacheKey, b, s.cacheTTL).Err(); err != nil {
				log.Warn("failed to cache items", sl.Err(err))
			}
		}
	}

	return items, nil
}
