package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	storage "event_gallery/internal/storage/redis"
)

// Direction — направление листания в модальном просмотре
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

const modalTTL = 2 * time.Hour

// GalleryProvider отдаёт отфильтрованную коллекцию, по которой листает модал
type GalleryProvider interface {
	FilteredItems(ctx context.Context, filters models.GalleryFilters) ([]models.MediaItem, error)
}

// ModalState — состояние модального просмотра одной сессии
type ModalState struct {
	Open    bool   `json:"open"`
	MediaID string `json:"media_id"`
}

// NavigationService хранит состояние модального просмотра в redis и
// листает его по текущей отфильтрованной коллекции. Навигация
// закольцована в обе стороны: с последнего элемента next уводит на
// первый, с первого prev — на последний.
type NavigationService struct {
	log     *slog.Logger
	gallery GalleryProvider
	redis   *storage.Client
}

func NewNavigationService(log *slog.Logger, gallery GalleryProvider, redis *storage.Client) *NavigationService {
	return &NavigationService{
		log:     log,
		gallery: gallery,
		redis:   redis,
	}
}

// Select открывает модал на указанном элементе
func (s *NavigationService) Select(ctx context.Context, sessionID, mediaID string) error {
	const op = "navigation_service.Select"

	if err := s.saveState(ctx, sessionID, ModalState{Open: true, MediaID: mediaID}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает модал; повторное закрытие — no-op
func (s *NavigationService) Close(ctx context.Context, sessionID string) error {
	const op = "navigation_service.Close"

	if err := s.redis.Del(ctx, modalKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Current возвращает состояние модала сессии; без записи — закрытый модал
func (s *NavigationService) Current(ctx context.Context, sessionID string) (ModalState, error) {
	const op = "navigation_service.Current"

	raw, err := s.redis.Get(ctx, modalKey(sessionID)).Bytes()
	if err != nil {
		if storage.IsNil(err) {
			return ModalState{}, nil
		}

		return ModalState{}, fmt.Errorf("%s: %w", op, err)
	}

	var st ModalState
	if err := json.Unmarshal(raw, &st); err != nil {
		s.log.Warn("corrupted modal state, resetting", slog.String("op", op), sl.Err(err))
		return ModalState{}, nil
	}

	return st, nil
}

// Navigate передвигает модал на соседний элемент отфильтрованной коллекции.
// Закрытый модал и элемент, выпавший из коллекции после смены фильтров,
// оставляют состояние как есть.
func (s *NavigationService) Navigate(ctx context.Context, sessionID string, filters models.GalleryFilters, dir Direction) (ModalState, error) {
	const op = "navigation_service.Navigate"

	st, err := s.Current(ctx, sessionID)
	if err != nil {
		return ModalState{}, err
	}

	if !st.Open {
		return st, nil
	}

	items, err := s.gallery.FilteredItems(ctx, filters)
	if err != nil {
		return ModalState{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(items) == 0 {
		return st, nil
	}

	idx := findIndex(items, st.MediaID)
	if idx < 0 {
		s.log.Debug("selected media left the filtered collection",
			slog.String("op", op),
			slog.String("media_id", st.MediaID),
		)

		return st, nil
	}

	switch dir {
	case DirectionNext:
		idx = (idx + 1) % len(items)
	case DirectionPrev:
		idx = (idx - 1 + len(items)) % len(items)
	default:
		return st, fmt.Errorf("%s: unknown direction %q", op, dir)
	}

	st.MediaID = items[idx].ID
	if err := s.saveState(ctx, sessionID, st); err != nil {
		return ModalState{}, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

// Neighbors сообщает, есть ли у текущего элемента соседи в коллекции;
// при закольцованной навигации оба флага подняты, как только элементов больше одного
func (s *NavigationService) Neighbors(ctx context.Context, sessionID string, filters models.GalleryFilters) (hasNext, hasPrev bool, err error) {
	const op = "navigation_service.Neighbors"

	st, err := s.Current(ctx, sessionID)
	if err != nil {
		return false, false, err
	}

	if !st.Open {
		return false, false, nil
	}

	items, err := s.gallery.FilteredItems(ctx, filters)
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", op, err)
	}

	if findIndex(items, st.MediaID) < 0 {
		return false, false, nil
	}

	many := len(items) > 1

	return many, many, nil
}

func (s *NavigationService) saveState(ctx context.Context, sessionID string, st ModalState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, modalKey(sessionID), raw, modalTTL).Err()
}

func findIndex(items []models.MediaItem, mediaID string) int {
	for i, it := range items {
		if it.ID == mediaID {
			return i
		}
	}

	return -1
}

func modalKey(sessionID string) string {
	return "modal:" + sessionID
}
