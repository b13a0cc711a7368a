package services

import (
	"log/slog"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/thumbnail"
	"event_gallery/internal/transport/http/dto"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// DebounceInterval — чаще этого окна измерения вьюпорта не принимаются,
	// чтобы поток resize-событий не дёргал пересчёт классов
	DebounceInterval = 100 * time.Millisecond

	sessionStateTTL = 30 * time.Minute
	cleanupInterval = 10 * time.Minute
)

type viewportState struct {
	width      int
	pixelRatio float64
	acceptedAt time.Time
}

type loadState struct {
	url     string
	loaded  bool
	errored bool
}

// ThumbnailService ведёт состояние адаптивных миниатюр по сессиям:
// измерения вьюпорта, выбор класса размера и исходы загрузки,
// о которых сообщает рендер. Сетевого кода здесь нет — только
// вывод URL и учёт колбэков.
type ThumbnailService struct {
	log   *slog.Logger
	gen   *thumbnail.Generator
	cache *gocache.Cache
	now   func() time.Time
}

func NewThumbnailService(log *slog.Logger, gen *thumbnail.Generator) *ThumbnailService {
	return &ThumbnailService{
		log:   log,
		gen:   gen,
		cache: gocache.New(sessionStateTTL, cleanupInterval),
		now:   time.Now,
	}
}

// UpdateViewport принимает измерение вьюпорта сессии; возвращает false,
// если измерение пришло раньше дебаунс-окна и было проигнорировано
func (s *ThumbnailService) UpdateViewport(sessionID string, width int, pixelRatio float64) bool {
	const op = "thumbnail_service.UpdateViewport"

	now := s.now()

	if v, ok := s.cache.Get(viewportKey(sessionID)); ok {
		prev := v.(viewportState)
		if now.Sub(prev.acceptedAt) < DebounceInterval {
			return false
		}
	}

	s.cache.Set(viewportKey(sessionID), viewportState{
		width:      width,
		pixelRatio: pixelRatio,
		acceptedAt: now,
	}, sessionStateTTL)

	s.log.Debug("viewport updated",
		slog.String("op", op),
		slog.String("session_id", sessionID),
		slog.Int("width", width),
		slog.Float64("pixel_ratio", pixelRatio),
	)

	return true
}

// SizeClass возвращает класс размера для сессии; до первого измерения — medium
func (s *ThumbnailService) SizeClass(sessionID string) thumbnail.SizeClass {
	v, ok := s.cache.Get(viewportKey(sessionID))
	if !ok {
		return thumbnail.SizeMedium
	}

	vp := v.(viewportState)
	effective := int(float64(vp.width) * vp.pixelRatio)

	return thumbnail.ClassForWidth(effective)
}

// ThumbnailFor собирает миниатюру элемента для текущего вьюпорта сессии.
// Если загрузка уже падала, а у элемента есть готовый превью-URL,
// отдаём его как запасной вариант.
func (s *ThumbnailService) ThumbnailFor(sessionID string, item models.MediaItem) dto.ThumbnailSet {
	size := s.SizeClass(sessionID)
	loaded, errored := s.loadStateFor(sessionID, item.ID, item.URL)

	url := s.gen.URL(item.URL, item.IsVideo(), size)
	if errored && item.ThumbnailURL != "" {
		url = item.ThumbnailURL
	}

	return dto.ThumbnailSet{
		URL:     url,
		Srcset:  s.gen.Srcset(item.URL, item.IsVideo()),
		Sizes:   thumbnail.Sizes,
		Loaded:  loaded,
		Errored: errored,
	}
}

// MarkLoaded фиксирует успешную загрузку миниатюры. Смена исходного URL
// сбрасывает оба флага: состояние не переносится между разными медиа.
func (s *ThumbnailService) MarkLoaded(sessionID, mediaID, url string) {
	st := s.currentState(sessionID, mediaID, url)
	if st.errored {
		// errored залипает для данного URL, поздний onload его не снимает
		return
	}

	st.loaded = true
	s.cache.Set(loadKey(sessionID, mediaID), st, sessionStateTTL)
}

// MarkErrored помечает миниатюру сбойной; повторные вызовы идемпотентны
func (s *ThumbnailService) MarkErrored(sessionID, mediaID, url string) {
	st := s.currentState(sessionID, mediaID, url)
	if st.errored {
		return
	}

	st.errored = true
	st.loaded = false
	s.cache.Set(loadKey(sessionID, mediaID), st, sessionStateTTL)
}

func (s *ThumbnailService) loadStateFor(sessionID, mediaID, url string) (loaded, errored bool) {
	v, ok := s.cache.Get(loadKey(sessionID, mediaID))
	if !ok {
		return false, false
	}

	st := v.(loadState)
	if st.url != url {
		return false, false
	}

	return st.loaded, st.errored
}

func (s *ThumbnailService) currentState(sessionID, mediaID, url string) loadState {
	if v, ok := s.cache.Get(loadKey(sessionID, mediaID)); ok {
		st := v.(loadState)
		if st.url == url {
			return st
		}
	}

	return loadState{url: url}
}

func viewportKey(sessionID string) string {
	return "viewport:" + sessionID
}

func loadKey(sessionID, mediaID string) string {
	return "load:" + sessionID + ":" + mediaID
}
