package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/lib/logger/sl"
	galleryservice "event_gallery/internal/services/gallery_service"
	navservice "event_gallery/internal/services/navigation_service"
	"event_gallery/internal/storage"
	"event_gallery/internal/transport/http/dto"
	"event_gallery/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "event_gallery/docs"
)

type GalleryService interface {
	Page(ctx context.Context, filters models.GalleryFilters, cursor, limit int) (*galleryservice.Page, error)
	FilteredItems(ctx context.Context, filters models.GalleryFilters) ([]models.MediaItem, error)
	ItemByID(ctx context.Context, id string) (*models.MediaItem, error)
}

type ThumbnailService interface {
	UpdateViewport(sessionID string, width int, pixelRatio float64) bool
	ThumbnailFor(sessionID string, item models.MediaItem) dto.ThumbnailSet
	MarkLoaded(sessionID, mediaID, url string)
	MarkErrored(sessionID, mediaID, url string)
}

type NavigationService interface {
	Select(ctx context.Context, sessionID, mediaID string) error
	Close(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (navservice.ModalState, error)
	Navigate(ctx context.Context, sessionID string, filters models.GalleryFilters, dir navservice.Direction) (navservice.ModalState, error)
	Neighbors(ctx context.Context, sessionID string, filters models.GalleryFilters) (hasNext, hasPrev bool, err error)
}

type ListingService interface {
	Sync(ctx context.Context) (int, error)
}

type Routers struct {
	log               *slog.Logger
	GalleryService    GalleryService
	ThumbnailService  ThumbnailService
	NavigationService NavigationService
	ListingService    ListingService
	Pager             *galleryservice.Pager

	postgres HealthChecker
	redis    HealthChecker
}

func NewRouter(log *slog.Logger, gallerySvc GalleryService, thumbSvc ThumbnailService, navSvc NavigationService, listingSvc ListingService, pager *galleryservice.Pager) *Routers {
	return &Routers{
		log:               log,
		GalleryService:    gallerySvc,
		ThumbnailService:  thumbSvc,
		NavigationService: navSvc,
		ListingService:    listingSvc,
		Pager:             pager,
	}
}

// HealthChecker пингует внешнюю зависимость
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SetHealthCheckers подключает проверки БД и redis к /health
func (r *Routers) SetHealthCheckers(postgres, redis HealthChecker) {
	r.postgres = postgres
	r.redis = redis
}

// HealthCheck godoc
// @Summary Состояние сервиса
// @Tags service
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (r *Routers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	status := map[string]string{"status": "ok"}
	code := http.StatusOK

	if r.postgres != nil {
		if err := r.postgres.HealthCheck(ctx); err != nil {
			status["postgres"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	if r.redis != nil {
		if err := r.redis.HealthCheck(ctx); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	if code != http.StatusOK {
		status["status"] = "degraded"
	}

	return c.JSON(code, status)
}

const sessionCookie = "gallery_session"

// sessionID достаёт идентификатор сессии из cookie, при первом заходе
// создаёт новый. Всё состояние вьюпорта, пагинации и модала висит на нём.
func (r *Routers) sessionID(c echo.Context) string {
	sess, err := session.Get(sessionCookie, c)
	if err != nil || sess == nil {
		return uuid.NewString()
	}

	if id, ok := sess.Values["id"].(string); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	sess.Values["id"] = id
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		r.log.Warn("failed to save session cookie", sl.Err(err))
	}

	return id
}

// GetGallery godoc
// @Summary Галерея медиа
// @Description Отфильтрованная и отсортированная страница галереи с миниатюрами под текущий вьюпорт
// @Tags gallery
// @Produce json
// @Param event_type query string false "Тип события" Enums(all, meetup, workshop, social, conference)
// @Param media_type query string false "Тип медиа" Enums(all, photo, video)
// @Param time_period query string false "Период" Enums(all, recent, this_year, last_year)
// @Param search query string false "Поисковая строка"
// @Param sort_by query string false "Сортировка" Enums(date_desc, date_asc, event_name, popularity)
// @Param cursor query int false "Смещение страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} response.Response{data=dto.GalleryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/gallery [get]
func (r *Routers) GetGallery(c echo.Context) error {
	const op = "http.routers.GetGallery"

	log := r.log.With(slog.String("op", op))

	var q dto.GalleryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(q); err != nil {
		log.Warn("invalid gallery query", sl.Err(err))

		resp := response.ErrInvalidFilter
		resp.Details = err.Error()

		return c.JSON(http.StatusBadRequest, resp)
	}

	page, err := r.GalleryService.Page(c.Request().Context(), q.ToFilters(), q.Cursor, q.Limit)
	if err != nil {
		log.Error("failed to build gallery page", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(r.galleryResponse(c, page)))
}

// LoadMore godoc
// @Summary Догрузка страницы галереи
// @Description Отдаёт следующую страницу; повторные запросы с тем же курсором во время загрузки игнорируются
// @Tags gallery
// @Accept json
// @Produce json
// @Param request body dto.LoadMoreRequest true "Курсор и фильтры"
// @Success 200 {object} response.Response{data=dto.GalleryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/gallery/more [post]
func (r *Routers) LoadMore(c echo.Context) error {
	const op = "http.routers.LoadMore"

	log := r.log.With(slog.String("op", op))

	var req dto.LoadMoreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	sid := r.sessionID(c)

	// курсор 0 означает перезапуск списка (смена фильтров), триггер взводится заново
	if req.Cursor == 0 {
		r.Pager.Reset(sid)
	}

	if !r.Pager.Begin(sid, req.Cursor) {
		log.Debug("duplicate load-more ignored",
			slog.String("session_id", sid),
			slog.Int("cursor", req.Cursor),
		)

		return c.JSON(http.StatusOK, response.Response{
			Status:  "ignored",
			Message: "load already in progress or cursor already consumed",
		})
	}

	page, err := r.GalleryService.Page(c.Request().Context(), req.Filters.ToFilters(), req.Cursor, req.Limit)
	if err != nil {
		r.Pager.Fail(sid)
		log.Error("failed to load more", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	r.Pager.Complete(sid)

	return c.JSON(http.StatusOK, response.SuccessResponse(r.galleryResponse(c, page)))
}

// GetMedia godoc
// @Summary Один медиаэлемент
// @Tags gallery
// @Produce json
// @Param id path string true "ID медиа"
// @Success 200 {object} response.Response{data=dto.MediaItemResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/media/{id} [get]
func (r *Routers) GetMedia(c echo.Context) error {
	const op = "http.routers.GetMedia"

	item, err := r.GalleryService.ItemByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrMediaNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrMediaNotFound)
		}

		r.log.Error("failed to fetch media", slog.String("op", op), sl.Err(err))

		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	sid := r.sessionID(c)
	resp := dto.NewMediaItemResponse(*item, r.ThumbnailService.ThumbnailFor(sid, *item))

	return c.JSON(http.StatusOK, response.SuccessResponse(resp))
}

// ThumbnailState godoc
// @Summary Исход загрузки миниатюры
// @Description Колбэк рендера: миниатюра загрузилась или упала. Сбойный URL залипает до смены исходника.
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path string true "ID медиа"
// @Param request body dto.ThumbnailStateRequest true "URL и исход"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/media/{id}/thumbnail-state [post]
func (r *Routers) ThumbnailState(c echo.Context) error {
	var req dto.ThumbnailStateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	sid := r.sessionID(c)
	mediaID := c.Param("id")

	switch req.Event {
	case "loaded":
		r.ThumbnailService.MarkLoaded(sid, mediaID, req.URL)
	case "errored":
		r.ThumbnailService.MarkErrored(sid, mediaID, req.URL)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// UpdateViewport godoc
// @Summary Измерение вьюпорта сессии
// @Description Принимает ширину и плотность пикселей; измерения чаще 100мс игнорируются
// @Tags gallery
// @Accept json
// @Produce json
// @Param request body dto.ViewportRequest true "Параметры вьюпорта"
// @Success 200 {object} response.Response{data=map[string]bool}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/viewport [post]
func (r *Routers) UpdateViewport(c echo.Context) error {
	var req dto.ViewportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if req.PixelRatio == 0 {
		req.PixelRatio = 1
	}

	accepted := r.ThumbnailService.UpdateViewport(r.sessionID(c), req.Width, req.PixelRatio)

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]bool{"accepted": accepted}))
}

// GetModal godoc
// @Summary Состояние модального просмотра
// @Tags modal
// @Produce json
// @Param event_type query string false "Тип события"
// @Param media_type query string false "Тип медиа"
// @Param time_period query string false "Период"
// @Param search query string false "Поисковая строка"
// @Param sort_by query string false "Сортировка"
// @Success 200 {object} response.Response{data=dto.ModalResponse}
// @Router /api/v1/modal [get]
func (r *Routers) GetModal(c echo.Context) error {
	const op = "http.routers.GetModal"

	var q dto.GalleryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(q); err != nil {
		resp := response.ErrInvalidFilter
		resp.Details = err.Error()

		return c.JSON(http.StatusBadRequest, resp)
	}

	sid := r.sessionID(c)
	ctx := c.Request().Context()

	st, err := r.NavigationService.Current(ctx, sid)
	if err != nil {
		r.log.Error("failed to read modal state", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	resp := dto.ModalResponse{Open: st.Open, MediaID: st.MediaID}

	if st.Open {
		resp.HasNext, resp.HasPrev, err = r.NavigationService.Neighbors(ctx, sid, q.ToFilters())
		if err != nil {
			r.log.Error("failed to resolve modal neighbors", slog.String("op", op), sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(resp))
}

// SelectMedia godoc
// @Summary Открыть модал на элементе
// @Tags modal
// @Accept json
// @Produce json
// @Param request body dto.SelectMediaRequest true "ID медиа"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/modal/select [post]
func (r *Routers) SelectMedia(c echo.Context) error {
	const op = "http.routers.SelectMedia"

	log := r.log.With(slog.String("op", op))

	var req dto.SelectMediaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	ctx := c.Request().Context()

	if _, err := r.GalleryService.ItemByID(ctx, req.MediaID); err != nil {
		if errors.Is(err, storage.ErrMediaNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrMediaNotFound)
		}

		log.Error("failed to verify media", sl.Err(err))

		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if err := r.NavigationService.Select(ctx, r.sessionID(c), req.MediaID); err != nil {
		log.Error("failed to open modal", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// CloseModal godoc
// @Summary Закрыть модал
// @Tags modal
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/modal/close [post]
func (r *Routers) CloseModal(c echo.Context) error {
	const op = "http.routers.CloseModal"

	if err := r.NavigationService.Close(c.Request().Context(), r.sessionID(c)); err != nil {
		r.log.Error("failed to close modal", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// Navigate godoc
// @Summary Перейти к соседнему элементу
// @Description Листает модал по отфильтрованной коллекции с закольцовкой; закрытый модал остаётся закрытым
// @Tags modal
// @Accept json
// @Produce json
// @Param request body dto.NavigateRequest true "Направление и фильтры"
// @Success 200 {object} response.Response{data=dto.ModalResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/modal/navigate [post]
func (r *Routers) Navigate(c echo.Context) error {
	const op = "http.routers.Navigate"

	var req dto.NavigateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	sid := r.sessionID(c)
	ctx := c.Request().Context()
	filters := req.Filters.ToFilters()

	st, err := r.NavigationService.Navigate(ctx, sid, filters, navservice.Direction(req.Direction))
	if err != nil {
		r.log.Error("failed to navigate modal", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	resp := dto.ModalResponse{Open: st.Open, MediaID: st.MediaID}

	if st.Open {
		resp.HasNext, resp.HasPrev, err = r.NavigationService.Neighbors(ctx, sid, filters)
		if err != nil {
			r.log.Error("failed to resolve modal neighbors", slog.String("op", op), sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(resp))
}

// SyncListing godoc
// @Summary Синхронизация каталога медиа
// @Description Забирает каталог с внешнего эндпоинта и обновляет хранилище. Требует админский JWT.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]int}
// @Failure 502 {object} response.ErrorResponse
// @Router /api/v1/admin/listing/sync [post]
func (r *Routers) SyncListing(c echo.Context) error {
	const op = "http.routers.SyncListing"

	saved, err := r.ListingService.Sync(c.Request().Context())
	if err != nil {
		r.log.Error("listing sync failed", slog.String("op", op), sl.Err(err))

		resp := response.ErrListingSyncFailed
		resp.Details = err.Error()

		return c.JSON(http.StatusBadGateway, resp)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]int{"saved": saved}))
}

func (r *Routers) galleryResponse(c echo.Context, page *galleryservice.Page) dto.GalleryResponse {
	sid := r.sessionID(c)

	items := make([]dto.MediaItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, dto.NewMediaItemResponse(item, r.ThumbnailService.ThumbnailFor(sid, item)))
	}

	return dto.GalleryResponse{
		Items:      items,
		Total:      page.Total,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}
}
