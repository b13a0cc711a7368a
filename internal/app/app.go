package app

import (
	"context"
	"log/slog"

	httpapp "event_gallery/internal/app/http"
	"event_gallery/internal/config"
	"event_gallery/internal/lib/thumbnail"
	"event_gallery/internal/repository"
	galleryservice "event_gallery/internal/services/gallery_service"
	listingservice "event_gallery/internal/services/listing_service"
	navservice "event_gallery/internal/services/navigation_service"
	thumbservice "event_gallery/internal/services/thumbnail_service"
	"event_gallery/internal/storage/postgresql"
	redisapp "event_gallery/internal/storage/redis"
	httprouters "event_gallery/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Listing    *listingservice.ListingService

	storage *postgresql.Storage
	redis   *redisapp.Client
	log     *slog.Logger
}

func New(log *slog.Logger, cfg *config.Config) *App {
	storage, err := postgresql.New(context.Background(), cfg.DSN)
	if err != nil {
		panic(err)
	}

	redis := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)

	repo := repository.NewRepository(storage.Pool())
	gen := thumbnail.NewGenerator(cfg.Media.CDNHost)

	gallerySvc := galleryservice.NewGalleryService(log, repo.Media, redis, cfg.Media.CacheTTL)
	thumbSvc := thumbservice.NewThumbnailService(log, gen)
	navSvc := navservice.NewNavigationService(log, gallerySvc, redis)
	listingSvc := listingservice.NewListingService(log, repo.Media, invalidator{gallerySvc}, cfg.Media.ListingURL)
	pager := galleryservice.NewPager()

	routers := httprouters.NewRouter(log, gallerySvc, thumbSvc, navSvc, listingSvc, pager)
	routers.SetHealthCheckers(storage, redis)

	server := httpapp.New(log, cfg.SessionSecret, cfg.AdminSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)
	server.BuildRouters()

	return &App{
		HTTPServer: server,
		Listing:    listingSvc,
		storage:    storage,
		redis:      redis,
		log:        log,
	}
}

func (a *App) Stop() {
	if err := a.HTTPServer.Stop(); err != nil {
		a.log.Error("failed to stop http server", slog.Any("error", err))
	}

	a.storage.Stop()

	if err := a.redis.Close(); err != nil {
		a.log.Error("failed to close redis client", slog.Any("error", err))
	}
}

// invalidator прячет ошибку сброса кэша: синхронизация каталога не должна
// падать из-за недоступного redis
type invalidator struct {
	gallery *galleryservice.GalleryService
}

func (i invalidator) InvalidateItems(ctx context.Context) {
	i.gallery.InvalidateItems(ctx)
}
