package repository

import (
	"context"

	"event_gallery/internal/domain/models"
)

type MediaRepository interface {
	UpsertMedia(ctx context.Context, items []models.MediaItem) (int, error)
	ListMedia(ctx context.Context) ([]models.MediaItem, error)
	FindByID(ctx context.Context, id string) (*models.MediaItem, error)
}
