package repository

import (
	"context"
	"fmt"
	"time"

	"event_gallery/internal/domain/models"
	"event_gallery/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type MediaRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var mediaColumns = []string{
	"id",
	"url",
	"thumbnail_url",
	"media_type",
	"event_type",
	"event_name",
	"event_date",
	"photographer",
	"description",
	"width",
	"height",
	"duration",
}

const mediaUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	url = EXCLUDED.url,
	thumbnail_url = EXCLUDED.thumbnail_url,
	media_type = EXCLUDED.media_type,
	event_type = EXCLUDED.event_type,
	event_name = EXCLUDED.event_name,
	event_date = EXCLUDED.event_date,
	photographer = EXCLUDED.photographer,
	description = EXCLUDED.description,
	width = EXCLUDED.width,
	height = EXCLUDED.height,
	duration = EXCLUDED.duration`

// UpsertMedia сохраняет пачку элементов листинга; повторная синхронизация
// обновляет существующие записи, теги пересоздаются в порядке листинга
func (r *MediaRepo) UpsertMedia(ctx context.Context, items []models.MediaItem) (int, error) {
	const op = "repository.media_repository.UpsertMedia"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	saved := 0
	for _, item := range items {
		var eventDate *time.Time
		if item.HasValidDate() {
			d := item.EventDate
			eventDate = &d
		}

		query, args, err := r.sb.Insert("media_items").
			Columns(mediaColumns...).
			Values(
				item.ID,
				item.URL,
				item.ThumbnailURL,
				item.Type,
				item.EventType,
				item.EventName,
				eventDate,
				item.Photographer,
				item.Description,
				item.Width,
				item.Height,
				item.Duration,
			).
			Suffix(mediaUpsertSuffix).
			ToSql()
		if err != nil {
			return saved, fmt.Errorf("%s failed to build query: %w", op, err)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return saved, fmt.Errorf("%s failed to upsert media %s: %w", op, item.ID, err)
		}

		if err := r.replaceTags(ctx, tx, item.ID, item.Tags); err != nil {
			return saved, fmt.Errorf("%s: %w", op, err)
		}

		saved++
	}

	if err := tx.Commit(ctx); err != nil {
		return saved, fmt.Errorf("%s failed to commit transaction: %w", op, err)
	}

	return saved, nil
}

func (r *MediaRepo) replaceTags(ctx context.Context, tx pgx.Tx, mediaID string, tags []string) error {
	query, args, err := r.sb.Delete("media_item_tags").
		Where(sq.Eq{"media_id": mediaID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build tag delete: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete tags: %w", err)
	}

	if len(tags) == 0 {
		return nil
	}

	builder := r.sb.Insert("media_item_tags").Columns("media_id", "tag", "position")
	for i, tag := range tags {
		builder = builder.Values(mediaID, tag, i)
	}
	// повтор тега не должен валить транзакцию всей синхронизации
	builder = builder.Suffix("ON CONFLICT (media_id, tag) DO NOTHING")

	query, args, err = builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build tag insert: %w", err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert tags: %w", err)
	}

	return nil
}

// ListMedia возвращает всю коллекцию, новые события сверху
func (r *MediaRepo) ListMedia(ctx context.Context) ([]models.MediaItem, error) {
	const op = "repository.media_repository.ListMedia"

	query, args, err := r.sb.Select(mediaColumns...).
		From("media_items").
		OrderBy("event_date DESC NULLS LAST", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s failed to build query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		item, err := scanMediaItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s failed to scan media: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := r.listTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range items {
		items[i].Tags = tags[items[i].ID]
	}

	return items, nil
}

func (r *MediaRepo) listTags(ctx context.Context) (map[string][]string, error) {
	query, args, err := r.sb.Select("media_id", "tag").
		From("media_item_tags").
		OrderBy("media_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build tag query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var mediaID, tag string
		if err := rows.Scan(&mediaID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[mediaID] = append(tags[mediaID], tag)
	}

	return tags, rows.Err()
}

func (r *MediaRepo) FindByID(ctx context.Context, id string) (*models.MediaItem, error) {
	const op = "repository.media_repository.FindByID"

	query, args, err := r.sb.Select(mediaColumns...).
		From("media_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s failed to build query: %w", op, err)
	}

	row := r.db.QueryRow(ctx, query, args...)

	item, err := scanMediaItem(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrMediaNotFound)
		}
		return nil, fmt.Errorf("%s failed to get media: %w", op, err)
	}

	query, args, err = r.sb.Select("tag").
		From("media_item_tags").
		Where(sq.Eq{"media_id": id}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s failed to build tag query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s failed to get tags: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("%s failed to scan tag: %w", op, err)
		}
		item.Tags = append(item.Tags, tag)
	}

	return &item, rows.Err()
}

func scanMediaItem(row pgx.Row) (models.MediaItem, error) {
	var (
		item      models.MediaItem
		eventDate *time.Time
	)

	err := row.Scan(
		&item.ID,
		&item.URL,
		&item.ThumbnailURL,
		&item.Type,
		&item.EventType,
		&item.EventName,
		&eventDate,
		&item.Photographer,
		&item.Description,
		&item.Width,
		&item.Height,
		&item.Duration,
	)
	if err != nil {
		return models.MediaItem{}, err
	}

	if eventDate != nil {
		item.EventDate = *eventDate
	}

	return item, nil
}
