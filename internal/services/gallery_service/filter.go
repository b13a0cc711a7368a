package services

import (
	"sort"
	"strings"
	"time"

	"event_gallery/internal/domain/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyFilters строит отфильтрованное и отсортированное представление
// коллекции. Чистая функция: исходный срез не меняется, "сейчас" передаётся
// явно, чтобы временные фильтры были детерминированы в тестах.
func ApplyFilters(items []models.MediaItem, f models.GalleryFilters, now time.Time) []models.MediaItem {
	f = f.Normalize()

	out := make([]models.MediaItem, 0, len(items))
	for _, item := range items {
		if f.EventType != models.EventTypeAll && item.EventType != f.EventType {
			continue
		}
		if f.MediaType != models.MediaTypeAll && item.Type != f.MediaType {
			continue
		}
		if !matchesPeriod(item, f.TimePeriod, now) {
			continue
		}
		if !matchesQuery(item, f.SearchQuery) {
			continue
		}
		out = append(out, item)
	}

	sortItems(out, f.SortBy)

	return out
}

func matchesPeriod(item models.MediaItem, period models.TimePeriod, now time.Time) bool {
	var start, end time.Time

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	switch period {
	case models.TimePeriodRecent:
		start = now.AddDate(0, -3, 0)
	case models.TimePeriodThisYear:
		start = yearStart
	case models.TimePeriodLastYear:
		start = now.AddDate(-1, 0, 0)
		end = yearStart
	default:
		// all и неизвестные значения не сужают выборку
		return true
	}

	// дата не распарсилась — из временных выборок исключаем, не падаем
	if !item.HasValidDate() {
		return false
	}

	if item.EventDate.Before(start) {
		return false
	}
	if !end.IsZero() && !item.EventDate.Before(end) {
		return false
	}

	return true
}

func matchesQuery(item models.MediaItem, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(item.EventName), query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}

	return false
}

func sortItems(items []models.MediaItem, order models.SortOrder) {
	switch order {
	case models.SortByDateAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].EventDate.Before(items[j].EventDate)
		})
	case models.SortByEventName:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			return c.CompareString(items[i].EventName, items[j].EventName) < 0
		})
	default:
		// date_desc; popularity пока не имеет собственного сигнала в данных
		// и явно откатывается к сортировке по дате, новые сверху
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].EventDate.After(items[j].EventDate)
		})
	}
}
