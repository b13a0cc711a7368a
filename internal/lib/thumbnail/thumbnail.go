// Package thumbnail строит URL трансформаций для CDN изображений.
// Генератор никогда не возвращает ошибку: всё, что не удаётся разобрать
// или не принадлежит известному хосту, отдаётся без изменений.
package thumbnail

import (
	"fmt"
	"net/url"
	"strings"
)

type SizeClass string

const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
	SizeXL     SizeClass = "xl"
)

// Sizes — атрибут sizes, общий для всех элементов галереи
const Sizes = "(max-width: 640px) 100vw, (max-width: 1024px) 50vw, 33vw"

type transform struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// ширины растут монотонно, качество не убывает
var transforms = map[SizeClass]transform{
	SizeSmall:  {maxWidth: 400, maxHeight: 400, quality: 75},
	SizeMedium: {maxWidth: 800, maxHeight: 800, quality: 80},
	SizeLarge:  {maxWidth: 1200, maxHeight: 1200, quality: 85},
	SizeXL:     {maxWidth: 1920, maxHeight: 1920, quality: 90},
}

// Classes возвращает классы размеров от меньшего к большему
func Classes() []SizeClass {
	return []SizeClass{SizeSmall, SizeMedium, SizeLarge, SizeXL}
}

// MaxWidth возвращает ограничение ширины класса (для дескрипторов srcset)
func MaxWidth(size SizeClass) int {
	t, ok := transforms[size]
	if !ok {
		t = transforms[SizeMedium]
	}

	return t.maxWidth
}

// ClassForWidth выбирает класс размера по эффективной ширине
// (ширина вьюпорта × плотность пикселей). Нет измерений — medium,
// чтобы первый рендер не дёргал layout.
func ClassForWidth(effectiveWidth int) SizeClass {
	switch {
	case effectiveWidth <= 0:
		return SizeMedium
	case effectiveWidth <= 640:
		return SizeSmall
	case effectiveWidth <= 1024:
		return SizeMedium
	case effectiveWidth <= 1920:
		return SizeLarge
	default:
		return SizeXL
	}
}

// Generator строит URL миниатюр для одного известного медиа-хоста
type Generator struct {
	host string
}

func NewGenerator(host string) *Generator {
	return &Generator{host: host}
}

// URL выводит URL миниатюры для класса размера. Чужой хост или битый URL
// возвращается как есть — рендер не должен блокироваться из-за данных.
// Результат детерминирован: одинаковый вход даёт одинаковый выход.
func (g *Generator) URL(sourceURL string, isVideo bool, size SizeClass) string {
	u, err := url.Parse(sourceURL)
	if err != nil || !strings.EqualFold(u.Host, g.host) {
		return sourceURL
	}

	t, ok := transforms[size]
	if !ok {
		t = transforms[SizeMedium]
	}

	// каждый сегмент пути кодируется отдельно: имена файлов
	// с пробелами и спецсимволами не должны ломать трансформацию
	segments := strings.Split(u.Path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	escapedPath := strings.Join(segments, "/")

	// c-at_max вписывает в рамку с сохранением пропорций, без обрезки
	tr := fmt.Sprintf("tr=w-%d,h-%d,c-at_max,q-%d,dpr-2,pr-true", t.maxWidth, t.maxHeight, t.quality)
	if isVideo {
		// для видео просим кадр на первой секунде в JPEG
		tr += ",so-1,f-jpg"
	}

	query := tr
	if u.RawQuery != "" {
		query = u.RawQuery + "&" + tr
	}

	return u.Scheme + "://" + u.Host + escapedPath + "?" + query
}

// Srcset строит значение srcset: по одной записи на каждый класс размера
func (g *Generator) Srcset(sourceURL string, isVideo bool) string {
	entries := make([]string, 0, len(transforms))
	for _, class := range Classes() {
		entries = append(entries, fmt.Sprintf("%s %dw", g.URL(sourceURL, isVideo, class), MaxWidth(class)))
	}

	return strings.Join(entries, ", ")
}
