package services

import "sync"

// Pager охраняет observer-путь подгрузки: триггер видимости срабатывает
// один раз на переход (edge-triggered), а не постоянно пока элемент виден.
// Ручной путь (обычный GET с курсором) через Pager не ходит и доступен
// всегда, пока есть ещё элементы.
type Pager struct {
	mu     sync.Mutex
	states map[string]*pagerState
}

type pagerState struct {
	cursor  int
	prev    int
	loading bool
}

func NewPager() *Pager {
	return &Pager{
		states: make(map[string]*pagerState),
	}
}

// Begin пытается взвести триггер для сессии: срабатывает только если
// загрузка не идёт и курсор продвинулся дальше уже отданного
// (новый "последний элемент" перевзводит триггер автоматически)
func (p *Pager) Begin(sessionID string, cursor int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.states[sessionID]
	if !ok {
		st = &pagerState{cursor: -1, prev: -1}
		p.states[sessionID] = st
	}

	if st.loading {
		return false
	}
	if cursor <= st.cursor {
		return false
	}

	st.prev = st.cursor
	st.cursor = cursor
	st.loading = true

	return true
}

// Complete фиксирует успешную подгрузку страницы
func (p *Pager) Complete(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.states[sessionID]; ok {
		st.loading = false
	}
}

// Fail откатывает триггер: собственной политики ретраев нет,
// вызывающая сторона показывает ошибку и оставляет ручной путь
func (p *Pager) Fail(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.states[sessionID]; ok {
		st.cursor = st.prev
		st.loading = false
	}
}

// Reset сбрасывает состояние сессии (например, при смене фильтров
// список начинается заново)
func (p *Pager) Reset(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.states, sessionID)
}
