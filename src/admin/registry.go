package admin

import "sync"

// Boards keeps one Manager per admin session.
type Boards struct {
	mu     sync.Mutex
	boards map[string]*Manager
}

func NewBoards() *Boards {
	return &Boards{boards: map[string]*Manager{}}
}

func (b *Boards) Get(sessionID string, gw Gateway) *Manager {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.boards[sessionID]
	if !ok {
		m = NewManager(gw)
		b.boards[sessionID] = m
	}
	return m
}

func (b *Boards) Drop(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.boards, sessionID)
}
