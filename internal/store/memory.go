// Package store provides the in-memory game store. Per-game mutation
// serialization lives on the Game aggregate itself; this store only
// guards its own maps.
package store

import (
	"sync"

	"github.com/cidadedorme/server/internal/game"
)

type Memory struct {
	mu     sync.RWMutex
	byID   map[string]*game.Game
	byCode map[string]*game.Game
}

func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[string]*game.Game),
		byCode: make(map[string]*game.Game),
	}
}

func (m *Memory) Get(id string) (*game.Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.byID[id]
	return g, ok
}

func (m *Memory) GetByCode(code string) (*game.Game, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.byCode[code]
	return g, ok
}

func (m *Memory) Put(g *game.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[g.ID] = g
	m.byCode[g.Code] = g
}

func (m *Memory) HasCode(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byCode[code]
	return ok
}

func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.byID[id]; ok {
		delete(m.byCode, g.Code)
		delete(m.byID, id)
	}
}
