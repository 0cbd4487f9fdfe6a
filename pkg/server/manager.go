package server

import (
	"sync"

	"github.com/decred/slog"

	"cardroom/pkg/game"
	"cardroom/pkg/wire"
)

// Manager owns the set of active games. It creates engines, routes joining
// connections onto them and forgets them when they stop. The map is the only
// shared state; everything per-game belongs to the engine goroutine.
type Manager struct {
	log slog.Logger

	mu     sync.Mutex
	games  map[int]*Engine
	nextID int
}

// NewManager returns an empty manager.
func NewManager(log slog.Logger) *Manager {
	return &Manager{log: log, games: make(map[int]*Engine)}
}

// Create starts a new game around the given module and hands the creator's
// connection to it. It returns the new game's id.
func (m *Manager) Create(mod game.Module, conn Conn) int {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	e := newEngine(id, mod, m.log, func() { m.remove(id) })
	m.games[id] = e
	m.mu.Unlock()

	m.log.Infof("created game %d", id)
	go e.Run()
	e.Enqueue(conn)
	return id
}

// Join routes a connection onto an existing game. Unknown game ids get an
// error frame and a close.
func (m *Manager) Join(id int, conn Conn) {
	m.mu.Lock()
	e, ok := m.games[id]
	m.mu.Unlock()
	if !ok {
		if data, err := wire.MarshalServer(wire.ErrorFrame{Reason: "game does not exist"}); err == nil {
			_ = conn.WriteText(string(data))
		}
		conn.Close()
		return
	}
	e.Enqueue(conn)
}

// GameCount reports the number of active games.
func (m *Manager) GameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

func (m *Manager) remove(id int) {
	m.mu.Lock()
	delete(m.games, id)
	m.mu.Unlock()
	m.log.Infof("removed game %d", id)
}
