package testutil

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/udisondev/corebank/internal/game/core"
)

// MemoryStore — in-memory хранилище прогресса для тестов сервера.
// Ledger и слоты копируются, чтобы тест не делил срезы с сервером.
type MemoryStore struct {
	mu       sync.Mutex
	progress map[int64]core.Snapshot
	saves    int
	failSave error
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{progress: make(map[int64]core.Snapshot)}
}

// LoadProgress returns the stored snapshot, empty for unknown characters.
func (m *MemoryStore) LoadProgress(ctx context.Context, characterID int64) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSnapshot(m.progress[characterID]), nil
}

// SaveProgress stores snap, or returns the error set by FailSaves.
func (m *MemoryStore) SaveProgress(ctx context.Context, characterID int64, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.progress[characterID] = cloneSnapshot(snap)
	m.saves++
	return nil
}

// Put seeds progress of characterID.
func (m *MemoryStore) Put(characterID int64, snap core.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[characterID] = cloneSnapshot(snap)
}

// Get returns stored progress of characterID.
func (m *MemoryStore) Get(characterID int64) (core.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.progress[characterID]
	return cloneSnapshot(snap), ok
}

// Saves returns the number of successful saves.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailSaves makes every following SaveProgress return err (nil restores saving).
func (m *MemoryStore) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

func cloneSnapshot(s core.Snapshot) core.Snapshot {
	s.Enhancements = append([]core.Enhancement(nil), s.Enhancements...)
	return s
}

// MockConn — mock для net.Conn, используется в unit тестах.
type MockConn struct {
	readBuf  []byte
	writeBuf []byte
}

// NewMockConn создаёт новый MockConn экземпляр.
func NewMockConn() *MockConn {
	return &MockConn{
		readBuf:  make([]byte, 0),
		writeBuf: make([]byte, 0),
	}
}

// Read читает данные из readBuf.
func (m *MockConn) Read(b []byte) (int, error) {
	n := copy(b, m.readBuf)
	m.readBuf = m.readBuf[n:]
	return n, nil
}

// Written returns everything written so far.
func (m *MockConn) Written() []byte {
	return m.writeBuf
}

// Write записывает данные в writeBuf.
func (m *MockConn) Write(b []byte) (int, error) {
	m.writeBuf = append(m.writeBuf, b...)
	return len(b), nil
}

// Close закрывает соединение (no-op).
func (m *MockConn) Close() error {
	return nil
}

// LocalAddr возвращает локальный адрес (mock).
func (m *MockConn) LocalAddr() net.Addr {
	return &mockAddr{network: "tcp", address: "127.0.0.1:7777"}
}

// RemoteAddr возвращает удалённый адрес (mock).
func (m *MockConn) RemoteAddr() net.Addr {
	return &mockAddr{network: "tcp", address: "192.168.1.100:12345"}
}

// SetDeadline устанавливает deadline (no-op).
func (m *MockConn) SetDeadline(t time.Time) error {
	return nil
}

// SetReadDeadline устанавливает read deadline (no-op).
func (m *MockConn) SetReadDeadline(t time.Time) error {
	return nil
}

// SetWriteDeadline устанавливает write deadline (no-op).
func (m *MockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

// mockAddr — mock для net.Addr.
type mockAddr struct {
	network string
	address string
}

// Network возвращает имя сети.
func (a *mockAddr) Network() string {
	return a.network
}

// String возвращает строковое представление адреса.
func (a *mockAddr) String() string {
	return a.address
}
