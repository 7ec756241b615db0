package gameserver

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrAlreadyOnline is returned when a character enters the world twice.
var ErrAlreadyOnline = errors.New("character already online")

// ClientManager tracks clients that have entered the world.
// Thread-safe for concurrent access.
type ClientManager struct {
	mu sync.RWMutex

	// objectID игрока → клиент
	clients map[uint32]*GameClient

	// characterID → objectID, для запрета двойного входа
	characters map[int64]uint32
}

// NewClientManager creates a new client manager.
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[uint32]*GameClient, 64),
		characters: make(map[int64]uint32, 64),
	}
}

// Register associates an in-game session with its client.
func (cm *ClientManager) Register(s *Session, client *GameClient) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, ok := cm.characters[s.CharacterID()]; ok {
		return ErrAlreadyOnline
	}
	cm.clients[s.ObjectID()] = client
	cm.characters[s.CharacterID()] = s.ObjectID()
	return nil
}

// Unregister removes the session's client. Safe to call for unknown sessions.
func (cm *ClientManager) Unregister(s *Session) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.characters[s.CharacterID()] == s.ObjectID() {
		delete(cm.characters, s.CharacterID())
	}
	delete(cm.clients, s.ObjectID())
}

// GetClientByObjectID returns the client of the player with objectID, nil if offline.
func (cm *ClientManager) GetClientByObjectID(objectID uint32) *GameClient {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.clients[objectID]
}

// Session returns the in-game session of objectID.
func (cm *ClientManager) Session(objectID uint32) (*Session, bool) {
	client := cm.GetClientByObjectID(objectID)
	if client == nil {
		return nil, false
	}
	s := client.Session()
	return s, s != nil
}

// PlayerCount returns number of players in world.
func (cm *ClientManager) PlayerCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.clients)
}

// ForEachClient iterates over in-game clients. If fn returns false, iteration stops.
// fn must not call back into the manager's write methods.
func (cm *ClientManager) ForEachClient(fn func(*GameClient) bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	for _, client := range cm.clients {
		if !fn(client) {
			return
		}
	}
}

// Sessions returns a snapshot of all in-game sessions.
func (cm *ClientManager) Sessions() []*Session {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	out := make([]*Session, 0, len(cm.clients))
	for _, client := range cm.clients {
		if s := client.Session(); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Broadcast sends pkt to every in-game client. The payload is serialized once
// and encrypted per client (each client has its own key).
func (cm *ClientManager) Broadcast(pkt serverPacket) int {
	return cm.BroadcastExcept(pkt, 0)
}

// BroadcastExcept sends pkt to every in-game client except the player with exceptID.
func (cm *ClientManager) BroadcastExcept(pkt serverPacket, exceptID uint32) int {
	data, err := pkt.Write()
	if err != nil {
		slog.Error("serializing broadcast packet", "error", err)
		return 0
	}

	sent := 0
	cm.ForEachClient(func(client *GameClient) bool {
		if client.State() != ClientStateInGame {
			return true
		}
		if s := client.Session(); s != nil && s.ObjectID() == exceptID {
			return true
		}
		frame, err := client.writePool.EncryptToPooled(client.Encryption(), data, len(data))
		if err != nil {
			slog.Warn("encrypting broadcast", "client", client.IP(), "error", err)
			return true
		}
		if err := client.Send(frame); err == nil {
			sent++
		}
		return true
	})
	return sent
}
