package gameserver

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/corebank/internal/game/combat"
	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/world"
)

// sessionEnv — общие зависимости всех сессий сервера.
type sessionEnv struct {
	world   *world.World
	combat  *combat.Manager
	clients *ClientManager
	regions []world.ProtectedRegion

	weaponDamage    float64
	syncInterval    int32
	reviveDelay     int32
	materialPerKill int64
	upgradeItemID   int32
	spawn           model.Location
}

// Session is one player in the world together with its core progression.
// mu serializes every access to state and is held for the whole frame or request.
type Session struct {
	id     uuid.UUID
	player *model.Player
	client *GameClient
	env    *sessionEnv

	mu        sync.Mutex
	state     *core.State
	sinceSync int32
	dirty     bool  // slots or flags changed since the last ExCoreSync
	deadFor   int32 // frames since death
	closed    bool
}

func newSession(player *model.Player, client *GameClient, env *sessionEnv, st *core.State) *Session {
	return &Session{
		id:     uuid.New(),
		player: player,
		client: client,
		env:    env,
		state:  st,
		dirty:  true,
	}
}

// ID returns the session id used for log correlation.
func (s *Session) ID() uuid.UUID { return s.id }

// ObjectID returns the player's object ID. Lock-free.
func (s *Session) ObjectID() uint32 { return s.player.ObjectID() }

// CharacterID returns the persistent character ID. Lock-free.
func (s *Session) CharacterID() int64 { return s.player.CharacterID() }

// Player returns the player. HP and location are safe to read concurrently.
func (s *Session) Player() *model.Player { return s.player }

// Tick advances the session by one frame. Implements ai.Ticker.
func (s *Session) Tick(uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if s.player.IsDead() {
		s.tickDead()
		return
	}

	effects := s.state.Tick(s.env.world)
	if len(effects) > 0 {
		s.report(s.env.combat.ApplyEffects(s.player, s.state, effects))
	}

	s.sinceSync++
	if s.dirty || (s.env.syncInterval > 0 && s.sinceSync >= s.env.syncInterval) {
		s.broadcastSync()
	}
}

// tickDead держит таймеры core замороженными, пока игрок мёртв.
func (s *Session) tickDead() {
	s.deadFor++
	if s.deadFor < s.env.reviveDelay {
		return
	}
	s.deadFor = 0
	s.player.SetLocation(s.env.spawn)
	s.player.SetCurrentHP(s.player.MaxHP())
	s.env.clients.Broadcast(&serverpackets.Revive{ObjectID: int32(s.ObjectID()), Location: s.env.spawn})
	slog.Info("player revived", "player", s.player.Name(), "session", s.id)
}

// Attack performs a weapon hit on targetID.
func (s *Session) Attack(targetID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.env.combat.ExecuteAttack(s.player, s.state, targetID, s.env.weaponDamage)
	if err != nil {
		return err
	}
	s.report(out)
	return nil
}

// Equip puts the core with itemType into slot. Rejections are reported to the
// client by the presenter and returned.
func (s *Session) Equip(slot int, itemType int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := core.CoreByItemType(itemType)
	if !ok {
		c = core.CoreNone
	}
	if _, err := s.state.Equip(slot, c); err != nil {
		return err
	}
	s.dirty = true
	s.sendStatus()
	return nil
}

// Unequip empties slot.
func (s *Session) Unequip(slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.state.Unequip(slot)
	if err != nil {
		return err
	}
	if removed != core.CoreNone {
		s.dirty = true
		s.sendMessage(serverpackets.NewSystemMessage(serverpackets.SysMsgCoreUnequipped).AddItemName(removed.ItemTypeID()))
	}
	s.sendStatus()
	return nil
}

// Enhance spends upgrade material from the player's inventory on slot.
func (s *Session) Enhance(slot int) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	level, err := s.state.Enhance(slot, s.player.Inventory())
	if err != nil {
		return 0, err
	}
	s.sendStatus()
	return level, nil
}

// Status returns the owner-only status packet.
func (s *Session) Status() *serverpackets.ExCoreStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return serverpackets.NewExCoreStatus(s.state)
}

// Sync returns the observer packet for the current state.
func (s *Session) Sync() *serverpackets.ExCoreSync {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncPacket()
}

// Snapshot captures persisted state.
func (s *Session) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// onMonsterHit resolves a hit of monster on this player through the defensive cores.
func (s *Session) onMonsterHit(m *model.Monster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	out := s.env.combat.MonsterAttack(m, s.player, s.state)
	switch out.Decision {
	case core.Absorbed:
		s.sendMessage(serverpackets.NewSystemMessage(serverpackets.SysMsgS1AbsorbedTheHit).AddString(s.player.Name()))
	case core.Reflected:
		msg := serverpackets.NewSystemMessage(serverpackets.SysMsgS1ReflectedS2Damage).
			AddString(s.player.Name()).
			AddNumber(m.Attack())
		s.sendMessage(msg)
	}
	s.report(out)
}

// close stops ticking and returns the final snapshot. Later calls return false.
func (s *Session) close() (core.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return core.Snapshot{}, false
	}
	s.closed = true
	s.state.SetPresenter(nil)
	return s.state.Snapshot(), true
}

// report turns a combat outcome into packets and rewards.
func (s *Session) report(out combat.Outcome) {
	for _, h := range out.Hits {
		if h.AttackerID == s.ObjectID() && h.Source == core.CoreNone {
			s.sendMessage(serverpackets.NewSystemMessage(serverpackets.SysMsgYouHitForS1Damage).AddNumber(h.Damage))
		}
		if target, ok := s.env.world.Monster(h.TargetID); ok && !h.Killed {
			s.env.clients.Broadcast(serverpackets.NewStatusUpdate(target))
		}
		if h.TargetID == s.ObjectID() {
			s.env.clients.Broadcast(serverpackets.NewStatusUpdate(s.player))
			if h.Killed {
				s.deadFor = 0
				s.env.clients.Broadcast(&serverpackets.Die{ObjectID: int32(s.ObjectID()), ReviveIn: s.env.reviveDelay})
			}
		}
	}
	if out.Healed > 0 {
		s.env.clients.Broadcast(serverpackets.NewStatusUpdate(s.player))
	}

	for _, m := range out.Killed {
		if s.env.materialPerKill > 0 {
			if err := s.player.Inventory().Add(s.env.upgradeItemID, s.env.materialPerKill); err != nil {
				slog.Warn("granting upgrade material", "player", s.player.Name(), "error", err)
			}
		}
		if m.IsBoss() {
			msg := serverpackets.NewSystemMessage(serverpackets.SysMsgS1DefeatedTheGuardianS2).
				AddString(s.player.Name()).
				AddNpcName(m.TemplateID())
			s.env.clients.Broadcast(msg)
		}
	}

	if out.BossDefeated {
		s.dirty = true
		s.sendMessage(serverpackets.NewSystemMessage(serverpackets.SysMsgCoreSlotsUnlocked))
		s.sendStatus()
	}
}

func (s *Session) syncPacket() *serverpackets.ExCoreSync {
	pkt := &serverpackets.ExCoreSync{
		OwnerID: int32(s.ObjectID()),
		Flags:   s.state.Flags(),
		Regions: s.env.regions,
	}
	for i, slot := range s.state.Bank().Slots() {
		if !slot.Empty() {
			pkt.Slots[i] = slot.Core.ItemTypeID()
		}
	}
	return pkt
}

func (s *Session) broadcastSync() {
	s.env.clients.Broadcast(s.syncPacket())
	s.sinceSync = 0
	s.dirty = false
}

func (s *Session) sendStatus() {
	if s.client == nil {
		return
	}
	if err := s.client.SendPacket(serverpackets.NewExCoreStatus(s.state)); err != nil {
		slog.Debug("sending core status", "session", s.id, "error", err)
	}
}

func (s *Session) sendMessage(msg *serverpackets.SystemMessage) {
	if s.client == nil {
		return
	}
	if err := s.client.SendPacket(msg); err != nil {
		slog.Debug("sending system message", "session", s.id, "error", err)
	}
}
