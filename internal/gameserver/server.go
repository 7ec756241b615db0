package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/corebank/internal/ai"
	"github.com/udisondev/corebank/internal/config"
	"github.com/udisondev/corebank/internal/constants"
	"github.com/udisondev/corebank/internal/crypto"
	"github.com/udisondev/corebank/internal/game/combat"
	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/protocol"
	"github.com/udisondev/corebank/internal/world"
)

// errLoggedOut ends the read loop after LeaveWorld was queued.
var errLoggedOut = errors.New("client logged out")

// autosaveWorkers limits concurrent saves of one autosave pass.
const autosaveWorkers = 4

// Server accepts game client connections and owns the simulation wiring:
// combat manager, monster AI, sessions and persistence.
type Server struct {
	cfg     config.CoreServer
	world   *world.World
	spawner *world.Spawner
	ticks   *ai.TickManager
	store   ProgressionStore
	combat  *combat.Manager

	sendPool  *BytePool
	readPool  *BytePool
	writePool *BytePool
	handler   *Handler

	clientManager *ClientManager

	listener net.Listener
	mu       sync.Mutex
}

// NewServer wires a server over an already spawned world.
// Every monster present in w gets a retaliation AI registered in ticks.
// store may be nil (progress is then kept in memory only).
func NewServer(cfg config.CoreServer, w *world.World, spawner *world.Spawner, ticks *ai.TickManager, store ProgressionStore) *Server {
	clientMgr := NewClientManager()

	s := &Server{
		cfg:           cfg,
		world:         w,
		spawner:       spawner,
		ticks:         ticks,
		store:         store,
		sendPool:      NewBytePool(constants.DefaultSendBufSize),
		readPool:      NewBytePool(constants.DefaultReadBufSize),
		writePool:     NewBytePool(constants.DefaultSendBufSize),
		clientManager: clientMgr,
	}

	s.combat = combat.NewManager(w, func(objectID uint32) (combat.AIController, bool) {
		c, err := ticks.GetController(objectID)
		if err != nil {
			return nil, false
		}
		return c, true
	})
	s.combat.SetDeathFunc(s.onMonsterDeath)

	table := core.NewTable(cfg.Cores)
	theme := core.ThemeByName(cfg.Theme)
	env := &sessionEnv{
		world:           w,
		combat:          s.combat,
		clients:         clientMgr,
		regions:         spawner.Regions(),
		weaponDamage:    cfg.WeaponDamage,
		syncInterval:    cfg.SyncInterval,
		reviveDelay:     cfg.ReviveDelay,
		materialPerKill: cfg.MaterialPerKill,
		upgradeItemID:   table.UpgradeItemID,
		spawn:           model.NewLocation(cfg.SpawnX, cfg.SpawnY, cfg.SpawnZ),
	}
	s.handler = &Handler{
		clientManager:    clientMgr,
		store:            store,
		ticks:            ticks,
		env:              env,
		table:            table,
		theme:            theme,
		playerMaxHP:      cfg.PlayerMaxHP,
		startingMaterial: cfg.StartingMaterial,
	}

	for _, m := range w.Monsters() {
		s.attachAI(m)
	}
	ticks.SetFrameHook(s.onFrame)

	return s
}

// Addr returns the address the server is listening on.
// Returns nil if the server hasn't started yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ClientManager returns the client manager for this server.
func (s *Server) ClientManager() *ClientManager {
	return s.clientManager
}

// Handler returns the packet handler.
func (s *Server) Handler() *Handler {
	return s.handler
}

// Combat returns the combat manager.
func (s *Server) Combat() *combat.Manager {
	return s.combat
}

// Close closes the listener and saves all online players.
func (s *Server) Close() error {
	s.SaveAll(context.Background())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// attachAI registers a retaliation controller for m.
func (s *Server) attachAI(m *model.Monster) {
	s.ticks.Register(m.ObjectID(), ai.NewRetaliationAI(m, s.monsterAttack, s.locatePlayer))
}

func (s *Server) monsterAttack(m *model.Monster, targetID uint32) {
	sess, ok := s.clientManager.Session(targetID)
	if !ok {
		return
	}
	sess.onMonsterHit(m)
}

func (s *Server) locatePlayer(objectID uint32) (model.Target, bool) {
	sess, ok := s.clientManager.Session(objectID)
	if !ok {
		return nil, false
	}
	return sess.Player(), true
}

// onMonsterDeath is the combat death callback: despawn, schedule respawn, notify clients.
// Runs under the killer's session lock.
func (s *Server) onMonsterDeath(m *model.Monster) {
	if !s.spawner.OnDeath(m.ObjectID(), s.ticks.Frame()) {
		s.world.RemoveMonster(m.ObjectID())
	}
	s.ticks.Unregister(m.ObjectID())

	s.clientManager.Broadcast(&serverpackets.Die{ObjectID: int32(m.ObjectID())})
	s.clientManager.Broadcast(&serverpackets.DeleteObject{ObjectID: int32(m.ObjectID())})
}

// onFrame runs after every ticker advanced: respawns due monsters.
func (s *Server) onFrame(frame uint64) {
	for _, m := range s.spawner.Tick(frame) {
		s.attachAI(m)
		info := serverpackets.NewNpcInfo(m)
		s.clientManager.Broadcast(&info)
	}
}

// SaveAll checkpoints every online session. Errors are logged; returns the
// number of sessions saved.
func (s *Server) SaveAll(ctx context.Context) int {
	if s.store == nil {
		return 0
	}

	sessions := s.clientManager.Sessions()
	var (
		mu    sync.Mutex
		saved int
	)

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.SetLimit(autosaveWorkers)
	for _, sess := range sessions {
		g.Go(func() error {
			saveCtx, cancel := context.WithTimeout(gctx, saveTimeout)
			defer cancel()
			if err := s.store.SaveProgress(saveCtx, sess.CharacterID(), sess.Snapshot()); err != nil {
				slog.Error("checkpoint failed",
					"character", sess.Player().Name(),
					"session", sess.ID(),
					"error", err)
				return nil
			}
			mu.Lock()
			saved++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if saved > 0 {
		slog.Info("progress checkpoint", "saved", saved, "online", len(sessions))
	}
	return saved
}

// Autosave checkpoints all sessions every cfg.AutosaveInterval until ctx is done.
func (s *Server) Autosave(ctx context.Context) error {
	interval := s.cfg.AutosaveInterval
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.SaveAll(ctx)
		}
	}
}

// Run begins listening for game client connections.
// Creates a listener on cfg.BindAddress:cfg.Port and starts the accept loop.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from the given listener until ctx is canceled.
// Used for testing with custom listeners.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("core server started", "address", ln.Addr())

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("failed to accept new connection", "error", err)
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "error", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(30 * time.Second); err != nil {
				slog.Warn("set keepalive period failed", "error", err)
			}
		}

		wg.Go(func() {
			s.handleConnection(ctx, conn)
		})
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	sessionKey, err := crypto.GenerateSessionKey()
	if err != nil {
		slog.Error("failed to generate session key", "error", err)
		return
	}

	client, err := NewGameClient(conn, sessionKey, s.writePool, s.cfg.SendQueueSize, s.cfg.WriteTimeout)
	if err != nil {
		slog.Error("failed to create game client", "error", err)
		return
	}
	slog.Info("new game client connection", "remote", client.IP())

	// KeyInit идёт открытым текстом, дальше всё зашифровано.
	keyInit := serverpackets.NewKeyInit(sessionKey)
	keyData, err := keyInit.Write()
	if err != nil {
		slog.Error("failed to write KeyInit", "error", err)
		return
	}
	if err := protocol.WritePlain(conn, keyData); err != nil {
		slog.Error("failed to send KeyInit", "error", err)
		return
	}

	go client.writePump()
	defer func() {
		s.handler.OnDisconnection(ctx, client)
		if client.IsMarkedForDisconnection() {
			_ = client.CloseGraceful(s.writeTimeout())
		} else {
			_ = client.Close()
		}
		client.SetState(ClientStateDisconnected)
	}()

	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}

	for ctx.Err() == nil {
		if err := s.handlePacket(ctx, client, readTimeout); err != nil {
			switch {
			case errors.Is(err, errLoggedOut):
				slog.Info("client logged out", "client", client.IP())
			case errors.Is(err, io.EOF):
				slog.Info("client disconnected", "client", client.IP())
			default:
				slog.Error("packet handling error", "error", err, "client", client.IP())
			}
			return
		}
	}
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WriteTimeout <= 0 {
		return defaultWriteTimeout
	}
	return s.cfg.WriteTimeout
}

func (s *Server) handlePacket(ctx context.Context, client *GameClient, readTimeout time.Duration) error {
	readBuf := s.readPool.Get(constants.DefaultReadBufSize)
	defer s.readPool.Put(readBuf)

	if err := client.Conn().SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}

	payload, err := protocol.ReadPacket(client.Conn(), client.Encryption(), readBuf)
	if err != nil {
		return fmt.Errorf("reading packet: %w", err)
	}

	sendBuf := s.sendPool.Get(constants.DefaultSendBufSize)
	defer s.sendPool.Put(sendBuf)

	n, keepOpen, err := s.handler.HandlePacket(ctx, client, payload, sendBuf[constants.PacketHeaderSize:])
	if err != nil {
		return fmt.Errorf("handling packet: %w", err)
	}

	if n > 0 {
		frame, err := s.writePool.EncryptToPooled(client.Encryption(), sendBuf[constants.PacketHeaderSize:], n)
		if err != nil {
			return fmt.Errorf("encrypting response: %w", err)
		}
		if err := client.SendSync(frame, s.writeTimeout()); err != nil {
			return fmt.Errorf("queueing response: %w", err)
		}
	}

	if client.IsMarkedForDisconnection() {
		return errLoggedOut
	}
	if !keepOpen {
		return fmt.Errorf("handler requested connection close")
	}
	return nil
}
