package gameserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/corebank/internal/ai"
	"github.com/udisondev/corebank/internal/game/combat"
	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/clientpackets"
	"github.com/udisondev/corebank/internal/gameserver/packet"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/model"
)

// ProgressionStore loads and saves core progression by character.
// Implemented by db.ProgressionRepository.
type ProgressionStore interface {
	LoadProgress(ctx context.Context, characterID int64) (core.Snapshot, error)
	SaveProgress(ctx context.Context, characterID int64, snap core.Snapshot) error
}

// Handler processes game client packets.
type Handler struct {
	clientManager *ClientManager
	store         ProgressionStore // nil — прогресс не сохраняется
	ticks         *ai.TickManager
	env           *sessionEnv

	table            core.Table
	theme            core.Theme
	playerMaxHP      int32
	startingMaterial int64
}

// HandlePacket dispatches a decrypted packet to the appropriate handler.
// Writes response into buf. Returns: n — bytes written to buf (0 = nothing to send),
// ok — true if connection stays open (false = close after sending).
func (h *Handler) HandlePacket(
	ctx context.Context,
	client *GameClient,
	data, buf []byte,
) (int, bool, error) {
	if len(data) == 0 {
		return 0, false, fmt.Errorf("empty packet data")
	}

	opcode := data[0]
	body := data[1:]
	state := client.State()

	switch state {
	case ClientStateConnected:
		switch opcode {
		case clientpackets.OpcodeEnterWorld:
			return h.handleEnterWorld(ctx, client, body, buf)
		default:
			slog.Warn("invalid opcode for state CONNECTED",
				"opcode", fmt.Sprintf("0x%02X", opcode),
				"client", client.IP())
			return 0, false, nil
		}

	case ClientStateInGame:
		sess := client.Session()
		if sess == nil {
			return 0, false, fmt.Errorf("in-game client %s without session", client.IP())
		}
		switch opcode {
		case clientpackets.OpcodeAttackRequest:
			return h.handleAttack(sess, body, buf)
		case clientpackets.OpcodeLogout:
			return h.handleLogout(ctx, client, body, buf)
		case clientpackets.OpcodeExtended:
			return h.handleExtended(client, sess, body, buf)
		default:
			slog.Warn("unknown packet opcode",
				"opcode", fmt.Sprintf("0x%02X", opcode),
				"state", state,
				"client", client.IP())
			return 0, true, nil
		}

	default:
		return 0, false, fmt.Errorf("invalid state: %v", state)
	}
}

// handleEnterWorld processes the EnterWorld packet (opcode 0x03).
// Loads progression, creates the session and starts ticking it.
func (h *Handler) handleEnterWorld(ctx context.Context, client *GameClient, data, buf []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseEnterWorld(data)
	if err != nil {
		return 0, false, fmt.Errorf("parsing EnterWorld: %w", err)
	}
	characterID := int64(pkt.CharacterID)

	var snap core.Snapshot
	if h.store != nil {
		snap, err = h.store.LoadProgress(ctx, characterID)
		if err != nil {
			return 0, false, fmt.Errorf("loading progress of character %d: %w", characterID, err)
		}
	}

	player := model.NewPlayer(h.env.world.IDs().NextPlayerID(), characterID, pkt.Name, h.env.spawn, h.playerMaxHP)
	if h.startingMaterial > 0 {
		if err := player.Inventory().Add(h.table.UpgradeItemID, h.startingMaterial); err != nil {
			return 0, false, fmt.Errorf("granting starting material: %w", err)
		}
	}

	st := core.NewState(player, core.Options{
		Table:     h.table,
		Theme:     h.theme,
		Presenter: newPacketPresenter(client, h.clientManager, h.theme, h.table.UpgradeItemID),
	})
	st.Restore(snap)

	sess := newSession(player, client, h.env, st)
	if err := h.clientManager.Register(sess, client); err != nil {
		slog.Warn("enter world rejected",
			"characterID", characterID,
			"client", client.IP(),
			"error", err)
		return 0, false, fmt.Errorf("entering world as character %d: %w", characterID, err)
	}
	client.SetSession(sess)
	client.SetState(ClientStateInGame)
	h.ticks.Register(player.ObjectID(), sess)

	slog.Info("player entered world",
		"character", player.Name(),
		"characterID", characterID,
		"objectID", player.ObjectID(),
		"session", sess.ID(),
		"client", client.IP())

	// Мир и чужие core — отдельными пакетами, статус — ответом.
	for _, m := range h.env.world.Monsters() {
		info := serverpackets.NewNpcInfo(m)
		if err := client.SendPacket(&info); err != nil {
			return 0, false, fmt.Errorf("sending NpcInfo: %w", err)
		}
	}
	for _, other := range h.clientManager.Sessions() {
		if other == sess {
			continue
		}
		if err := client.SendPacket(other.Sync()); err != nil {
			return 0, false, fmt.Errorf("sending ExCoreSync: %w", err)
		}
	}

	return writeResponse(buf, sess.Status())
}

// handleAttack processes AttackRequest (opcode 0x0A).
func (h *Handler) handleAttack(sess *Session, data, buf []byte) (int, bool, error) {
	pkt, err := clientpackets.ParseAttackRequest(data)
	if err != nil {
		return 0, false, fmt.Errorf("parsing AttackRequest: %w", err)
	}

	err = sess.Attack(pkt.ObjectID)
	if err == nil {
		return 0, true, nil
	}

	slog.Debug("attack rejected",
		"session", sess.ID(),
		"target", pkt.ObjectID,
		"error", err)

	var msg *serverpackets.SystemMessage
	switch {
	case errors.Is(err, combat.ErrOutOfRange):
		msg = serverpackets.NewSystemMessage(serverpackets.SysMsgCoreTargetOutOfRange)
	case errors.Is(err, combat.ErrAttackerDead):
		msg = serverpackets.NewSystemMessage(serverpackets.SysMsgCoreYouAreDead)
	default:
		msg = serverpackets.NewSystemMessage(serverpackets.SysMsgTargetIsNotFound).AddString(fmt.Sprintf("%d", pkt.ObjectID))
	}
	return writeResponse(buf, msg)
}

// handleLogout processes Logout (opcode 0x09): saves progress, answers
// LeaveWorld and marks the client for disconnection.
func (h *Handler) handleLogout(ctx context.Context, client *GameClient, data, buf []byte) (int, bool, error) {
	if _, err := clientpackets.ParseLogout(data); err != nil {
		return 0, false, fmt.Errorf("parsing Logout: %w", err)
	}

	h.OnDisconnection(ctx, client)
	client.MarkForDisconnection()

	return writeResponse(buf, &serverpackets.LeaveWorld{})
}

// handleExtended dispatches 0xD0 sub-opcodes (core panel).
// Rejected slot operations are answered by the presenter, not here.
func (h *Handler) handleExtended(client *GameClient, sess *Session, data, buf []byte) (int, bool, error) {
	r := packet.NewReader(data)
	sub, err := r.ReadShort()
	if err != nil {
		return 0, false, fmt.Errorf("reading extended sub-opcode: %w", err)
	}
	body := data[r.Position():]

	switch sub {
	case clientpackets.SubOpcodeRequestCoreEquip:
		pkt, err := clientpackets.ParseRequestCoreEquip(body)
		if err != nil {
			return 0, false, fmt.Errorf("parsing RequestCoreEquip: %w", err)
		}
		logRejected(sess, "equip", sess.Equip(int(pkt.Slot), pkt.ItemType))
		return 0, true, nil

	case clientpackets.SubOpcodeRequestCoreUnequip:
		pkt, err := clientpackets.ParseRequestCoreUnequip(body)
		if err != nil {
			return 0, false, fmt.Errorf("parsing RequestCoreUnequip: %w", err)
		}
		logRejected(sess, "unequip", sess.Unequip(int(pkt.Slot)))
		return 0, true, nil

	case clientpackets.SubOpcodeRequestCoreEnhance:
		pkt, err := clientpackets.ParseRequestCoreEnhance(body)
		if err != nil {
			return 0, false, fmt.Errorf("parsing RequestCoreEnhance: %w", err)
		}
		_, err = sess.Enhance(int(pkt.Slot))
		logRejected(sess, "enhance", err)
		return 0, true, nil

	case clientpackets.SubOpcodeRequestCoreStatus:
		return writeResponse(buf, sess.Status())

	default:
		slog.Warn("unknown extended sub-opcode",
			"subOpcode", fmt.Sprintf("0x%04X", sub),
			"client", client.IP())
		return 0, true, nil
	}
}

func logRejected(sess *Session, op string, err error) {
	if err != nil {
		slog.Debug("core request rejected", "session", sess.ID(), "op", op, "error", err)
	}
}

// writeResponse serializes pkt into buf.
func writeResponse(buf []byte, pkt serverPacket) (int, bool, error) {
	data, err := pkt.Write()
	if err != nil {
		return 0, false, fmt.Errorf("serializing response: %w", err)
	}
	n := copy(buf, data)
	if n != len(data) {
		return 0, false, fmt.Errorf("buffer too small for response (%d > %d)", len(data), len(buf))
	}
	return n, true, nil
}
