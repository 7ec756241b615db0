package gameserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
)

// saveTimeout bounds a single progress save on disconnect and shutdown.
const saveTimeout = 3 * time.Second

// OnDisconnection detaches the client's session and saves its progress.
// Safe to call more than once (Logout, then the connection closing): only the
// first call finds a session.
//
// Flow:
//  1. Detach session from client (later calls see nil)
//  2. Stop ticking, unregister from ClientManager
//  3. Save the final snapshot
//  4. Tell the others the player is gone
func (h *Handler) OnDisconnection(ctx context.Context, client *GameClient) {
	sess := client.takeSession()
	if sess == nil {
		return
	}

	h.ticks.Unregister(sess.ObjectID())
	h.clientManager.Unregister(sess)

	snap, ok := sess.close()
	if !ok {
		return
	}

	if h.store != nil {
		// ctx соединения может быть уже отменён — сохраняем на своём.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		if err := h.store.SaveProgress(saveCtx, sess.CharacterID(), snap); err != nil {
			slog.Error("failed to save progress on disconnect",
				"character", sess.Player().Name(),
				"session", sess.ID(),
				"error", err)
		}
	}

	h.clientManager.Broadcast(&serverpackets.DeleteObject{ObjectID: int32(sess.ObjectID())})

	slog.Info("player left world",
		"character", sess.Player().Name(),
		"objectID", sess.ObjectID(),
		"session", sess.ID(),
		"client", client.IP())
}
