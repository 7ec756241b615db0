package gameserver

import (
	"errors"
	"log/slog"

	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
)

// packetPresenter renders core intents as ExCoreEffect broadcasts and notices
// as SystemMessage packets to the owner. Fire-and-forget: send errors are logged only.
type packetPresenter struct {
	owner         *GameClient
	clients       *ClientManager
	theme         core.Theme
	upgradeItemID int32
}

func newPacketPresenter(owner *GameClient, clients *ClientManager, theme core.Theme, upgradeItemID int32) *packetPresenter {
	return &packetPresenter{
		owner:         owner,
		clients:       clients,
		theme:         theme,
		upgradeItemID: upgradeItemID,
	}
}

func (p *packetPresenter) Present(e core.Effect) {
	p.clients.Broadcast(serverpackets.NewExCoreEffect(e, p.theme.Sound(e.Kind)))
}

func (p *packetPresenter) Notify(n core.Notice) {
	msg := noticeMessage(n, p.upgradeItemID)
	if msg == nil {
		return
	}
	if err := p.owner.SendPacket(msg); err != nil {
		slog.Debug("sending core notice", "client", p.owner.IP(), "error", err)
	}
}

// noticeMessage maps a notice to its system message, nil for unknown kinds.
func noticeMessage(n core.Notice, upgradeItemID int32) *serverpackets.SystemMessage {
	switch n.Kind {
	case core.NoticeRestored:
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreRestored).
			AddItemName(n.Core.ItemTypeID()).
			AddNumber(n.Level)
	case core.NoticeLevelUp:
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreEnhanced).
			AddItemName(n.Core.ItemTypeID()).
			AddNumber(n.Level)
	case core.NoticeRejected:
		return rejectMessage(n, upgradeItemID)
	default:
		return nil
	}
}

func rejectMessage(n core.Notice, upgradeItemID int32) *serverpackets.SystemMessage {
	switch {
	case errors.Is(n.Err, core.ErrInvalidSlot):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreInvalidSlot)
	case errors.Is(n.Err, core.ErrSlotLocked):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreSlotLocked)
	case errors.Is(n.Err, core.ErrInvalidCore):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreUnknown)
	case errors.Is(n.Err, core.ErrAlreadyEquipped):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreAlreadyEquipped).AddItemName(n.Core.ItemTypeID())
	case errors.Is(n.Err, core.ErrNoCoreEquipped):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreNotEquipped)
	case errors.Is(n.Err, core.ErrAlreadyMaxed):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreAlreadyMaxed).AddItemName(n.Core.ItemTypeID())
	case errors.Is(n.Err, core.ErrInsufficientCurrency):
		return serverpackets.NewSystemMessage(serverpackets.SysMsgCoreNotEnoughMaterial).AddItemName(upgradeItemID)
	default:
		slog.Warn("unmapped core rejection", "error", n.Err)
		return nil
	}
}
