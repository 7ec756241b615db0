package gameserver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
)

func TestNoticeMessage(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("slot 1: %w", err) }

	tests := []struct {
		name   string
		notice core.Notice
		wantID int32
	}{
		{"restored", core.Notice{Kind: core.NoticeRestored, Core: core.CoreEmber, Level: 2}, serverpackets.SysMsgCoreRestored},
		{"level up", core.Notice{Kind: core.NoticeLevelUp, Core: core.CoreEmber, Level: 3}, serverpackets.SysMsgCoreEnhanced},
		{"invalid slot", core.Notice{Kind: core.NoticeRejected, Err: wrap(core.ErrInvalidSlot)}, serverpackets.SysMsgCoreInvalidSlot},
		{"locked", core.Notice{Kind: core.NoticeRejected, Err: wrap(core.ErrSlotLocked)}, serverpackets.SysMsgCoreSlotLocked},
		{"unknown core", core.Notice{Kind: core.NoticeRejected, Err: wrap(core.ErrInvalidCore)}, serverpackets.SysMsgCoreUnknown},
		{"duplicate", core.Notice{Kind: core.NoticeRejected, Core: core.CoreTidal, Err: wrap(core.ErrAlreadyEquipped)}, serverpackets.SysMsgCoreAlreadyEquipped},
		{"empty slot", core.Notice{Kind: core.NoticeRejected, Err: wrap(core.ErrNoCoreEquipped)}, serverpackets.SysMsgCoreNotEquipped},
		{"maxed", core.Notice{Kind: core.NoticeRejected, Core: core.CoreStorm, Err: wrap(core.ErrAlreadyMaxed)}, serverpackets.SysMsgCoreAlreadyMaxed},
		{"no material", core.Notice{Kind: core.NoticeRejected, Err: wrap(core.ErrInsufficientCurrency)}, serverpackets.SysMsgCoreNotEnoughMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := noticeMessage(tt.notice, testUpgradeItem)
			require.NotNil(t, msg)
			assert.Equal(t, tt.wantID, msg.MessageID)

			_, err := msg.Write()
			assert.NoError(t, err)
		})
	}
}

func TestNoticeMessage_Params(t *testing.T) {
	msg := noticeMessage(core.Notice{Kind: core.NoticeLevelUp, Core: core.CoreMirror, Level: 4}, testUpgradeItem)
	require.NotNil(t, msg)
	require.Len(t, msg.Params, 2)
	assert.Equal(t, core.CoreMirror.ItemTypeID(), msg.Params[0].IntValue)
	assert.Equal(t, int32(4), msg.Params[1].IntValue)

	msg = noticeMessage(core.Notice{Kind: core.NoticeRejected, Err: core.ErrInsufficientCurrency}, testUpgradeItem)
	require.NotNil(t, msg)
	require.Len(t, msg.Params, 1)
	assert.Equal(t, int32(testUpgradeItem), msg.Params[0].IntValue, "names the upgrade material")
}

func TestNoticeMessage_Unmapped(t *testing.T) {
	assert.Nil(t, noticeMessage(core.Notice{Kind: core.NoticeRejected, Err: errors.New("boom")}, testUpgradeItem))
	assert.Nil(t, noticeMessage(core.Notice{Kind: 99}, testUpgradeItem))
}
