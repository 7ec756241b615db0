package main

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/world"
)

func TestSyncHexCmd(t *testing.T) {
	pkt := serverpackets.ExCoreSync{
		OwnerID: 77,
		Flags:   world.Flags{BossDefeated: true},
		Slots:   [serverpackets.CoreSyncSlots]int32{core.CoreStorm.ItemTypeID(), 0, 12345},
		Regions: []world.ProtectedRegion{{X: 10, Y: -20, Radius: 100}},
	}
	data, err := pkt.Write()
	require.NoError(t, err)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"sync-hex", hex.EncodeToString(data)})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, `owner: 77
boss defeated: true
slots unlocked: false
slot0: storm
slot1: -
slot2: unknown(12345)
protected region: (10,-20) r=100
`, out.String())
}

func TestSyncHexCmd_BadInput(t *testing.T) {
	for _, arg := range []string{"zz", "fec2"} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"sync-hex", arg})
		assert.Error(t, cmd.Execute(), arg)
	}
}
