package gameserver

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/corebank/internal/ai"
	"github.com/udisondev/corebank/internal/config"
	"github.com/udisondev/corebank/internal/game/core"
	"github.com/udisondev/corebank/internal/gameserver/clientpackets"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/model"
	"github.com/udisondev/corebank/internal/testutil"
	"github.com/udisondev/corebank/internal/world"
)

type testServer struct {
	srv   *Server
	addr  string
	store *testutil.MemoryStore
	dummy *model.Monster
}

// startTestServer runs a server with one training dummy at (150,0,0).
// The tick manager is not started: nothing moves unless the test drives it.
func startTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.DefaultCoreServer()
	cfg.AutosaveInterval = 0
	cfg.StartingMaterial = 2

	w := world.New()
	spawner := world.NewSpawner(w, world.RegionsFromConfig(cfg.Regions))
	dummy, err := spawner.AddPoint(world.SpawnPoint{
		Name:         "Training Dummy",
		TemplateID:   1,
		Location:     model.NewLocation(150, 0, 0),
		MaxHP:        50,
		RespawnDelay: 10,
		Attack:       5,
	})
	require.NoError(t, err)

	ticks := ai.NewTickManager(cfg.TickRate)
	store := testutil.NewMemoryStore()
	srv := NewServer(cfg, w, spawner, ticks, store)

	ln, addr := testutil.ListenTCP(t)
	ctx, cancel := testutil.ContextWithCancel(t)
	done := make(chan struct{})
	go func() {
		_ = srv.Serve(ctx, ln)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &testServer{srv: srv, addr: addr, store: store, dummy: dummy}
}

func enterWorld(t *testing.T, addr string, characterID int32) (*testutil.GameClient, []byte) {
	t.Helper()

	client, err := testutil.NewGameClient(t, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	pkt := clientpackets.EnterWorld{CharacterID: characterID, Name: testutil.Fixtures.Name}
	require.NoError(t, client.Send(pkt.Write()))

	status, err := client.ReadPacketWithOpcode(serverpackets.OpcodeExtended, serverpackets.SubOpcodeExCoreStatus)
	require.NoError(t, err)
	return client, status
}

// statusSlot returns itemType and level of slot i from a raw ExCoreStatus.
func statusSlot(data []byte, i int) (int32, int32) {
	off := 1 + 2 + 4 + 1 + i*8
	return int32(binary.LittleEndian.Uint32(data[off:])), int32(binary.LittleEndian.Uint32(data[off+4:]))
}

func readSystemMessage(t *testing.T, client *testutil.GameClient) int32 {
	t.Helper()
	data, err := client.ReadPacketWithOpcode(serverpackets.OpcodeSystemMessage)
	require.NoError(t, err)
	return int32(binary.LittleEndian.Uint32(data[1:]))
}

func TestServer_EquipEnhanceLogoutPersists(t *testing.T) {
	ts := startTestServer(t)
	id := testutil.Fixtures.CharacterID

	client, status := enterWorld(t, ts.addr, id)
	item, _ := statusSlot(status, 0)
	assert.Zero(t, item, "fresh character has no cores")

	equip := clientpackets.RequestCoreEquip{Slot: 0, ItemType: core.CoreEmber.ItemTypeID()}
	require.NoError(t, client.Send(equip.Write()))
	status, err := client.ReadPacketWithOpcode(serverpackets.OpcodeExtended, serverpackets.SubOpcodeExCoreStatus)
	require.NoError(t, err)
	item, level := statusSlot(status, 0)
	assert.Equal(t, core.CoreEmber.ItemTypeID(), item)
	assert.Zero(t, level)

	enhance := clientpackets.RequestCoreEnhance{Slot: 0}
	require.NoError(t, client.Send(enhance.Write()))
	assert.Equal(t, int32(serverpackets.SysMsgCoreEnhanced), readSystemMessage(t, client))

	logout := clientpackets.Logout{}
	require.NoError(t, client.Send(logout.Write()))
	_, err = client.ReadPacketWithOpcode(serverpackets.OpcodeLeaveWorld)
	require.NoError(t, err)

	var snap core.Snapshot
	testutil.WaitForCleanup(t, func() bool {
		var ok bool
		snap, ok = ts.store.Get(int64(id))
		return ok
	}, 2*time.Second)

	assert.Equal(t, core.CoreEmber.ItemTypeID(), snap.Slots[0])
	assert.Equal(t, []core.Enhancement{{ItemType: core.CoreEmber.ItemTypeID(), Level: 1}}, snap.Enhancements)
	assert.Zero(t, ts.srv.ClientManager().PlayerCount())
}

func TestServer_RestoresSavedProgress(t *testing.T) {
	ts := startTestServer(t)
	id := testutil.Fixtures.CharacterID

	ts.store.Put(int64(id), core.Snapshot{
		KilledBoss:    true,
		SlotsUnlocked: true,
		Slots:         [3]int32{core.CoreTidal.ItemTypeID(), 0, core.CoreStorm.ItemTypeID()},
		Enhancements: []core.Enhancement{
			{ItemType: core.CoreTidal.ItemTypeID(), Level: 2},
		},
	})

	_, status := enterWorld(t, ts.addr, id)

	item, level := statusSlot(status, 0)
	assert.Equal(t, core.CoreTidal.ItemTypeID(), item)
	assert.Equal(t, int32(2), level)
	item, _ = statusSlot(status, 2)
	assert.Equal(t, core.CoreStorm.ItemTypeID(), item)
	assert.Equal(t, world.Flags{BossDefeated: true, SlotsUnlocked: true}.Bits(), status[7])
}

func TestServer_LockedSlotRejected(t *testing.T) {
	ts := startTestServer(t)
	client, _ := enterWorld(t, ts.addr, testutil.Fixtures.CharacterID)

	equip := clientpackets.RequestCoreEquip{Slot: 1, ItemType: core.CoreStorm.ItemTypeID()}
	require.NoError(t, client.Send(equip.Write()))
	assert.Equal(t, int32(serverpackets.SysMsgCoreSlotLocked), readSystemMessage(t, client))
}

func TestServer_DuplicateLoginRejected(t *testing.T) {
	ts := startTestServer(t)
	enterWorld(t, ts.addr, testutil.Fixtures.CharacterID)

	second, err := testutil.NewGameClient(t, ts.addr)
	require.NoError(t, err)
	defer second.Close()

	pkt := clientpackets.EnterWorld{CharacterID: testutil.Fixtures.CharacterID, Name: "Twin"}
	require.NoError(t, second.Send(pkt.Write()))

	_, err = second.ReadPacket()
	assert.Error(t, err, "second login must be disconnected")
	assert.Equal(t, 1, ts.srv.ClientManager().PlayerCount())
}

func TestServer_AttackKillsDummy(t *testing.T) {
	ts := startTestServer(t)
	client, _ := enterWorld(t, ts.addr, testutil.Fixtures.CharacterID)

	attack := clientpackets.AttackRequest{ObjectID: ts.dummy.ObjectID()}
	require.NoError(t, client.Send(attack.Write()))

	data, err := client.ReadPacketWithOpcode(serverpackets.OpcodeDie)
	require.NoError(t, err)
	assert.Equal(t, ts.dummy.ObjectID(), binary.LittleEndian.Uint32(data[1:]))

	data, err = client.ReadPacketWithOpcode(serverpackets.OpcodeDeleteObject)
	require.NoError(t, err)
	assert.Equal(t, ts.dummy.ObjectID(), binary.LittleEndian.Uint32(data[1:]))
}

func TestServer_AttackUnknownTarget(t *testing.T) {
	ts := startTestServer(t)
	client, _ := enterWorld(t, ts.addr, testutil.Fixtures.CharacterID)

	attack := clientpackets.AttackRequest{ObjectID: 424242}
	require.NoError(t, client.Send(attack.Write()))
	assert.Equal(t, int32(serverpackets.SysMsgTargetIsNotFound), readSystemMessage(t, client))
}

func TestServer_SaveAll(t *testing.T) {
	ts := startTestServer(t)
	enterWorld(t, ts.addr, testutil.Fixtures.CharacterID)
	testutil.WaitForCleanup(t, func() bool { return ts.srv.ClientManager().PlayerCount() == 1 }, 2*time.Second)

	assert.Equal(t, 1, ts.srv.SaveAll(t.Context()))
	assert.Equal(t, 1, ts.store.Saves())

	ts.store.FailSaves(errors.New("db down"))
	assert.Zero(t, ts.srv.SaveAll(t.Context()), "failed save is logged, not counted")
	assert.Equal(t, 1, ts.store.Saves())
}
