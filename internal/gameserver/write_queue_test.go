package gameserver

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/corebank/internal/constants"
	"github.com/udisondev/corebank/internal/crypto"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/protocol"
	"github.com/udisondev/corebank/internal/testutil"
)

// queuedClient собирает клиента без NewGameClient, чтобы тест сам решал,
// запускать ли writePump.
func queuedClient(t *testing.T, conn net.Conn, queue int) *GameClient {
	t.Helper()
	enc, err := crypto.NewSessionCrypt(testutil.Fixtures.SessionKey)
	require.NoError(t, err)

	c := &GameClient{
		conn:         conn,
		ip:           "pipe",
		encryption:   enc,
		sendCh:       make(chan []byte, queue),
		closeCh:      make(chan struct{}),
		drainCh:      make(chan struct{}),
		pumpDone:     make(chan struct{}),
		writePool:    NewBytePool(64),
		writeTimeout: 5 * time.Second,
	}
	c.state.Store(int32(ClientStateConnected))
	return c
}

func readN(t *testing.T, conn net.Conn, n int) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	out := make([]byte, n)
	_, err := io.ReadFull(conn, out)
	require.NoError(t, err)
	return out
}

func TestWritePump_PreservesOrder(t *testing.T) {
	far, near := net.Pipe()
	defer far.Close()

	c := queuedClient(t, near, 8)
	// Очередь заполнена до старта pump: кадры уходят одним writev.
	c.sendCh <- []byte{1, 2}
	c.sendCh <- []byte{3}
	c.sendCh <- []byte{4, 5, 6}
	go c.writePump()
	defer c.CloseAsync()

	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, readN(t, far, 6))

	require.NoError(t, c.Send([]byte{7}))
	assert.Equal(t, []byte{7}, readN(t, far, 1))
}

func TestSendPacket_EncryptsForPeer(t *testing.T) {
	far, near := net.Pipe()
	defer far.Close()

	c := queuedClient(t, near, 4)
	go c.writePump()
	defer c.CloseAsync()

	require.NoError(t, c.SendPacket(serverpackets.NewSystemMessage(serverpackets.SysMsgCoreEnhanced).AddNumber(3)))

	peer, err := crypto.NewSessionCrypt(testutil.Fixtures.SessionKey)
	require.NoError(t, err)
	require.NoError(t, far.SetReadDeadline(time.Now().Add(2*time.Second)))
	payload, err := protocol.ReadPacket(far, peer, make([]byte, 256))
	require.NoError(t, err)

	assert.Equal(t, byte(serverpackets.OpcodeSystemMessage), payload[0])
	assert.Equal(t, int32(serverpackets.SysMsgCoreEnhanced), int32(binary.LittleEndian.Uint32(payload[1:])))
}

func TestSend_FullQueueDropsClient(t *testing.T) {
	c := queuedClient(t, testutil.NewMockConn(), 1)
	c.sendCh <- []byte{0}

	assert.ErrorIs(t, c.Send([]byte{1}), errSendQueueFull)
	assert.Equal(t, ClientStateDisconnected, c.State())
	assert.ErrorIs(t, c.Send([]byte{2}), errClientClosed)
}

func TestSendSync(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		c := queuedClient(t, testutil.NewMockConn(), 1)
		c.sendCh <- []byte{0}
		assert.Error(t, c.SendSync([]byte{1}, 30*time.Millisecond))
	})

	t.Run("closed while waiting", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			c := queuedClient(t, testutil.NewMockConn(), 1)
			c.sendCh <- []byte{0}
			go func() {
				time.Sleep(10 * time.Millisecond)
				c.CloseAsync()
			}()
			assert.ErrorIs(t, c.SendSync([]byte{1}, time.Minute), errClientClosed)
		})
	})
}

func TestCloseGraceful_FlushesBeforeClose(t *testing.T) {
	conn := testutil.NewMockConn()
	c := queuedClient(t, conn, 8)

	leave, err := (&serverpackets.LeaveWorld{}).Write()
	require.NoError(t, err)
	c.sendCh <- []byte{0xAA}
	c.sendCh <- leave
	go c.writePump()

	require.NoError(t, c.CloseGraceful(2*time.Second))
	<-c.pumpDone

	assert.Equal(t, append([]byte{0xAA}, leave...), conn.Written())
	assert.Equal(t, ClientStateDisconnected, c.State())
}

func TestCloseGraceful_NoPump(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := queuedClient(t, testutil.NewMockConn(), 4)
		assert.NoError(t, c.CloseGraceful(50*time.Millisecond))
		assert.Equal(t, ClientStateDisconnected, c.State())
	})
}

func TestWritePump_Exits(t *testing.T) {
	t.Run("after close drains queue", func(t *testing.T) {
		c := queuedClient(t, testutil.NewMockConn(), 8)
		for range 3 {
			c.sendCh <- []byte{9}
		}
		c.CloseAsync()
		c.CloseAsync()

		waitPump(t, c)
		assert.Empty(t, c.sendCh)
	})

	t.Run("on write error", func(t *testing.T) {
		far, near := net.Pipe()
		far.Close()
		defer near.Close()

		c := queuedClient(t, near, 8)
		c.sendCh <- []byte{1, 2, 3}
		waitPump(t, c)
	})
}

func waitPump(t *testing.T, c *GameClient) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		c.writePump()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writePump still running")
	}
}

func TestWritePump_ConcurrentSenders(t *testing.T) {
	far, near := net.Pipe()
	defer far.Close()

	c := queuedClient(t, near, 1024)
	go c.writePump()
	defer c.CloseAsync()

	const senders, each = 8, 50
	var wg sync.WaitGroup
	for range senders {
		wg.Go(func() {
			for range each {
				assert.NoError(t, c.Send([]byte{0xC0, 0xDE}))
			}
		})
	}
	wg.Wait()

	got := readN(t, far, senders*each*2)
	assert.Equal(t, bytes.Repeat([]byte{0xC0, 0xDE}, senders*each), got)
}

func TestEncryptToPooled(t *testing.T) {
	pool := NewBytePool(128)
	a, err := crypto.NewSessionCrypt(testutil.Fixtures.SessionKey)
	require.NoError(t, err)
	otherKey := bytes.Repeat([]byte{0x5A}, constants.BlowfishKeySize)
	b, err := crypto.NewSessionCrypt(otherKey)
	require.NoError(t, err)

	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frameA, err := pool.EncryptToPooled(a, payload, len(payload))
	require.NoError(t, err)
	defer pool.Put(frameA)
	frameB, err := pool.EncryptToPooled(b, payload, len(payload))
	require.NoError(t, err)
	defer pool.Put(frameB)

	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, payload, "payload is encrypted into a copy")
	assert.Len(t, frameA, constants.PacketHeaderSize+8)
	assert.NotEqual(t, frameA, frameB)

	got, err := protocol.ReadPacket(bytes.NewReader(frameA), a, make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, payload, got[:len(payload)])
}
