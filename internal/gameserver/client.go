package gameserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/corebank/internal/crypto"
)

// Default write queue / timeout constants.
// Overridden by config values when available.
const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
	defaultReadTimeout   = 120 * time.Second
)

var (
	errSendQueueFull = errors.New("send queue full")
	errClientClosed  = errors.New("client closed")
)

// serverPacket is implemented by every serverpackets type.
type serverPacket interface {
	Write() ([]byte, error)
}

// GameClient represents a single client connection.
type GameClient struct {
	conn       net.Conn
	ip         string
	encryption *crypto.SessionCrypt

	// state использует atomic.Int32 для lock-free reads в hot path
	state atomic.Int32

	// markedForDisconnection: закрыть соединение после отправки текущего ответа (Logout)
	markedForDisconnection atomic.Bool

	// mu защищает только session (меняется на EnterWorld и disconnect)
	mu      sync.Mutex
	session *Session

	// Per-client write queue: encrypted frames from a shared pool.
	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	// drainCh просит writePump дописать очередь и выйти (Logout)
	drainCh   chan struct{}
	drainOnce sync.Once
	pumpDone  chan struct{}

	writePool    *BytePool     // shared pool for returning buffers after write
	writeTimeout time.Duration // per-write deadline
}

// NewGameClient creates a new client state for the given connection and session key.
func NewGameClient(conn net.Conn, sessionKey []byte, writePool *BytePool, sendQueueSize int, writeTimeout time.Duration) (*GameClient, error) {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return nil, fmt.Errorf("splitting host port: %w", err)
	}

	enc, err := crypto.NewSessionCrypt(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("creating session encryption: %w", err)
	}

	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	if writePool == nil {
		writePool = NewBytePool(512)
	}

	client := &GameClient{
		conn:         conn,
		ip:           host,
		encryption:   enc,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		drainCh:      make(chan struct{}),
		pumpDone:     make(chan struct{}),
		writePool:    writePool,
		writeTimeout: writeTimeout,
	}
	client.state.Store(int32(ClientStateConnected))
	return client, nil
}

// Conn returns the underlying network connection.
func (c *GameClient) Conn() net.Conn {
	return c.conn
}

// IP returns the client's remote IP address.
func (c *GameClient) IP() string {
	return c.ip
}

// Encryption returns the session cipher.
func (c *GameClient) Encryption() *crypto.SessionCrypt {
	return c.encryption
}

// State returns the current connection state.
func (c *GameClient) State() ClientConnectionState {
	return ClientConnectionState(c.state.Load())
}

// SetState sets the connection state.
func (c *GameClient) SetState(s ClientConnectionState) {
	c.state.Store(int32(s))
}

// Session returns the player session (nil before EnterWorld).
func (c *GameClient) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetSession attaches the player session.
func (c *GameClient) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// takeSession detaches and returns the session; later calls return nil.
func (c *GameClient) takeSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	c.session = nil
	return s
}

// SendPacket serializes, encrypts and queues pkt. Non-blocking.
func (c *GameClient) SendPacket(pkt serverPacket) error {
	data, err := pkt.Write()
	if err != nil {
		return fmt.Errorf("serializing packet: %w", err)
	}
	frame, err := c.writePool.EncryptToPooled(c.encryption, data, len(data))
	if err != nil {
		return err
	}
	return c.Send(frame)
}

// writePump is a dedicated writer goroutine for this client.
// Reads encrypted frames from sendCh and writes them to conn.
// Uses net.Buffers (writev syscall) for batching and pool.Put for buffer return.
func (c *GameClient) writePump() {
	bufs := make(net.Buffers, 0, 64)
	poolBufs := make([][]byte, 0, 64)

	defer close(c.pumpDone)
	defer func() {
		// Drain remaining packets and return to pool
		for {
			select {
			case pkt := <-c.sendCh:
				c.writePool.Put(pkt)
			default:
				return
			}
		}
	}()

	for {
		select {
		case pkt, ok := <-c.sendCh:
			if !ok {
				return
			}

			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				slog.Warn("set write deadline failed", "client", c.ip, "error", err)
				c.writePool.Put(pkt)
				return
			}

			// Batching: drain all queued packets
			queued := len(c.sendCh)
			if queued == 0 {
				_, err := c.conn.Write(pkt)
				c.writePool.Put(pkt)
				if err != nil {
					slog.Warn("write failed", "client", c.ip, "error", err)
					return
				}
				continue
			}

			bufs = bufs[:0]
			poolBufs = poolBufs[:0]
			bufs = append(bufs, pkt)
			poolBufs = append(poolBufs, pkt)
			for range queued {
				p := <-c.sendCh
				bufs = append(bufs, p)
				poolBufs = append(poolBufs, p)
			}

			_, err := bufs.WriteTo(c.conn)

			// ALWAYS return buffers to pool (even on error)
			for _, b := range poolBufs {
				c.writePool.Put(b)
			}
			if err != nil {
				slog.Warn("batch write failed", "client", c.ip, "error", err)
				return
			}

		case <-c.drainCh:
			c.flushQueue()
			return

		case <-c.closeCh:
			return
		}
	}
}

// flushQueue writes whatever is queued right now, best effort.
func (c *GameClient) flushQueue() {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return
	}
	for {
		select {
		case pkt := <-c.sendCh:
			_, err := c.conn.Write(pkt)
			c.writePool.Put(pkt)
			if err != nil {
				slog.Debug("flush write failed", "client", c.ip, "error", err)
				return
			}
		default:
			return
		}
	}
}

// Send queues an encrypted frame for async delivery.
// Non-blocking: a full queue means a slow client, which is disconnected.
// OWNERSHIP: takes ownership of frame (pool buffer).
func (c *GameClient) Send(frame []byte) error {
	select {
	case <-c.closeCh:
		c.writePool.Put(frame)
		return errClientClosed
	default:
	}

	select {
	case c.sendCh <- frame:
		return nil
	default:
		c.writePool.Put(frame)
		slog.Warn("send queue full, disconnecting slow client", "client", c.ip)
		c.CloseAsync()
		return errSendQueueFull
	}
}

// SendSync queues a frame and blocks until accepted or timeout.
// Used for handler responses that MUST be delivered.
// OWNERSHIP: takes ownership of frame.
func (c *GameClient) SendSync(frame []byte, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c.sendCh <- frame:
		return nil
	case <-timer.C:
		c.writePool.Put(frame)
		return fmt.Errorf("send timeout after %v", timeout)
	case <-c.closeCh:
		c.writePool.Put(frame)
		return errClientClosed
	}
}

// CloseAsync signals the writePump to stop without blocking.
// Safe to call multiple times.
func (c *GameClient) CloseAsync() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(ClientStateDisconnected))
		close(c.closeCh)
	})
}

// CloseGraceful lets the writePump flush queued frames (at most timeout),
// then closes the connection.
func (c *GameClient) CloseGraceful(timeout time.Duration) error {
	c.drainOnce.Do(func() { close(c.drainCh) })
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.pumpDone:
	case <-timer.C:
	}
	return c.Close()
}

// Close closes the connection and stops the writePump.
func (c *GameClient) Close() error {
	c.CloseAsync()
	return c.conn.Close()
}

// MarkForDisconnection marks client for disconnection after the current response.
func (c *GameClient) MarkForDisconnection() {
	c.markedForDisconnection.Store(true)
}

// IsMarkedForDisconnection returns true if client is marked for disconnection.
func (c *GameClient) IsMarkedForDisconnection() bool {
	return c.markedForDisconnection.Load()
}
