package testutil

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/udisondev/corebank/internal/constants"
	"github.com/udisondev/corebank/internal/crypto"
	"github.com/udisondev/corebank/internal/gameserver/serverpackets"
	"github.com/udisondev/corebank/internal/protocol"
)

// GameClient is a test helper for connecting to the core server.
// Reads the plaintext KeyInit and encrypts everything after it.
type GameClient struct {
	t          testing.TB
	conn       net.Conn
	encryption *crypto.SessionCrypt
	key        []byte
}

// NewGameClient connects to the server and reads the KeyInit.
func NewGameClient(t testing.TB, addr string) (*GameClient, error) {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	conn = withDeadline(conn, 5*time.Second)

	client := &GameClient{t: t, conn: conn}
	if err := client.readKeyInit(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading KeyInit: %w", err)
	}
	return client, nil
}

func (c *GameClient) readKeyInit() error {
	buf := make([]byte, 64)
	payload, err := protocol.ReadFrame(c.conn, buf)
	if err != nil {
		return err
	}
	key, err := serverpackets.ParseKeyInit(payload)
	if err != nil {
		return err
	}
	if key.Revision != constants.ProtocolRevision {
		return fmt.Errorf("protocol revision 0x%04X, want 0x%04X", key.Revision, constants.ProtocolRevision)
	}

	enc, err := crypto.NewSessionCrypt(key.Key)
	if err != nil {
		return fmt.Errorf("creating encryption: %w", err)
	}
	c.encryption = enc
	c.key = key.Key
	return nil
}

// Send encrypts payload (opcode included) and writes it as one frame.
func (c *GameClient) Send(payload []byte) error {
	buf := make([]byte, constants.PacketHeaderSize+len(payload)+constants.PacketBufferPadding)
	copy(buf[constants.PacketHeaderSize:], payload)
	return protocol.WritePacket(c.conn, c.encryption, buf, len(payload))
}

// ReadPacket reads and decrypts the next packet. The result is a fresh slice.
func (c *GameClient) ReadPacket() ([]byte, error) {
	buf := make([]byte, constants.MaxPacketSize)
	payload, err := protocol.ReadPacket(c.conn, c.encryption, buf)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// ReadPacketWithOpcode skips packets until one starts with expectedOpcode.
// For 0xFE packets pass the sub-opcode too; other packets ignore it.
func (c *GameClient) ReadPacketWithOpcode(expectedOpcode byte, subOpcode ...int16) ([]byte, error) {
	for range 256 {
		data, err := c.ReadPacket()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 || data[0] != expectedOpcode {
			continue
		}
		if len(subOpcode) > 0 {
			if len(data) < 3 || int16(uint16(data[1])|uint16(data[2])<<8) != subOpcode[0] {
				continue
			}
		}
		return data, nil
	}
	return nil, fmt.Errorf("opcode 0x%02X not received", expectedOpcode)
}

// Close closes the connection.
func (c *GameClient) Close() error {
	return c.conn.Close()
}

// SessionKey returns the key received in KeyInit.
func (c *GameClient) SessionKey() []byte {
	return c.key
}
