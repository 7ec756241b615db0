package gameserver

import (
	"fmt"
	"sync"

	"github.com/udisondev/corebank/internal/constants"
	"github.com/udisondev/corebank/internal/protocol"
)

// BytePool is a pool of reusable []byte buffers.
// Reduces GC pressure by reusing allocations.
type BytePool struct {
	pool sync.Pool
}

// NewBytePool creates a buffer pool with the specified default capacity for new slices.
func NewBytePool(defaultCap int) *BytePool {
	p := &BytePool{}
	p.pool.New = func() any {
		return make([]byte, 0, defaultCap)
	}
	return p
}

// Get returns a zeroed slice of length size, preferably from the pool.
func (p *BytePool) Get(size int) []byte {
	b := p.pool.Get().([]byte)
	if cap(b) < size {
		p.pool.Put(b)
		return make([]byte, size)
	}
	b = b[:size]
	clear(b)
	return b
}

// Put returns the slice to the pool for reuse.
func (p *BytePool) Put(b []byte) {
	if b == nil {
		return
	}
	p.pool.Put(b[:0])
}

// EncryptToPooled copies payload into a pooled buffer and encrypts it into a
// complete frame. OWNERSHIP: the caller must hand the result to GameClient.Send
// or return it with Put.
func (p *BytePool) EncryptToPooled(enc protocol.Crypt, payload []byte, n int) ([]byte, error) {
	buf := p.Get(constants.PacketHeaderSize + n + constants.PacketBufferPadding)
	copy(buf[constants.PacketHeaderSize:], payload[:n])

	total, err := protocol.EncryptInPlace(enc, buf, n)
	if err != nil {
		p.Put(buf)
		return nil, fmt.Errorf("encrypting to pooled buffer: %w", err)
	}
	return buf[:total], nil
}
