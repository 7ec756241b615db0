package crypto

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// BlockSize — размер блока Blowfish.
const BlockSize = blowfish.BlockSize

// BlowfishCipher шифрует кадры сессии блоками ECB in-place.
type BlowfishCipher struct {
	cipher *blowfish.Cipher
}

// NewBlowfishCipher creates a cipher for key (4..56 bytes).
func NewBlowfishCipher(key []byte) (*BlowfishCipher, error) {
	c, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating blowfish cipher: %w", err)
	}
	return &BlowfishCipher{cipher: c}, nil
}

// Encrypt encrypts data[offset:offset+size]; size must be a multiple of BlockSize.
func (b *BlowfishCipher) Encrypt(data []byte, offset, size int) error {
	return eachBlock("encrypt", data, offset, size, b.cipher.Encrypt)
}

// Decrypt is the inverse of Encrypt.
func (b *BlowfishCipher) Decrypt(data []byte, offset, size int) error {
	return eachBlock("decrypt", data, offset, size, b.cipher.Decrypt)
}

func eachBlock(op string, data []byte, offset, size int, fn func(dst, src []byte)) error {
	if size%BlockSize != 0 {
		return fmt.Errorf("blowfish %s: size %d not aligned to %d", op, size, BlockSize)
	}
	if offset < 0 || offset+size > len(data) {
		return fmt.Errorf("blowfish %s: range [%d:%d] outside %d bytes", op, offset, offset+size, len(data))
	}
	for i := offset; i < offset+size; i += BlockSize {
		block := data[i : i+BlockSize]
		fn(block, block)
	}
	return nil
}

// AppendChecksum пишет XOR всех предыдущих uint32 слов диапазона в его последние 4 байта.
func AppendChecksum(data []byte, offset, size int) {
	end := offset + size - 4
	binary.LittleEndian.PutUint32(data[end:], xorWords(data[offset:end]))
}

// VerifyChecksum reports whether the words of the range XOR to zero.
func VerifyChecksum(data []byte, offset, size int) bool {
	if size%4 != 0 || size <= 4 {
		return false
	}
	return xorWords(data[offset:offset+size]) == 0
}

func xorWords(b []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(b); i += 4 {
		sum ^= binary.LittleEndian.Uint32(b[i:])
	}
	return sum
}
