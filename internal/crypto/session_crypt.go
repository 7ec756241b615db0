package crypto

import (
	"crypto/rand"
	"fmt"
)

// SessionKeySize — длина ключа сессии в байтах (128 бит).
const SessionKeySize = 16

// SessionCrypt шифрует кадры одной сессии: XOR-checksum, выравнивание до 8
// байт, затем Blowfish ECB ключом сессии. Ключ передаётся клиенту открытым
// кадром KeyInit, после него все кадры в обе стороны зашифрованы.
type SessionCrypt struct {
	cipher *BlowfishCipher
}

// NewSessionCrypt creates a SessionCrypt for the given session key.
func NewSessionCrypt(key []byte) (*SessionCrypt, error) {
	if len(key) != SessionKeySize {
		return nil, fmt.Errorf("session key must be %d bytes, got %d", SessionKeySize, len(key))
	}
	c, err := NewBlowfishCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating session cipher: %w", err)
	}
	return &SessionCrypt{cipher: c}, nil
}

// EncryptedSize returns the on-wire size of a payload of n bytes.
func EncryptedSize(n int) int {
	size := n + 4
	if size%BlockSize != 0 {
		size += BlockSize - size%BlockSize
	}
	return size
}

// EncryptPacket encrypts data[offset:offset+size] in-place.
// The buffer must have room for the checksum and padding.
// Returns the number of bytes to send.
func (s *SessionCrypt) EncryptPacket(data []byte, offset, size int) (int, error) {
	encSize := EncryptedSize(size)
	if offset+encSize > len(data) {
		return 0, fmt.Errorf("encrypt packet: buffer too small (need %d, have %d)", offset+encSize, len(data))
	}

	clear(data[offset+size : offset+encSize])
	AppendChecksum(data, offset, encSize)
	if err := s.cipher.Encrypt(data, offset, encSize); err != nil {
		return 0, fmt.Errorf("encrypting packet: %w", err)
	}
	return encSize, nil
}

// DecryptPacket decrypts data[offset:offset+size] in-place.
// Returns true if the checksum is valid.
func (s *SessionCrypt) DecryptPacket(data []byte, offset, size int) (bool, error) {
	if size%BlockSize != 0 {
		return false, fmt.Errorf("decrypt packet: size %d is not multiple of %d", size, BlockSize)
	}
	if err := s.cipher.Decrypt(data, offset, size); err != nil {
		return false, fmt.Errorf("decrypting packet: %w", err)
	}
	return VerifyChecksum(data, offset, size), nil
}

// GenerateSessionKey returns a fresh random session key.
// Нулевые байты заменяются: клиенты хранят ключ как C-строку.
func GenerateSessionKey() ([]byte, error) {
	key := make([]byte, SessionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	for i := range key {
		if key[i] == 0 {
			key[i] = 1
		}
	}
	return key, nil
}
