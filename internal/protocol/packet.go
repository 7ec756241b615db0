package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/udisondev/corebank/internal/constants"
)

// ErrChecksum is returned when a decrypted frame fails checksum verification.
var ErrChecksum = errors.New("packet checksum verification failed")

// Crypt шифрует и расшифровывает payload кадра на месте.
// Реализуется crypto.SessionCrypt.
type Crypt interface {
	EncryptPacket(data []byte, offset, size int) (int, error)
	DecryptPacket(data []byte, offset, size int) (bool, error)
}

// EncryptInPlace encrypts the payload at buf[PacketHeaderSize:PacketHeaderSize+payloadLen]
// and writes the length header. Returns the total frame length.
func EncryptInPlace(enc Crypt, buf []byte, payloadLen int) (int, error) {
	needed := constants.PacketHeaderSize + payloadLen + constants.PacketBufferPadding
	if len(buf) < needed {
		return 0, fmt.Errorf("encrypt packet: buffer too small (need %d, have %d)", needed, len(buf))
	}

	encSize, err := enc.EncryptPacket(buf, constants.PacketHeaderSize, payloadLen)
	if err != nil {
		return 0, fmt.Errorf("encrypting packet: %w", err)
	}

	totalLen := constants.PacketHeaderSize + encSize
	if totalLen > constants.MaxPacketSize {
		return 0, fmt.Errorf("encrypt packet: frame length %d exceeds %d", totalLen, constants.MaxPacketSize)
	}
	binary.LittleEndian.PutUint16(buf[:constants.PacketHeaderSize], uint16(totalLen))
	return totalLen, nil
}

// WritePacket encrypts payload in-place and writes the packet to w.
// Precondition: payload lives at buf[constants.PacketHeaderSize : constants.PacketHeaderSize+payloadLen].
// buf must have enough room for header + payload + encryption padding.
func WritePacket(w io.Writer, enc Crypt, buf []byte, payloadLen int) error {
	totalLen, err := EncryptInPlace(enc, buf, payloadLen)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf[:totalLen]); err != nil {
		return fmt.Errorf("writing packet: %w", err)
	}
	return nil
}

// WritePlain writes payload as an unencrypted frame.
// Используется только для KeyInit, до обмена ключом.
func WritePlain(w io.Writer, payload []byte) error {
	totalLen := constants.PacketHeaderSize + len(payload)
	if totalLen > constants.MaxPacketSize {
		return fmt.Errorf("write plain: frame length %d exceeds %d", totalLen, constants.MaxPacketSize)
	}
	frame := make([]byte, totalLen)
	binary.LittleEndian.PutUint16(frame, uint16(totalLen))
	copy(frame[constants.PacketHeaderSize:], payload)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("writing plain packet: %w", err)
	}
	return nil
}

// ReadFrame reads one frame from r into buf without decrypting it.
// Returns a subslice of buf with the payload (without the length header).
func ReadFrame(r io.Reader, buf []byte) ([]byte, error) {
	var header [constants.PacketHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading packet header: %w", err)
	}

	totalLen := int(binary.LittleEndian.Uint16(header[:]))
	if totalLen < constants.PacketHeaderSize {
		return nil, fmt.Errorf("invalid packet length: %d", totalLen)
	}

	payloadLen := totalLen - constants.PacketHeaderSize
	if payloadLen == 0 {
		return nil, fmt.Errorf("empty packet")
	}

	if payloadLen > len(buf) {
		return nil, fmt.Errorf("packet payload %d exceeds buffer size %d", payloadLen, len(buf))
	}

	payload := buf[:payloadLen]
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("reading packet payload: %w", err)
	}
	return payload, nil
}

// ReadPacket reads one packet from r into buf and decrypts it.
// Returns a subslice of buf with the decrypted payload, still including
// checksum and padding bytes at the tail.
func ReadPacket(r io.Reader, enc Crypt, buf []byte) ([]byte, error) {
	payload, err := ReadFrame(r, buf)
	if err != nil {
		return nil, err
	}

	ok, err := enc.DecryptPacket(payload, 0, len(payload))
	if err != nil {
		return nil, fmt.Errorf("decrypting packet: %w", err)
	}
	if !ok {
		return nil, ErrChecksum
	}

	return payload, nil
}
