package packet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

// ErrShortPacket is returned when a payload ends before a field does.
var ErrShortPacket = errors.New("packet too short")

// Reader читает payload кадра. Все многобайтовые значения little-endian.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new packet reader.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int, op string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%s: negative count %d", op, n)
	}
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%s: need %d at pos=%d, len=%d: %w", op, n, r.pos, len(r.data), ErrShortPacket)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.take(1, "ReadByte")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads a byte and reports whether it is non-zero.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// ReadShort reads an int16.
func (r *Reader) ReadShort() (int16, error) {
	b, err := r.take(2, "ReadShort")
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

// ReadInt reads an int32.
func (r *Reader) ReadInt() (int32, error) {
	b, err := r.take(4, "ReadInt")
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadString reads a null-terminated UTF-16LE string.
func (r *Reader) ReadString() (string, error) {
	var units []uint16
	for {
		b, err := r.take(2, "ReadString")
		if err != nil {
			return "", err
		}
		u := binary.LittleEndian.Uint16(b)
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// ReadBytes reads n bytes. The returned slice shares memory with the payload.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.take(n, "ReadBytes")
}

// ReadBytesCopy reads n bytes into a fresh slice.
func (r *Reader) ReadBytesCopy(n int) ([]byte, error) {
	b, err := r.take(n, "ReadBytesCopy")
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}
