package serverpackets

import "github.com/udisondev/corebank/internal/gameserver/packet"

// OpcodeLeaveWorld is the S2C opcode 0x7E.
const OpcodeLeaveWorld byte = 0x7E

// LeaveWorld confirms Logout; the server closes the connection after it.
// Progress is already saved when the client receives it.
type LeaveWorld struct{}

// Write serializes the LeaveWorld packet to bytes.
func (p *LeaveWorld) Write() ([]byte, error) {
	w := packet.NewWriter(1)
	if err := w.WriteByte(OpcodeLeaveWorld); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
