package clientpackets

const (
	// OpcodeLogout is the opcode for Logout packet (C2S 0x09)
	OpcodeLogout = 0x09
)

// Logout asks the server to checkpoint progression and close the session.
// Packet has no payload.
type Logout struct{}

// ParseLogout parses Logout packet from raw bytes.
func ParseLogout(data []byte) (*Logout, error) {
	return &Logout{}, nil
}

// Write serializes Logout (client side).
func (p *Logout) Write() []byte {
	return []byte{OpcodeLogout}
}
