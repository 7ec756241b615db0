package constants

// Кадр: [длина uint16 LE, включая заголовок][payload].
// Всё после KeyInit: payload + checksum(4), выровнено до 8 и зашифровано Blowfish.

// ProtocolRevision is sent in KeyInit; clients with another revision hang up.
const ProtocolRevision = 0x0001

// BlowfishKeySize — длина сессионного ключа, 128 бит.
const BlowfishKeySize = 16

const (
	PacketHeaderSize    = 2      // uint16 длина кадра
	PacketBufferPadding = 16     // запас под checksum и выравнивание
	MaxPacketSize       = 0xFFFF // предел uint16 заголовка
)

// Размеры буферов соединения по умолчанию.
const (
	DefaultSendBufSize = 1024
	DefaultReadBufSize = 1024
)
