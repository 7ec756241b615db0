package testutil

// Fixtures содержит предварительно сгенерированные тестовые данные
// для избежания дублирования в тестах.
var Fixtures = struct {
	// Ключ сессии (16 байт, без нулей)
	SessionKey []byte

	// Тестовый персонаж
	CharacterID int32
	Name        string
}{
	SessionKey: []byte{
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10,
	},
	CharacterID: 4242,
	Name:        "Tester",
}
