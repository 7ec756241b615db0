package gameserver

// ClientConnectionState — стадия жизни соединения.
type ClientConnectionState int32

const (
	ClientStateConnected    ClientConnectionState = iota // KeyInit отправлен, ждём EnterWorld
	ClientStateInGame                                    // сессия зарегистрирована и тикает
	ClientStateDisconnected                              // соединение закрыто, прогресс сохраняется
)

func (s ClientConnectionState) String() string {
	names := [...]string{"connected", "in-game", "disconnected"}
	if s < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}
