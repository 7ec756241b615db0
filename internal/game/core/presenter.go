package core

// NoticeKind is the type of a user-facing notice.
type NoticeKind uint8

const (
	NoticeRestored NoticeKind = iota + 1 // core equipped with a stored level > 0
	NoticeLevelUp                        // enhance succeeded
	NoticeRejected                       // operation refused, Err says why
)

// Notice is a user-facing message about a slot operation.
type Notice struct {
	Kind  NoticeKind
	Slot  int
	Core  CoreType
	Level int32
	Err   error
}

// Presenter receives effect intents and notices.
// Calls are fire-and-forget; the core never waits on or inspects results.
type Presenter interface {
	Present(e Effect)
	Notify(n Notice)
}

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) Present(Effect) {}
func (NopPresenter) Notify(Notice)  {}
