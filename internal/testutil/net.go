package testutil

import (
	"context"
	"net"
	"testing"
	"time"
)

// ListenTCP открывает listener на свободном порту loopback и закрывает его в t.Cleanup.
func ListenTCP(t testing.TB) (net.Listener, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })
	return ln, ln.Addr().String()
}

// deadlineConn продлевает deadline перед каждым Read/Write,
// чтобы зависший сервер валил тест, а не вешал его.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func withDeadline(conn net.Conn, timeout time.Duration) net.Conn {
	return &deadlineConn{Conn: conn, timeout: timeout}
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if err := c.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// ContextWithCancel returns a context cancelled at test end at the latest.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx, cancel
}

// WaitForCleanup опрашивает check каждые 10ms, пока тот не вернёт true или не выйдет timeout.
func WaitForCleanup(t testing.TB, check func() bool, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !check() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
