package ws

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeConn struct {
	sent    [][]byte
	failing bool
	closed  bool
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	if f.failing {
		return errors.New("broken pipe")
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func newTestRegistry() *Registry {
	return NewRegistry(time.Second, zap.NewNop())
}

func TestAddReplacesAndClosesStale(t *testing.T) {
	r := newTestRegistry()
	first := &fakeConn{}
	second := &fakeConn{}

	r.Add("bob", first)
	r.Add("bob", second)

	assert.True(t, first.closed, "stale connection must be closed, not leaked")
	assert.False(t, second.closed)
	assert.Equal(t, 1, r.Count())

	r.Unicast("bob", Invalidate)
	assert.Empty(t, first.sent)
	assert.Equal(t, [][]byte{Invalidate}, second.sent)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	r := newTestRegistry()
	r.Remove("ghost") // must not panic
	assert.Equal(t, 0, r.Count())
}

func TestRemoveClosesConnection(t *testing.T) {
	r := newTestRegistry()
	c := &fakeConn{}
	r.Add("bob", c)
	r.Remove("bob")

	assert.True(t, c.closed)
	assert.Equal(t, 0, r.Count())
}

func TestRemoveConnIgnoresReplacedConnection(t *testing.T) {
	r := newTestRegistry()
	first := &fakeConn{}
	second := &fakeConn{}
	r.Add("bob", first)
	r.Add("bob", second)

	// The old read loop exits and tries to clean up; the new connection
	// must survive.
	r.RemoveConn("bob", first)
	assert.Equal(t, 1, r.Count())

	r.RemoveConn("bob", second)
	assert.Equal(t, 0, r.Count())
	assert.True(t, second.closed)
}

func TestBroadcastIsolatesFailures(t *testing.T) {
	r := newTestRegistry()
	ok1 := &fakeConn{}
	bad := &fakeConn{failing: true}
	ok2 := &fakeConn{}
	r.Add("a", ok1)
	r.Add("b", bad)
	r.Add("c", ok2)

	r.Broadcast(Invalidate)

	assert.Equal(t, [][]byte{Invalidate}, ok1.sent, "failure on b must not stop a")
	assert.Equal(t, [][]byte{Invalidate}, ok2.sent, "failure on b must not stop c")
}

func TestUnicastAbsentIsNoOp(t *testing.T) {
	r := newTestRegistry()
	r.Unicast("ghost", Invalidate) // must not panic or block
}
