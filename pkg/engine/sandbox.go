package engine

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// errSandboxWedged is returned to callers queued behind a program that
// exceeded its timeout and is still running.
var errSandboxWedged = errors.New("sandbox held by a program that exceeded its timeout")

// sandboxGate serializes zygomys sandboxes across engines; zygomys keeps
// interpreter state in package globals. A program cannot be interrupted,
// so once its holder is abandoned, waiters fail until it finishes.
type sandboxGate struct {
	slot chan struct{}

	mu        sync.Mutex
	next      uint64
	holder    uint64
	abandoned chan struct{} // closed while the holder is abandoned
}

func newSandboxGate() *sandboxGate {
	return &sandboxGate{
		slot:      make(chan struct{}, 1),
		abandoned: make(chan struct{}),
	}
}

var sandbox = newSandboxGate()

// acquire waits for the sandbox and returns a token identifying this hold.
func (g *sandboxGate) acquire(ctx context.Context) (uint64, error) {
	g.mu.Lock()
	abandoned := g.abandoned
	g.mu.Unlock()

	select {
	case g.slot <- struct{}{}:
		return g.take(), nil
	case <-abandoned:
		// The holder may have finished in the meantime.
		select {
		case g.slot <- struct{}{}:
			return g.take(), nil
		default:
			return 0, errSandboxWedged
		}
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (g *sandboxGate) take() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.holder = g.next
	return g.holder
}

func (g *sandboxGate) release(token uint64) {
	g.mu.Lock()
	if g.holder == token {
		g.holder = 0
		select {
		case <-g.abandoned:
			g.abandoned = make(chan struct{})
		default:
		}
	}
	g.mu.Unlock()
	<-g.slot
}

// abandon marks the hold identified by token as timed out. It does nothing
// if that hold has already been released.
func (g *sandboxGate) abandon(token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == 0 || g.holder != token {
		return
	}
	select {
	case <-g.abandoned:
	default:
		close(g.abandoned)
	}
}
