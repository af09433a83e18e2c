package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/geomkit/pkg/scene"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results through channels.
type evalResult struct {
	scene  *scene.Scene
	errors []EvalError
	err    error
}

// evalWait describes one in-flight evaluation.
type evalWait struct {
	results <-chan evalResult
	started <-chan uint64 // sandbox token, sent when the program starts running
	gen     uint64
	timeout time.Duration
}

// waitWithTimeout waits for the result of evaluation w.gen. The timeout is
// measured from the moment the program takes the sandbox, so time queued
// behind other programs does not count. A stale generation's result is
// discarded.
//
// On timeout the program keeps running; its sandbox hold is abandoned so
// queued evaluations fail instead of waiting on it.
func waitWithTimeout(ctx context.Context, w evalWait, mu *sync.Mutex, currentGen *uint64) (*scene.Scene, []EvalError, error) {
	var (
		deadline <-chan time.Time
		token    uint64
	)
	started := w.started
	for {
		select {
		case token = <-started:
			timer := time.NewTimer(w.timeout)
			defer timer.Stop()
			deadline, started = timer.C, nil

		case res := <-w.results:
			mu.Lock()
			current := *currentGen
			mu.Unlock()

			if w.gen != current {
				return nil, nil, fmt.Errorf("evaluation superseded by newer request")
			}
			return res.scene, res.errors, res.err

		case <-deadline:
			sandbox.abandon(token)
			return nil, nil, fmt.Errorf("evaluation timed out after %s", w.timeout)

		case <-ctx.Done():
			return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
		}
	}
}
