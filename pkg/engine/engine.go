// Package engine provides the Lisp evaluation engine for geomkit.
// It wraps zygomys in a sandboxed environment and produces a scene.Scene
// from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/geomkit/pkg/scene"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code, or a blocking
// validation finding.
type EvalError struct {
	Line    int          `json:"line,omitempty" yaml:"line,omitempty"`
	Col     int          `json:"col,omitempty" yaml:"col,omitempty"`
	Message string       `json:"message" yaml:"message"`
	NodeID  scene.NodeID `json:"node_id,omitzero" yaml:"node_id,omitempty"`
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int          `json:"line,omitempty" yaml:"line,omitempty"`
	Col     int          `json:"col,omitempty" yaml:"col,omitempty"`
	Message string       `json:"message" yaml:"message"`
	NodeID  scene.NodeID `json:"node_id,omitzero" yaml:"node_id,omitempty"`
}

// EvalResult bundles the full output of an evaluation and its validation.
type EvalResult struct {
	Scene    *scene.Scene
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for geomkit evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism. A newer call supersedes any
// evaluation still in flight on the same Engine, so callers evaluating
// independent programs in parallel should use one Engine each.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	opts       options
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{opts: defaultOptions()}
	for _, opt := range opts {
		opt(&e.opts)
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Scene.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns scene + nil errors + nil error
//   - On parse/eval failure: returns nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic, cancellation): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*scene.Scene, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with cancellation. The sandbox cannot be
// interrupted; on cancellation its result is discarded when it completes.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*scene.Scene, []EvalError, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	start := time.Now()
	ch := make(chan evalResult, 1)
	started := make(chan uint64, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(ctx, source, started)
		ch <- evalResult{scene: s, errors: evalErrs, err: err}
	}()

	w := evalWait{results: ch, started: started, gen: gen, timeout: e.opts.timeout}
	s, evalErrs, err := waitWithTimeout(ctx, w, &e.mu, &e.generation)
	observeEvaluation(start, evalErrs, err)
	return s, evalErrs, err
}

// EvaluateAll evaluates source and validates the resulting scene. Blocking
// validation findings are returned as EvalErrors alongside the scene;
// advisory findings become EvalWarnings. Only fatal failures produce an error.
func (e *Engine) EvaluateAll(ctx context.Context, source string) (EvalResult, error) {
	s, evalErrs, err := e.EvaluateContext(ctx, source)
	if err != nil {
		return EvalResult{}, err
	}
	if len(evalErrs) > 0 {
		return EvalResult{Errors: evalErrs}, nil
	}

	result := EvalResult{Scene: s}
	vr := scene.ValidateAll(s)
	for _, ve := range vr.Errors {
		result.Errors = append(result.Errors, EvalError{Message: ve.Message, NodeID: ve.NodeID})
	}
	for _, vw := range vr.Warnings {
		result.Warnings = append(result.Warnings, EvalWarning{Message: vw.Message, NodeID: vw.NodeID})
	}
	return result, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox. The
// sandbox token is sent on started once the program begins to run.
func (e *Engine) evaluate(ctx context.Context, source string, started chan<- uint64) (*scene.Scene, []EvalError, error) {
	s := scene.New()
	s.Epsilon = e.opts.epsilon

	// Empty source is a valid program that produces an empty scene.
	if strings.TrimSpace(source) == "" {
		return s, nil, nil
	}

	src, kwErrs := preprocessSource(source)
	if len(kwErrs) > 0 {
		return nil, kwErrs, nil
	}

	token, err := sandbox.acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluation not started: %w", err)
	}
	defer sandbox.release(token)
	started <- token

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, newBuilder(s))

	err = env.LoadString(src)
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	_, err = env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	return s, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
