package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/carcass/pkg/cabinet"
)

// EvalTimeout is the default limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult passes evaluation output back from the sandbox goroutine.
type evalResult struct {
	specs  []cabinet.Spec
	errors []EvalError
	err    error
}

// evalFunc evaluates one source in its own sandbox.
type evalFunc func(source string) ([]cabinet.Spec, []EvalError, error)

// evalCall is one evaluation running on its own goroutine. Calls share no
// state, so concurrent evaluations never affect each other.
//
// zygomys cannot interrupt a running program, so a call that is given up
// on keeps its goroutine until the program ends. Such calls are counted
// in the abandoned_evaluations gauge until they finish.
type evalCall struct {
	ch chan evalResult

	mu        sync.Mutex
	finished  bool
	abandoned bool
}

func startEval(fn evalFunc, source string) *evalCall {
	c := &evalCall{ch: make(chan evalResult, 1)}
	go c.run(fn, source)
	return c
}

func (c *evalCall) run(fn evalFunc, source string) {
	var res evalResult
	defer func() {
		if r := recover(); r != nil {
			res = evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
		}
		c.mu.Lock()
		c.finished = true
		if c.abandoned {
			abandonedEvals.Dec()
		}
		c.mu.Unlock()
		c.ch <- res
	}()

	specs, evalErrs, err := fn(source)
	res = evalResult{specs: specs, errors: evalErrs, err: err}
}

// wait returns the call's result, or an error once ctx is done.
func (c *evalCall) wait(ctx context.Context, timeout time.Duration) ([]cabinet.Spec, []EvalError, error) {
	select {
	case res := <-c.ch:
		return res.specs, res.errors, res.err
	case <-ctx.Done():
		c.abandon()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)
		}
		return nil, nil, fmt.Errorf("evaluation canceled: %w", ctx.Err())
	}
}

func (c *evalCall) abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finished && !c.abandoned {
		c.abandoned = true
		abandonedEvals.Inc()
	}
}
