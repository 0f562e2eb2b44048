package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/drafter/pkg/model"
)

// EvalTimeout is the hard limit for a single evaluation.
var EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer Load started before this one
// finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

type evalResult struct {
	handle *model.Handle
	errors []EvalError
	err    error
}

// waitWithTimeout waits for ch for at most EvalTimeout. The goroutine
// behind ch may outlive a timeout; its late result is dropped.
func waitWithTimeout(ch <-chan evalResult, gen uint64, mu *sync.Mutex, currentGen *uint64) (*model.Handle, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()
		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.handle, res.errors, res.err
	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
