// Package engine evaluates part scripts. A script is a small Lisp program,
// run by zygomys in a sandbox, that builds solids with the geometry kernel
// and declares the part or assembly document the drawing is made from.
package engine

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/drafter/pkg/kernel"
	"github.com/chazu/drafter/pkg/model"
)

// EvalError is a non-fatal error in the script itself, such as a parse
// error, an unknown symbol or a bad builtin argument.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine evaluates scripts against one kernel. Each call to Load uses a
// fresh sandbox, so scripts cannot see each other's definitions.
type Engine struct {
	kernel kernel.Kernel

	mu         sync.Mutex
	generation uint64
}

// New returns an engine building geometry with k.
func New(k kernel.Kernel) *Engine {
	return &Engine{kernel: k}
}

// Load evaluates source and returns the active document: the last part or
// assembly the script declared.
//
//   - On success: handle, nil, nil
//   - On a script error: nil, eval errors, nil
//   - On timeout or panic: nil, nil, error
func (e *Engine) Load(source string) (*model.Handle, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		h, evalErrs := e.evaluate(source)
		ch <- evalResult{handle: h, errors: evalErrs}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// LoadFile reads and evaluates the script at path.
func (e *Engine) LoadFile(path string) (*model.Handle, []EvalError, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model script: %w", err)
	}
	return e.Load(string(src))
}

func (e *Engine) evaluate(source string) (*model.Handle, []EvalError) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: errNoDocument}}
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sc := newScene(e.kernel)
	registerBuiltins(env, sc)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}
	if sc.active == nil {
		return nil, []EvalError{{Message: errNoDocument}}
	}
	return sc.active, nil
}

const errNoDocument = "script declares no part or assembly (use defpart or assembly)"

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches "line N: ..." at the start of a message.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError extracts a line number from a zygomys error where it
// carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
