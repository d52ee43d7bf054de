// Package prompt provides interactive line input with autocompletion and a
// separate input history per prompt category.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

// ErrCancelled is returned when input is canceled by an interrupt or by
// context cancellation. The engine treats it as a checkpoint boundary.
var ErrCancelled = errors.New("input cancelled")

// Kind identifies a prompt category. Each kind keeps its own input history
// so history does not bleed across unrelated prompt types.
type Kind string

// Prompt kinds.
const (
	KindConfirm  Kind = "confirm"
	KindCategory Kind = "category"
	KindPattern  Kind = "pattern"
	KindFormula  Kind = "formula"
	KindFee      Kind = "fee"
)

// Request describes one line request: the prompt text and the candidate list
// offered to autocompletion.
type Request struct {
	Kind       Kind
	Prompt     string
	Candidates []string
}

// Liner requests a line of text from the user. Implementations must return
// the line with surrounding whitespace trimmed, and ErrCancelled when the
// user interrupts.
type Liner interface {
	ReadLine(ctx context.Context, req Request) (string, error)
	Close() error
}

// Readline implements Liner on top of chzyer/readline, one instance per
// prompt kind.
type Readline struct {
	historyDir string
	mu         sync.Mutex
	instances  map[Kind]*readline.Instance
	candidates map[Kind][]string
}

// NewReadline creates a readline-backed liner. historyDir may be empty, in
// which case histories are kept in memory only.
func NewReadline(historyDir string) *Readline {
	return &Readline{
		historyDir: historyDir,
		instances:  make(map[Kind]*readline.Instance),
		candidates: make(map[Kind][]string),
	}
}

func (r *Readline) instance(kind Kind) (*readline.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rl, ok := r.instances[kind]; ok {
		return rl, nil
	}

	cfg := &readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItemDynamic(func(string) []string {
				r.mu.Lock()
				defer r.mu.Unlock()
				return r.candidates[kind]
			}),
		),
	}
	if r.historyDir != "" {
		cfg.HistoryFile = filepath.Join(r.historyDir, fmt.Sprintf("history-%s", kind))
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	r.instances[kind] = rl
	return rl, nil
}

// ReadLine implements Liner. The read itself runs in a goroutine so context
// cancellation can abort the prompt; on cancellation the goroutine is left
// to finish on its own, as the process is terminating anyway.
func (r *Readline) ReadLine(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrCancelled
	default:
	}

	rl, err := r.instance(req.Kind)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.candidates[req.Kind] = req.Candidates
	r.mu.Unlock()

	rl.SetPrompt(FormatPrompt(req.Prompt))

	type result struct {
		line string
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		line, readErr := rl.Readline()
		resultCh <- result{line: line, err: readErr}
	}()

	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case res := <-resultCh:
		if res.err != nil {
			if errors.Is(res.err, readline.ErrInterrupt) || errors.Is(res.err, io.EOF) {
				return "", ErrCancelled
			}
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// Close releases all readline instances.
func (r *Readline) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, rl := range r.instances {
		if err := rl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.instances = make(map[Kind]*readline.Instance)
	return firstErr
}
