package prompt

import (
	"context"
	"fmt"
)

// ScriptLiner is a test implementation of Liner that replays a fixed
// sequence of responses and records every request it serves.
type ScriptLiner struct {
	Requests  []Request
	responses []string
	next      int
}

// NewScriptLiner creates a liner that answers prompts from the given
// responses in order.
func NewScriptLiner(responses ...string) *ScriptLiner {
	return &ScriptLiner{responses: responses}
}

// ReadLine implements Liner.
func (s *ScriptLiner) ReadLine(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ErrCancelled
	default:
	}

	s.Requests = append(s.Requests, req)
	if s.next >= len(s.responses) {
		return "", fmt.Errorf("script exhausted at prompt %q", req.Prompt)
	}
	line := s.responses[s.next]
	s.next++
	return line, nil
}

// Close implements Liner.
func (s *ScriptLiner) Close() error {
	return nil
}

// Exhausted reports whether every scripted response was consumed.
func (s *ScriptLiner) Exhausted() bool {
	return s.next == len(s.responses)
}

// Ensure ScriptLiner implements the Liner interface.
var _ Liner = (*ScriptLiner)(nil)
