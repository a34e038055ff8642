package stream

import (
	"strings"
)

// Reasoning models prefix their output with a delimited internal-thought
// block. The filter buffers tokens until it can tell whether such a block is
// present, suppresses it, and forwards only answer content.
const (
	openDelimiter  = "<think>"
	closeDelimiter = "</think>"

	// If no closing delimiter shows up within this many buffered bytes,
	// assume there is no reasoning block and flush, so short genuine
	// answers are never swallowed.
	maxBufferLen = 512
)

type state int

const (
	stateBuffering state = iota // undecided: collecting the head of the stream
	stateDiscarding             // inside a reasoning block
	stateEmitting               // past the block (or there was none)
)

// ReasoningFilter is a small per-stream state machine. Feed it raw tokens in
// arrival order; it returns the text that may be forwarded to the client.
// Not safe for concurrent use; one filter per stream.
type ReasoningFilter struct {
	state  state
	buffer strings.Builder
}

func NewReasoningFilter() *ReasoningFilter {
	return &ReasoningFilter{state: stateBuffering}
}

// Write consumes one token and returns the forwardable portion (possibly
// empty while the head of the stream is still being classified).
func (f *ReasoningFilter) Write(token string) string {
	switch f.state {
	case stateEmitting:
		return token

	case stateDiscarding:
		f.buffer.WriteString(token)
		buffered := f.buffer.String()
		if idx := strings.Index(buffered, closeDelimiter); idx >= 0 {
			f.state = stateEmitting
			f.buffer.Reset()
			return strings.TrimLeft(buffered[idx+len(closeDelimiter):], " \n")
		}
		return ""

	default: // stateBuffering
		f.buffer.WriteString(token)
		buffered := f.buffer.String()
		trimmed := strings.TrimLeft(buffered, " \n")

		if strings.HasPrefix(trimmed, openDelimiter) {
			f.state = stateDiscarding
			return f.Write("") // re-check for a close delimiter already buffered
		}

		// The head can no longer be an opening delimiter, or the buffer
		// grew past the bound: no reasoning block, flush everything.
		if !strings.HasPrefix(openDelimiter, trimmed) {
			f.state = stateEmitting
			f.buffer.Reset()
			return buffered
		}
		if f.buffer.Len() > maxBufferLen {
			f.state = stateEmitting
			f.buffer.Reset()
			return buffered
		}
		return ""
	}
}

// Flush returns whatever is still buffered at end of stream. A stream that
// ended while discarding an unterminated reasoning block flushes its buffer
// too, minus the opening delimiter, so content is never silently dropped.
func (f *ReasoningFilter) Flush() string {
	buffered := f.buffer.String()
	f.buffer.Reset()

	if f.state == stateDiscarding {
		trimmed := strings.TrimLeft(buffered, " \n")
		return strings.TrimPrefix(trimmed, openDelimiter)
	}
	f.state = stateEmitting
	return buffered
}
