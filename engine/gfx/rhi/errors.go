package rhi

import (
	"fmt"
)

// ErrorKind classifies RHI failures.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorBackend
	ErrorData
	ErrorUser
	ErrorUnsupportedFunction
	ErrorNullArgument
	ErrorFileNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "NO ERROR"
	case ErrorBackend:
		return "BACKEND ERROR"
	case ErrorData:
		return "DATA ERROR"
	case ErrorUser:
		return "USER ERROR"
	case ErrorUnsupportedFunction:
		return "UNSUPPORTED FUNCTION"
	case ErrorNullArgument:
		return "NULL ARGUMENT"
	case ErrorFileNotFound:
		return "FILE NOT FOUND"
	}
	return "UNKNOWN ERROR"
}

// Error is a failure reported by an RHI entry point.
type Error struct {
	Function string
	Kind     ErrorKind
	Details  string
}

func (e *Error) Error() string {
	if e.Function == "" {
		return "rhi: " + e.Kind.String()
	}
	if e.Details == "" {
		return fmt.Sprintf("rhi: %s: %s", e.Function, e.Kind)
	}
	return fmt.Sprintf("rhi: %s: %s - %s", e.Function, e.Kind, e.Details)
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrUser) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Function == "" || t.Function == e.Function)
}

// Kind sentinels for errors.Is.
var (
	ErrBackend      = &Error{Kind: ErrorBackend}
	ErrData         = &Error{Kind: ErrorData}
	ErrUser         = &Error{Kind: ErrorUser}
	ErrUnsupported  = &Error{Kind: ErrorUnsupportedFunction}
	ErrNullArg      = &Error{Kind: ErrorNullArgument}
	ErrFileNotFound = &Error{Kind: ErrorFileNotFound}
)

const defaultErrorQueueMax = 20

// ErrorQueue is a bounded FIFO of reported errors.
type ErrorQueue struct {
	items []*Error
	max   int
}

func NewErrorQueue(max int) *ErrorQueue {
	if max <= 0 {
		max = defaultErrorQueueMax
	}
	return &ErrorQueue{items: make([]*Error, 0, max), max: max}
}

// Push appends e. It reports false and drops e when the queue is full.
func (q *ErrorQueue) Push(e *Error) bool {
	if len(q.items) >= q.max {
		return false
	}
	q.items = append(q.items, e)
	return true
}

// Pop removes the oldest error.
func (q *ErrorQueue) Pop() (*Error, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	e := q.items[0]
	copy(q.items, q.items[1:])
	q.items[len(q.items)-1] = nil
	q.items = q.items[:len(q.items)-1]
	return e, true
}

func (q *ErrorQueue) Len() int { return len(q.items) }
func (q *ErrorQueue) Max() int { return q.max }

// SetMax resizes the queue, dropping everything queued.
func (q *ErrorQueue) SetMax(max int) {
	if max <= 0 {
		max = defaultErrorQueueMax
	}
	q.max = max
	q.items = make([]*Error, 0, max)
}

// Drain removes and returns every queued error, oldest first.
func (q *ErrorQueue) Drain() []*Error {
	out := q.items
	q.items = make([]*Error, 0, q.max)
	return out
}
