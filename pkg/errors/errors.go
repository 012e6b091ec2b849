// Package errors provides structured error reporting for the animation
// runtime.
//
// The runtime never returns errors from its public API: a missed
// animation is cosmetic, not a functional defect, so failures degrade to
// no-ops or immediate completion. What this package provides instead is
// the reporting path: caller callbacks and queued tasks that panic are
// recovered, wrapped, and handed to the configured [ErrorHandler] so the
// scheduling loop keeps running.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindCallback indicates a failure inside a caller-supplied update or
	// completion callback.
	KindCallback
	// KindTask indicates a failure inside a queued animation task.
	KindTask
	// KindHost indicates a host capability error.
	KindHost
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindCallback:
		return "callback"
	case KindTask:
		return "task"
	case KindHost:
		return "host"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// PulseError represents a structured error in the animation runtime.
type PulseError struct {
	// Op is the operation that failed (e.g., "tween.OnUpdate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *PulseError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *PulseError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "queue.task").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the animation runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *PulseError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
