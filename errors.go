package elan

import "errors"

// Diagnostics raised while running a script. Everything except
// ErrFrameUnderflow is reported and execution continues.
var (
	ErrParseMismatch     = errors.New("parse mismatch")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUndefinedMacro    = errors.New("undefined macro")
	ErrArityMismatch     = errors.New("arity mismatch")
	ErrUnboundReturn     = errors.New("return outside of a call")
	ErrEscapingBreak     = errors.New("break outside of a loop")
	ErrLoopLimit         = errors.New("loop iteration limit exceeded")
	ErrCallDepth         = errors.New("call depth limit exceeded")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUnknownProgram    = errors.New("unknown program")
	ErrArithmetic        = errors.New("arithmetic error")

	// ErrFrameUnderflow is raised (as a panic) when a frame is popped with
	// none active. It means the call protocol is unbalanced.
	ErrFrameUnderflow = errors.New("frame underflow: pop_frame with no active frame")
)
