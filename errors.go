// Completion: 100% - Error handling complete
package main

import "errors"

// All error conditions are terminal; nothing here is retried internally.
// Parse errors come from the bracket matcher, pointer faults only from
// bounds-checked execution. Unchecked execution turns pointer faults into
// undefined behavior instead of errors, by contract.

var (
	// ErrUnmatchedBegin is returned for a '[' with no matching ']'
	ErrUnmatchedBegin = errors.New("unmatched '['")

	// ErrUnmatchedEnd is returned for a ']' with no matching '['
	ErrUnmatchedEnd = errors.New("unmatched ']'")

	// ErrPointerUnderflow is returned when the tape pointer would move below cell 0
	ErrPointerUnderflow = errors.New("pointer underflow")

	// ErrPointerOverflow is returned when the tape pointer would move past the last cell
	ErrPointerOverflow = errors.New("pointer overflow")

	// ErrJITUnsupported is returned by the code generator on platforms
	// without a native backend
	ErrJITUnsupported = errors.New("native code generation is not supported on this platform")
)

// Fault is the status code generated code stores into the run context
// before returning. faultOK means a normal exit; the two statusNeed values
// are not faults but parked I/O requests, consumed by the invocation loop
// before it resumes the program.
type Fault int32

const (
	faultOK Fault = iota
	faultUnderflow
	faultOverflow
	statusNeedRead
	statusNeedWrite
)

// Err maps a fault code to the corresponding error value
func (f Fault) Err() error {
	switch f {
	case faultOK:
		return nil
	case faultUnderflow:
		return ErrPointerUnderflow
	case faultOverflow:
		return ErrPointerOverflow
	default:
		return errors.New("unknown fault")
	}
}
