// Completion: 100% - Platform stub complete
//go:build !(linux && amd64)
// +build !linux !amd64

package main

// The native backend targets one instruction set and one calling
// convention. Everywhere else, code generation reports unsupported and
// the optimized-stream interpreter is the execution engine.

const jitSupported = false

func makeExecutable(code []byte) ([]byte, error) {
	return nil, ErrJITUnsupported
}

// Run is never reachable here because Generate refuses to build an
// artifact, but the method keeps callers portable.
func (a *Artifact) Run(t *Tape) error {
	return ErrJITUnsupported
}

// Close releases nothing on platforms without a backend
func (a *Artifact) Close() error {
	return nil
}
