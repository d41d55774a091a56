// Completion: 100% - Executable memory and invocation complete
//go:build linux && amd64
// +build linux,amd64

package main

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

const jitSupported = true

// jitContext is the run context block handed to generated code. The field
// layout must match the ctx* offsets in codegen.go.
type jitContext struct {
	base   uintptr // address of the first cell
	end    uintptr // one past the last cell
	cur    uintptr // current cell address, written by generated code when parking
	resume uintptr // code address the next invocation jumps to
	status int32   // Fault or request code
}

// makeExecutable copies emitted code into a fresh anonymous mapping and
// flips it from writable to executable. The transition is one-way: no
// writable view of the code exists afterwards.
func makeExecutable(code []byte) ([]byte, error) {
	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, err
	}
	return mem, nil
}

// Run executes the artifact against one tape. Generated code never blocks:
// whenever the program needs a byte of I/O it parks itself and returns,
// the transfer happens here in ordinary Go, and the next invocation
// resumes where it left off. The tape must not be touched by anything
// else for the duration of the call.
func (a *Artifact) Run(t *Tape) error {
	base := uintptr(unsafe.Pointer(&t.cells[0]))
	ctx := &jitContext{
		base:   base,
		end:    base + uintptr(len(t.cells)),
		cur:    base,
		resume: uintptr(unsafe.Pointer(&a.code[a.body])),
	}

	// The entry address, wrapped twice so the func value's word points at
	// the code pointer. Generated code preserves everything the Go calling
	// convention needs, uses well under a hundred bytes of stack and never
	// calls back into Go, so it is safe to run on the calling goroutine's
	// stack.
	entry := unsafe.Pointer(&a.code[a.entry])
	fn := unsafe.Pointer(&entry)
	run := *(*func(*jitContext))(unsafe.Pointer(&fn))

	for {
		run(ctx)
		switch Fault(ctx.status) {
		case statusNeedRead:
			if b, ok := t.readByte(); ok {
				t.cells[ctx.cur-base] = b
			}
		case statusNeedWrite:
			if err := t.writeByte(t.cells[ctx.cur-base]); err != nil {
				return err
			}
		default:
			runtime.KeepAlive(t)
			runtime.KeepAlive(a)
			return Fault(ctx.status).Err()
		}
	}
}

// Close releases the executable mapping. The artifact must not be run
// again afterwards.
func (a *Artifact) Close() error {
	if a.code == nil {
		return nil
	}
	mem := a.code
	a.code = nil
	return unix.Munmap(mem)
}
