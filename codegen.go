// Completion: 100% - x86-64 code generation complete, checked and unchecked modes
package main

// The code generator walks the optimized instruction stream and emits one
// self-contained x86-64 function. Register roles for the whole body:
//
//	BX  address of the current cell
//	R12 tape base (first cell)
//	R13 tape end (one past the last cell)
//	R15 run context
//	AX, CX scratch
//
// The function is called with the address of a run context block in AX and
// returns nothing; it reports its outcome through the context's status
// field. R14 and X15 belong to the Go runtime and are never touched.
//
// I/O never happens inside generated code. A ',' or '.' parks the program:
// the current cell address and a resume address are saved into the context,
// the status field announces the request, and the function returns. The
// host transfers the byte with ordinary Go I/O and calls the entry again,
// which reloads the registers from the context and jumps to the saved
// resume address. Generated code therefore never blocks in a syscall and
// never calls back into Go.
//
// Layout: the shared exit path and the two fault stubs are emitted first,
// so every branch to them is a backward jump with a known offset. The
// artifact's entry point sits right after the stubs. The only forward
// patches are the per-loop skip jumps, resolved from an explicit stack of
// open loops once each body has been emitted, and the resume addresses of
// the I/O parks.

// Run context field offsets, shared with the invocation layer
const (
	ctxBase   = 0  // uintptr: address of the first cell
	ctxEnd    = 8  // uintptr: one past the last cell
	ctxCur    = 16 // uintptr: current cell address, saved while parked
	ctxResume = 24 // uintptr: code address the next invocation jumps to
	ctxStatus = 32 // int32: Fault or request code, written before returning
)

// Artifact is a generated, directly executable program. It is immutable
// after generation and may be invoked repeatedly, also concurrently, as
// long as every invocation gets its own tape.
type Artifact struct {
	code  []byte // executable mapping, owned until Close
	entry int    // offset of the entry point, past the fault stubs
	body  int    // offset of the first body instruction, the initial resume target
}

// GenOptions selects the bounds-checking policy for a whole artifact.
// Unchecked removes every pointer check from the generated code; moving
// the pointer off the tape is then undefined behavior, accepted by the
// caller in exchange for branch-free moves.
type GenOptions struct {
	Unchecked bool
}

// Generate emits native code for the optimized program and returns an
// executable artifact. Generation cannot fail on a well-formed program;
// the only failures are platform support and memory mapping.
func Generate(prog OptProgram, opts GenOptions) (*Artifact, error) {
	if !jitSupported {
		return nil, ErrJITUnsupported
	}
	g := &generator{checked: !opts.Unchecked}
	entry := g.emitStubs()
	body := g.emitPrologue()
	g.emitBody(prog)
	g.emitEpilogue()
	code, err := makeExecutable(g.out.Bytes())
	if err != nil {
		return nil, err
	}
	return &Artifact{code: code, entry: entry, body: body}, nil
}

type generator struct {
	out     Out
	checked bool
	finish  int // offset of the shared exit path
	under   int // offset of the underflow stub
	over    int // offset of the overflow stub
}

// emitStubs writes the shared exit path and the two fault stubs at the
// front of the buffer and returns the entry offset that follows them.
// The status code is expected in AX.
func (g *generator) emitStubs() int {
	o := &g.out
	g.finish = o.Len()
	o.MovMemReg32(regR15, ctxStatus, regAX)
	o.PopReg(regR15)
	o.PopReg(regR13)
	o.PopReg(regR12)
	o.PopReg(regBX)
	o.PopReg(regBP)
	o.Ret()

	g.under = o.Len()
	o.MovRegImm32(regAX, int32(faultUnderflow))
	o.JmpBackTo(g.finish)

	g.over = o.Len()
	o.MovRegImm32(regAX, int32(faultOverflow))
	o.JmpBackTo(g.finish)

	return o.Len()
}

// emitPrologue saves the registers the artifact uses, loads the tape and
// context registers from the context block and dispatches to the resume
// address. The context address arrives in AX (first integer argument of
// the register-based Go calling convention). Returns the offset right
// after the dispatch, where the body starts; the host points the first
// resume there.
func (g *generator) emitPrologue() int {
	o := &g.out
	o.PushReg(regBP)
	o.MovRegReg64(regBP, regSP)
	o.PushReg(regBX)
	o.PushReg(regR12)
	o.PushReg(regR13)
	o.PushReg(regR15)
	o.MovRegReg64(regR15, regAX)
	o.MovRegMem64(regBX, regR15, ctxCur)
	o.MovRegMem64(regR12, regR15, ctxBase)
	o.MovRegMem64(regR13, regR15, ctxEnd)
	o.JmpMem(regR15, ctxResume)
	return o.Len()
}

// emitEpilogue writes the normal exit: status OK, then the shared path
func (g *generator) emitEpilogue() {
	o := &g.out
	o.XorReg32(regAX)
	o.JmpBackTo(g.finish)
}

// openLoop records one unresolved loop: the offset of its test and the
// patch position of its forward skip branch
type openLoop struct {
	top  int
	skip int
}

// genFrame is one level of the emission walk
type genFrame struct {
	prog OptProgram
	idx  int
}

// emitBody walks the instruction tree iteratively with explicit stacks, so
// arbitrarily deep loop nesting never grows the native call stack.
func (g *generator) emitBody(prog OptProgram) {
	o := &g.out
	frames := []genFrame{{prog: prog}}
	var loops []openLoop
	for len(frames) > 0 {
		f := &frames[len(frames)-1]
		if f.idx >= len(f.prog) {
			frames = frames[:len(frames)-1]
			if len(loops) > 0 && len(frames) > 0 {
				// close the innermost open loop
				l := loops[len(loops)-1]
				loops = loops[:len(loops)-1]
				o.JmpBackTo(l.top)
				o.PatchForward(l.skip)
			}
			continue
		}
		oi := f.prog[f.idx]
		f.idx++
		if oi.Op == OptLoop {
			top := o.Len()
			o.CmpMem8Imm8(regBX, 0, 0)
			skip := o.JumpForward(JumpEqual)
			loops = append(loops, openLoop{top: top, skip: skip})
			frames = append(frames, genFrame{prog: oi.Body})
			continue
		}
		g.emitInstr(oi)
	}
}

// emitInstr emits one non-loop instruction
func (g *generator) emitInstr(oi OptInstr) {
	o := &g.out
	switch oi.Op {
	case OptMove:
		o.AddRegImm(regBX, int32(oi.Delta))
		if g.checked {
			g.emitBoundsCheck(regBX)
		}
	case OptAdd:
		o.AddMem8Imm8(regBX, 0, byte(oi.Delta))
	case OptSetZero:
		o.MovMem8Imm8(regBX, 0, 0)
	case OptIn:
		g.emitPark(statusNeedRead)
	case OptOut:
		g.emitPark(statusNeedWrite)
	case OptFindZero:
		top := o.Len()
		o.CmpMem8Imm8(regBX, 0, 0)
		skip := o.JumpForward(JumpEqual)
		o.AddRegImm(regBX, int32(oi.Delta))
		if g.checked {
			g.emitBoundsCheck(regBX)
		}
		o.JmpBackTo(top)
		o.PatchForward(skip)
	case OptOffsetAdd:
		if g.checked {
			// skip entirely on a zero cell so an out-of-range target can
			// only fault when the loop form would have faulted too
			o.CmpMem8Imm8(regBX, 0, 0)
			skip := o.JumpForward(JumpEqual)
			o.LeaRegMem(regCX, regBX, int32(oi.Off))
			g.emitBoundsCheck(regCX)
			o.MovReg8Mem(regAX, regBX, 0)
			o.AddMem8Reg8(regCX, 0, regAX)
			o.MovMem8Imm8(regBX, 0, 0)
			o.PatchForward(skip)
		} else {
			o.MovReg8Mem(regAX, regBX, 0)
			o.AddMem8Reg8(regBX, int32(oi.Off), regAX)
			o.MovMem8Imm8(regBX, 0, 0)
		}
	}
}

// emitPark writes the I/O handoff: cell pointer out, resume address out,
// request code in AX, then the shared exit path. The host transfers the
// byte and re-enters right after.
func (g *generator) emitPark(req Fault) {
	o := &g.out
	o.MovMemReg64(regR15, ctxCur, regBX)
	resume := o.LeaRegRipForward(regAX)
	o.MovMemReg64(regR15, ctxResume, regAX)
	o.MovRegImm32(regAX, int32(req))
	o.JmpBackTo(g.finish)
	o.PatchForward(resume)
}

// emitBoundsCheck branches to the fault stubs when r leaves the tape
func (g *generator) emitBoundsCheck(r reg) {
	o := &g.out
	o.CmpRegReg64(r, regR12)
	o.JumpBackTo(JumpBelow, g.under)
	o.CmpRegReg64(r, regR13)
	o.JumpBackTo(JumpAboveOrEqual, g.over)
}
