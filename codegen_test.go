package main

import (
	"bytes"
	"testing"
)

// encoding-level tests: these assert on emitted bytes and run on every
// platform, since emission is pure byte arithmetic

func assertBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if !bytes.Equal(got, want) {
		t.Fatalf("emitted % x, want % x", got, want)
	}
}

func TestMovEncodings(t *testing.T) {
	var o Out
	o.MovRegReg64(regBP, regSP)
	assertBytes(t, o.Bytes(), []byte{0x48, 0x89, 0xE5})

	o = Out{}
	o.MovRegReg64(regR15, regAX)
	assertBytes(t, o.Bytes(), []byte{0x49, 0x89, 0xC7})

	o = Out{}
	o.MovRegMem64(regBX, regR15, ctxCur)
	assertBytes(t, o.Bytes(), []byte{0x49, 0x8B, 0x5F, 0x10})

	o = Out{}
	o.MovRegMem64(regR12, regR15, ctxBase)
	assertBytes(t, o.Bytes(), []byte{0x4D, 0x8B, 0x27})

	o = Out{}
	o.MovRegMem64(regR13, regR15, ctxEnd)
	assertBytes(t, o.Bytes(), []byte{0x4D, 0x8B, 0x6F, 0x08})

	o = Out{}
	o.MovMemReg64(regR15, ctxCur, regBX)
	assertBytes(t, o.Bytes(), []byte{0x49, 0x89, 0x5F, 0x10})

	o = Out{}
	o.MovMemReg32(regR15, ctxStatus, regAX)
	assertBytes(t, o.Bytes(), []byte{0x41, 0x89, 0x47, 0x20})

	o = Out{}
	o.MovMem8Imm8(regBX, 0, 0)
	assertBytes(t, o.Bytes(), []byte{0xC6, 0x03, 0x00})

	o = Out{}
	o.MovReg8Mem(regAX, regBX, 0)
	assertBytes(t, o.Bytes(), []byte{0x8A, 0x03})
}

func TestAddEncodings(t *testing.T) {
	var o Out
	o.AddRegImm(regBX, 1)
	assertBytes(t, o.Bytes(), []byte{0x48, 0x83, 0xC3, 0x01})

	o = Out{}
	o.AddRegImm(regBX, -1)
	assertBytes(t, o.Bytes(), []byte{0x48, 0x83, 0xC3, 0xFF})

	o = Out{}
	o.AddRegImm(regBX, 300)
	assertBytes(t, o.Bytes(), []byte{0x48, 0x81, 0xC3, 0x2C, 0x01, 0x00, 0x00})

	o = Out{}
	o.AddMem8Imm8(regBX, 0, 5)
	assertBytes(t, o.Bytes(), []byte{0x80, 0x03, 0x05})

	o = Out{}
	o.AddMem8Imm8(regBX, 4, 0xFF)
	assertBytes(t, o.Bytes(), []byte{0x80, 0x43, 0x04, 0xFF})

	o = Out{}
	o.AddMem8Reg8(regCX, 0, regAX)
	assertBytes(t, o.Bytes(), []byte{0x00, 0x01})

	o = Out{}
	o.LeaRegMem(regCX, regBX, -2)
	assertBytes(t, o.Bytes(), []byte{0x48, 0x8D, 0x4B, 0xFE})
}

func TestLeaRipPatching(t *testing.T) {
	var o Out
	pos := o.LeaRegRipForward(regAX)
	o.Write(0x90) // one byte to skip
	o.PatchForward(pos)
	// rel32 counts from the end of the lea
	assertBytes(t, o.Bytes(), []byte{0x48, 0x8D, 0x05, 0x01, 0x00, 0x00, 0x00, 0x90})
}

func TestCmpEncodings(t *testing.T) {
	var o Out
	o.CmpRegReg64(regBX, regR12)
	assertBytes(t, o.Bytes(), []byte{0x4C, 0x39, 0xE3})

	o = Out{}
	o.CmpRegReg64(regBX, regR13)
	assertBytes(t, o.Bytes(), []byte{0x4C, 0x39, 0xEB})

	o = Out{}
	o.CmpMem8Imm8(regBX, 0, 0)
	assertBytes(t, o.Bytes(), []byte{0x80, 0x3B, 0x00})
}

func TestJumpPatching(t *testing.T) {
	var o Out
	pos := o.JumpForward(JumpEqual)
	o.Write(0x90) // one byte of body
	o.PatchForward(pos)
	// rel32 counts from the end of the jump: one nop to skip
	assertBytes(t, o.Bytes(), []byte{0x0F, 0x84, 0x01, 0x00, 0x00, 0x00, 0x90})

	o = Out{}
	o.Write(0x90) // target at offset 0, the jump starts right after
	o.JmpBackTo(0)
	assertBytes(t, o.Bytes(), []byte{0x90, 0xE9, 0xFA, 0xFF, 0xFF, 0xFF}) // -6

	o = Out{}
	o.JmpMem(regR15, ctxResume)
	assertBytes(t, o.Bytes(), []byte{0x41, 0xFF, 0x67, 0x18})
}

// rel32At decodes the little-endian rel32 at pos and returns the target
func rel32At(code []byte, pos int) int {
	v := int32(uint32(code[pos]) | uint32(code[pos+1])<<8 | uint32(code[pos+2])<<16 | uint32(code[pos+3])<<24)
	return pos + 4 + int(v)
}

func generateRaw(t *testing.T, src string, checked, peephole bool) (*generator, int, int) {
	t.Helper()
	opt, err := Compile([]byte(src), peephole)
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	g := &generator{checked: checked}
	entry := g.emitStubs()
	body := g.emitPrologue()
	g.emitBody(opt)
	g.emitEpilogue()
	return g, entry, body
}

func TestStubsAndPrologueShape(t *testing.T) {
	g, entry, body := generateRaw(t, "", true, true)
	code := g.out.Bytes()

	finish := []byte{
		0x41, 0x89, 0x47, 0x20, // mov [r15+32], eax
		0x41, 0x5F, // pop r15
		0x41, 0x5D, // pop r13
		0x41, 0x5C, // pop r12
		0x5B,       // pop rbx
		0x5D,       // pop rbp
		0xC3,       // ret
	}
	under := []byte{0xB8, 0x01, 0x00, 0x00, 0x00} // mov eax, 1
	over := []byte{0xB8, 0x02, 0x00, 0x00, 0x00}  // mov eax, 2

	assertBytes(t, code[:len(finish)], finish)
	assertBytes(t, code[g.under:g.under+5], under)
	assertBytes(t, code[g.over:g.over+5], over)

	// both stubs jump back to the shared exit path
	if code[g.under+5] != 0xE9 || rel32At(code, g.under+6) != g.finish {
		t.Fatalf("underflow stub does not jump to finish")
	}
	if code[g.over+5] != 0xE9 || rel32At(code, g.over+6) != g.finish {
		t.Fatalf("overflow stub does not jump to finish")
	}
	if entry <= g.over {
		t.Fatalf("entry offset %d not past the stubs", entry)
	}

	prologue := []byte{
		0x55,             // push rbp
		0x48, 0x89, 0xE5, // mov rbp, rsp
		0x53,       // push rbx
		0x41, 0x54, // push r12
		0x41, 0x55, // push r13
		0x41, 0x57, // push r15
		0x49, 0x89, 0xC7, // mov r15, rax
		0x49, 0x8B, 0x5F, 0x10, // mov rbx, [r15+16]
		0x4D, 0x8B, 0x27, // mov r12, [r15]
		0x4D, 0x8B, 0x6F, 0x08, // mov r13, [r15+8]
		0x41, 0xFF, 0x67, 0x18, // jmp [r15+24]
	}
	assertBytes(t, code[entry:body], prologue)
}

func TestLoopEmission(t *testing.T) {
	// [-] with the peephole pass off: test at top, patched forward skip,
	// backward jump to the test
	g, _, body := generateRaw(t, "[-]", true, false)
	code := g.out.Bytes()
	want := []byte{
		0x80, 0x3B, 0x00, // cmp byte [rbx], 0
		0x0F, 0x84, 0x08, 0x00, 0x00, 0x00, // je +8 (over the body)
		0x80, 0x03, 0xFF, // add byte [rbx], -1
		0xE9, 0xEF, 0xFF, 0xFF, 0xFF, // jmp -17 (back to the test)
	}
	assertBytes(t, code[body:body+len(want)], want)
}

func TestParkEmission(t *testing.T) {
	// ',' hands off to the host: cell pointer out, resume address out,
	// request code in AX, then the shared exit path
	g, _, body := generateRaw(t, ",", true, true)
	code := g.out.Bytes()
	s := body
	assertBytes(t, code[s:s+4], []byte{0x49, 0x89, 0x5F, 0x10}) // mov [r15+16], rbx
	assertBytes(t, code[s+4:s+7], []byte{0x48, 0x8D, 0x05})     // lea rax, [rip+...]
	resume := rel32At(code, s+7)
	assertBytes(t, code[s+11:s+15], []byte{0x49, 0x89, 0x47, 0x18})       // mov [r15+24], rax
	assertBytes(t, code[s+15:s+20], []byte{0xB8, 0x03, 0x00, 0x00, 0x00}) // mov eax, read request
	if code[s+20] != 0xE9 || rel32At(code, s+21) != g.finish {
		t.Fatalf("park does not jump to the shared exit path")
	}
	if resume != s+25 {
		t.Fatalf("resume address %d, want %d (right after the park)", resume, s+25)
	}
}

func TestCheckedMoveBranchesToStubs(t *testing.T) {
	g, _, body := generateRaw(t, ">", true, true)
	code := g.out.Bytes()

	want := []byte{
		0x48, 0x83, 0xC3, 0x01, // add rbx, 1
		0x4C, 0x39, 0xE3, // cmp rbx, r12
		0x0F, 0x82, // jb ...
	}
	assertBytes(t, code[body:body+len(want)], want)

	jbAt := body + 7
	if rel32At(code, jbAt+2) != g.under {
		t.Fatalf("jb target %d, want underflow stub %d", rel32At(code, jbAt+2), g.under)
	}
	jaeAt := jbAt + 6 + 3 // past the jb and the cmp rbx, r13
	if code[jaeAt] != 0x0F || code[jaeAt+1] != 0x83 {
		t.Fatalf("expected jae after the end compare")
	}
	if rel32At(code, jaeAt+2) != g.over {
		t.Fatalf("jae target %d, want overflow stub %d", rel32At(code, jaeAt+2), g.over)
	}
}

func TestUncheckedMoveHasNoBranches(t *testing.T) {
	g, _, body := generateRaw(t, ">", false, true)
	code := g.out.Bytes()
	want := []byte{
		0x48, 0x83, 0xC3, 0x01, // add rbx, 1
		0x31, 0xC0, // xor eax, eax (normal exit begins)
	}
	assertBytes(t, code[body:body+len(want)], want)
}

func TestSetZeroEmission(t *testing.T) {
	g, _, body := generateRaw(t, "[-]", true, true)
	code := g.out.Bytes()
	want := []byte{0xC6, 0x03, 0x00} // mov byte [rbx], 0
	assertBytes(t, code[body:body+len(want)], want)
}

func TestDeeplyNestedLoopsEmit(t *testing.T) {
	// the emitter walks with an explicit stack, so deep nesting must not
	// recurse; every forward skip must land one past its backward jump
	depth := 4000
	src := ""
	for i := 0; i < depth; i++ {
		src = "[" + src + "]"
	}
	g, _, _ := generateRaw(t, "+"+src, true, false)
	code := g.out.Bytes()
	// count matched je/jmp pairs
	jes := bytes.Count(code, []byte{0x80, 0x3B, 0x00, 0x0F, 0x84})
	if jes != depth {
		t.Fatalf("emitted %d loop tests, want %d", jes, depth)
	}
}
