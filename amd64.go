// Completion: 100% - x86-64 encoding helpers complete
package main

// Register numbers and encoding helpers for the x86-64 backend. The
// generated function only ever addresses memory through BX (current cell)
// and R15 (run context), so no SIB bytes are needed: both encode as plain
// ModRM bases. R13 would force a displacement byte and RSP/R12 a SIB byte
// if they were ever used as bases; they are not.

type reg uint8

const (
	regAX  reg = 0
	regCX  reg = 1
	regDX  reg = 2
	regBX  reg = 3
	regSP  reg = 4
	regBP  reg = 5
	regSI  reg = 6
	regDI  reg = 7
	regR12 reg = 12
	regR13 reg = 13
	regR15 reg = 15
)

func (r reg) String() string {
	switch r {
	case regAX:
		return "rax"
	case regCX:
		return "rcx"
	case regDX:
		return "rdx"
	case regBX:
		return "rbx"
	case regSP:
		return "rsp"
	case regBP:
		return "rbp"
	case regSI:
		return "rsi"
	case regDI:
		return "rdi"
	case regR12:
		return "r12"
	case regR13:
		return "r13"
	case regR15:
		return "r15"
	default:
		return "r?"
	}
}

// rex builds a REX prefix. w selects 64-bit operands, r extends the ModRM
// reg field, b extends the ModRM rm/base field.
func rex(w bool, r, b reg) byte {
	p := byte(0x40)
	if w {
		p |= 0x08
	}
	if r&8 != 0 {
		p |= 0x04
	}
	if b&8 != 0 {
		p |= 0x01
	}
	return p
}

// rexIfNeeded emits a REX prefix only when one is required
func (o *Out) rexIfNeeded(w bool, r, b reg) {
	p := rex(w, r, b)
	if p != 0x40 {
		o.Write(p)
	}
}

// modRM emits a register-direct ModRM byte (mod=11)
func (o *Out) modRM(opext, rm reg) {
	o.Write(0xC0 | byte(opext&7)<<3 | byte(rm&7))
}

// memRM emits a ModRM byte plus displacement for [base+disp], choosing the
// shortest displacement form
func (o *Out) memRM(opext, base reg, disp int32) {
	switch {
	case disp == 0 && base&7 != regBP:
		o.Write(0x00 | byte(opext&7)<<3 | byte(base&7))
	case disp >= -128 && disp <= 127:
		o.Write(0x40 | byte(opext&7)<<3 | byte(base&7))
		o.Write(byte(disp))
	default:
		o.Write(0x80 | byte(opext&7)<<3 | byte(base&7))
		o.Write4s(disp)
	}
}

// PushReg emits PUSH r64
func (o *Out) PushReg(r reg) {
	o.trace("push %s", r)
	if r&8 != 0 {
		o.Write(0x41)
	}
	o.Write(0x50 + byte(r&7))
}

// PopReg emits POP r64
func (o *Out) PopReg(r reg) {
	o.trace("pop %s", r)
	if r&8 != 0 {
		o.Write(0x41)
	}
	o.Write(0x58 + byte(r&7))
}

// Ret emits RET
func (o *Out) Ret() {
	o.trace("ret")
	o.Write(0xC3)
}

// XorReg32 emits XOR r32, r32, the idiomatic way to zero a register
func (o *Out) XorReg32(r reg) {
	o.trace("xor %s, %s", r, r)
	o.rexIfNeeded(false, r, r)
	o.Write(0x31)
	o.modRM(r, r)
}
