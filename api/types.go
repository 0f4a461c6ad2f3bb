// Package api holds constants and small value types shared between the
// public hexagone package and its internal engine, mirroring how wazero
// splits ValueType/ExternType out of its root package to avoid a dependency
// cycle between the public facade and internal/wasm.
package api

import "fmt"

// ErrorKind is the closed taxonomy of fatal execution failures. Every kind
// maps to a distinct positive integer in [1, 13]; the externally observable
// status code of an aborted run is the negation of that integer. Halt is
// success and has no ErrorKind.
//
// See https://pkg.go.dev and spec section 4.1 for the authoritative list;
// this type is a closed enumeration and new kinds are never inserted between
// existing ones, only appended before errorKindNever, to preserve the
// numeric mapping guest embedders may have hard-coded against Status().
type ErrorKind uint8

const (
	_ ErrorKind = iota // 0 is reserved; Halt has no ErrorKind

	// ErrorKindGeneric covers failures that do not fit a more specific kind.
	ErrorKindGeneric
	// ErrorKindBounds is raised by any Tape, Memory, or call-stack access
	// that would read or write outside the bounds of its backing buffer.
	ErrorKindBounds
	// ErrorKindUnreachable is raised by the Unreachable opcode.
	ErrorKindUnreachable
	// ErrorKindIllegalOpcode is raised when a fetched byte does not decode
	// to a valid Opcode.
	ErrorKindIllegalOpcode
	// ErrorKindInvalidNativeInvoke is raised when an Environment's
	// DoNativeInvoke rejects a NativeInvoke call (unknown id, or argument
	// mismatch enforced by the host).
	ErrorKindInvalidNativeInvoke
	// ErrorKindNotSupported is raised by the NotSupported opcode.
	ErrorKindNotSupported
	// ErrorKindInvalidInput covers malformed input. The VM itself never
	// raises this kind; module framing violations are reported as
	// ErrorKindBounds.
	ErrorKindInvalidInput
	// ErrorKindExecutionLimit is raised by an embedder's trace hook to
	// enforce a step budget; the VM itself never raises this kind.
	ErrorKindExecutionLimit
	// ErrorKindMemoryLimit is raised by an embedder's GrowMemory
	// implementation when a growth request would exceed a host-enforced
	// ceiling; the VM itself never raises this kind.
	ErrorKindMemoryLimit
	// ErrorKindSlotLimit is raised by an embedder's ResetSlots
	// implementation when a requested slot count exceeds a host-enforced
	// ceiling; the VM itself never raises this kind.
	ErrorKindSlotLimit
	// ErrorKindFatalSignal is reserved for host-detected fatal conditions
	// (e.g. a native_invoke that traps the host process) that an embedder
	// wants reported through the same taxonomy rather than a Go panic.
	ErrorKindFatalSignal
	// ErrorKindFuse is raised on the second ResetSlots within one run.
	ErrorKindFuse
	// ErrorKindDivideByZero is raised by a divide/remainder opcode whose
	// divisor is zero, under the default Config (see WithWrappingDivideByZero
	// to opt out).
	ErrorKindDivideByZero

	errorKindNever // sentinel, one past the last valid kind
)

// Status returns the externally observable status code for this kind: the
// negation of its numeric position, per spec section 4.1 and 6 ("Exit
// status"). Halt has no ErrorKind and is reported as a nil error, not a
// Status call.
func (k ErrorKind) Status() int32 {
	return -int32(k)
}

// String names the kind for logs and error messages.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindGeneric:
		return "generic"
	case ErrorKindBounds:
		return "bounds"
	case ErrorKindUnreachable:
		return "unreachable"
	case ErrorKindIllegalOpcode:
		return "illegal opcode"
	case ErrorKindInvalidNativeInvoke:
		return "invalid native invoke"
	case ErrorKindNotSupported:
		return "not supported"
	case ErrorKindInvalidInput:
		return "invalid input"
	case ErrorKindExecutionLimit:
		return "execution limit"
	case ErrorKindMemoryLimit:
		return "memory limit"
	case ErrorKindSlotLimit:
		return "slot limit"
	case ErrorKindFatalSignal:
		return "fatal signal"
	case ErrorKindFuse:
		return "fuse"
	case ErrorKindDivideByZero:
		return "divide by zero"
	default:
		return fmt.Sprintf("errorkind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the defined, non-sentinel kinds.
func (k ErrorKind) Valid() bool {
	return k > 0 && k < errorKindNever
}

// Opcode is a single instruction in the guest code stream. The numbering
// below is frozen: guest programs are binary-encoded against it, so new
// opcodes may only be appended immediately before Never.
//
// See spec section 4.4 for the authoritative enumeration and section 6 for
// the inline little-endian immediate each opcode carries.
type Opcode byte

const (
	_ Opcode = iota // 0 is never a valid opcode; byte 0 decodes to IllegalOpcode

	OpDrop
	OpDup
	OpSwap2
	OpSelect

	OpCall
	OpReturn
	OpHalt

	OpGetLocal
	OpSetLocal
	OpTeeLocal

	OpGetSlotIndirect
	OpGetSlot
	OpSetSlot
	OpResetSlots

	OpNativeInvoke

	OpCurrentMemory
	OpGrowMemory

	OpNop
	OpUnreachable
	OpNotSupported

	OpJmp
	OpJmpIf
	OpJmpEither
	OpJmpTable

	OpI32Load
	OpI32Load8U
	OpI32Load8S
	OpI32Load16U
	OpI32Load16S

	OpI32Store
	OpI32Store8
	OpI32Store16

	OpI32Const

	OpI32Ctz
	OpI32Clz
	OpI32Popcnt

	OpI32Add
	OpI32Sub
	OpI32Mul
	OpI32DivU
	OpI32DivS
	OpI32RemU
	OpI32RemS

	OpI32And
	OpI32Or
	OpI32Xor
	OpI32Shl
	OpI32ShrU
	OpI32ShrS
	OpI32Rotl
	OpI32Rotr

	OpI32Eq
	OpI32Ne
	OpI32LtU
	OpI32LtS
	OpI32LeU
	OpI32LeS
	OpI32GtU
	OpI32GtS
	OpI32GeU
	OpI32GeS

	OpI32WrapI64

	OpI64Load
	OpI64Load8U
	OpI64Load8S
	OpI64Load16U
	OpI64Load16S
	OpI64Load32U
	OpI64Load32S

	OpI64Store
	OpI64Store8
	OpI64Store16
	OpI64Store32

	OpI64Const

	OpI64Ctz
	OpI64Clz
	OpI64Popcnt

	OpI64Add
	OpI64Sub
	OpI64Mul
	OpI64DivU
	OpI64DivS
	OpI64RemU
	OpI64RemS

	OpI64And
	OpI64Or
	OpI64Xor
	OpI64Shl
	OpI64ShrU
	OpI64ShrS
	OpI64Rotl
	OpI64Rotr

	OpI64Eq
	OpI64Ne
	OpI64LtU
	OpI64LtS
	OpI64LeU
	OpI64LeS
	OpI64GtU
	OpI64GtS
	OpI64GeU
	OpI64GeS

	OpI64ExtendI32U
	OpI64ExtendI32S

	OpNever // sentinel, not a valid opcode
)

// opcodeNames is index-correlated with the Opcode values above, offset by
// one since 0 is never valid. Kept as a flat table rather than a switch
// because the set is dense and frozen; a switch would just repeat this list.
var opcodeNames = [...]string{
	"drop", "dup", "swap2", "select",
	"call", "return", "halt",
	"get_local", "set_local", "tee_local",
	"get_slot_indirect", "get_slot", "set_slot", "reset_slots",
	"native_invoke",
	"current_memory", "grow_memory",
	"nop", "unreachable", "not_supported",
	"jmp", "jmp_if", "jmp_either", "jmp_table",
	"i32.load", "i32.load8_u", "i32.load8_s", "i32.load16_u", "i32.load16_s",
	"i32.store", "i32.store8", "i32.store16",
	"i32.const",
	"i32.ctz", "i32.clz", "i32.popcnt",
	"i32.add", "i32.sub", "i32.mul", "i32.div_u", "i32.div_s", "i32.rem_u", "i32.rem_s",
	"i32.and", "i32.or", "i32.xor", "i32.shl", "i32.shr_u", "i32.shr_s", "i32.rotl", "i32.rotr",
	"i32.eq", "i32.ne", "i32.lt_u", "i32.lt_s", "i32.le_u", "i32.le_s", "i32.gt_u", "i32.gt_s", "i32.ge_u", "i32.ge_s",
	"i32.wrap_i64",
	"i64.load", "i64.load8_u", "i64.load8_s", "i64.load16_u", "i64.load16_s", "i64.load32_u", "i64.load32_s",
	"i64.store", "i64.store8", "i64.store16", "i64.store32",
	"i64.const",
	"i64.ctz", "i64.clz", "i64.popcnt",
	"i64.add", "i64.sub", "i64.mul", "i64.div_u", "i64.div_s", "i64.rem_u", "i64.rem_s",
	"i64.and", "i64.or", "i64.xor", "i64.shl", "i64.shr_u", "i64.shr_s", "i64.rotl", "i64.rotr",
	"i64.eq", "i64.ne", "i64.lt_u", "i64.lt_s", "i64.le_u", "i64.le_s", "i64.gt_u", "i64.gt_s", "i64.ge_u", "i64.ge_s",
	"i64.extend_i32_u", "i64.extend_i32_s",
}

// DecodeOpcode converts a raw byte into an Opcode, returning ok=false for 0
// and any value at or past OpNever. This is the exhaustive range-check
// counterpart to the source implementation's unsafe numeric-to-enum cast
// (spec section 9, "Unsafe enum decode"): Go has no unchecked enum cast, so
// the range check itself is the contract.
func DecodeOpcode(raw byte) (Opcode, bool) {
	op := Opcode(raw)
	if op == 0 || op >= OpNever {
		return 0, false
	}
	return op, true
}

// String names the opcode for disassembly and trace logs.
func (op Opcode) String() string {
	i := int(op) - 1
	if i < 0 || i >= len(opcodeNames) {
		return fmt.Sprintf("opcode(%#02x)", byte(op))
	}
	return opcodeNames[i]
}
