package hexagone

import (
	"github.com/losfair/hexagone/api"
	"github.com/losfair/hexagone/internal/hmemory"
	"github.com/losfair/hexagone/internal/tape"
)

// NativeFunc is the signature a host function registered with
// BasicEnvironment must implement: it receives the NativeInvoke opcode's
// immediate id and reports whether it produced a value to push.
type NativeFunc func(id uint32) (value uint64, hasValue bool, err error)

// BasicEnvironment is a ready-to-use api.Environment backed by plain Go
// slices: internal/hmemory.Memory for linear memory, internal/tape.Tape for
// the operand stack and call stack, and a plain []uint64 for the slot
// array. Most embedders can use
// this directly rather than writing their own api.Environment; it is
// intentionally the only concrete Environment this module ships, mirroring
// how wazero ships exactly one store implementation behind its api.Module
// interface.
type BasicEnvironment struct {
	mem   *hmemory.Memory
	slots []uint64
	stack *tape.Tape[uint64]
	cstk  *tape.Tape[uint64]

	native NativeFunc

	// OnOpcode, OnCall, OnLoad, and OnMemInit are optional tracing hooks. A
	// nil hook is a no-op, matching the zero-value contract of
	// api.Environment's optional tracer interfaces; see internal/hlog for a
	// ready-made structured-logging implementation of these four fields.
	OnOpcode  func(op api.Opcode, pos uint64) error
	OnCall    func(target uint64, nLocals uint32)
	OnLoad    func(addr uint64, widthBits uint8)
	OnMemInit func(addr uint32, length uint32)
}

// NewBasicEnvironment allocates a BasicEnvironment with the given initial
// memory size (bytes) and operand/call-stack capacities (cells). native may
// be nil if the module never executes NativeInvoke.
func NewBasicEnvironment(memSize, stackCapacity, callStackCapacity int, native NativeFunc) *BasicEnvironment {
	return &BasicEnvironment{
		mem:    hmemory.New(make([]byte, memSize)),
		stack:  tape.New(make([]uint64, stackCapacity)),
		cstk:   tape.New(make([]uint64, callStackCapacity)),
		native: native,
	}
}

func (e *BasicEnvironment) Memory() []byte    { return e.mem.Bytes() }
func (e *BasicEnvironment) MemoryMut() []byte { return e.mem.Bytes() }

func (e *BasicEnvironment) GrowMemory(delta uint32) uint32 {
	return e.mem.Grow(delta)
}

func (e *BasicEnvironment) Slots() []uint64    { return e.slots }
func (e *BasicEnvironment) SlotsMut() []uint64 { return e.slots }

func (e *BasicEnvironment) ResetSlots(n uint32) {
	e.slots = make([]uint64, n)
}

func (e *BasicEnvironment) Stack() api.Cells     { return e.stack }
func (e *BasicEnvironment) CallStack() api.Cells { return e.cstk }

func (e *BasicEnvironment) DoNativeInvoke(id uint32) (uint64, bool, error) {
	if e.native == nil {
		return 0, false, api.NewFault(api.ErrorKindInvalidNativeInvoke, "no native function registered")
	}
	return e.native(id)
}

func (e *BasicEnvironment) TraceOpcode(op api.Opcode, pos uint64) error {
	if e.OnOpcode == nil {
		return nil
	}
	return e.OnOpcode(op, pos)
}

func (e *BasicEnvironment) TraceCall(target uint64, nLocals uint32) {
	if e.OnCall != nil {
		e.OnCall(target, nLocals)
	}
}

func (e *BasicEnvironment) TraceLoad(addr uint64, widthBits uint8) {
	if e.OnLoad != nil {
		e.OnLoad(addr, widthBits)
	}
}

func (e *BasicEnvironment) TraceMemInit(addr uint32, length uint32) {
	if e.OnMemInit != nil {
		e.OnMemInit(addr, length)
	}
}
