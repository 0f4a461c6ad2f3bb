// Package engine implements the interpreter: memory-initializer replay and
// the fetch/decode/dispatch loop over a single code tape. Every fatal
// condition is raised as a panic carrying an *api.Fault and recovered at
// the two public entry points (RunMemoryInitializers, Run), mirroring
// wazero's callEngine.call defer/recover boundary around its interpreter
// loop: it keeps the hot dispatch switch free of an if err != nil after
// every cell access, while still handing callers a normal Go error.
package engine

import (
	"encoding/binary"

	"github.com/losfair/hexagone/api"
	"github.com/losfair/hexagone/internal/hmemory"
	"github.com/losfair/hexagone/internal/hmodule"
	"github.com/losfair/hexagone/internal/tape"
)

// Options carries the run-time policy decisions left open by the spec.
type Options struct {
	// WrappingDivideByZero, when true, makes the eight divide/remainder
	// opcodes produce 0 on a zero divisor instead of raising
	// ErrorKindDivideByZero. Defaults to false (the recommended policy).
	WrappingDivideByZero bool
}

// traceAbort wraps an arbitrary error returned by an embedder's OpcodeTracer
// so the panic/recover boundary can distinguish "the embedder asked us to
// stop" from an *api.Fault raised by the interpreter itself.
type traceAbort struct{ err error }

func recoverFault(err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch v := r.(type) {
	case *api.Fault:
		*err = v
	case traceAbort:
		*err = v.err
	default:
		panic(r)
	}
}

// RunMemoryInitializers replays the module's memory-initializer blob into
// env's memory. Per the embedder contract this must be called at most once
// per VM before Run; that restriction is enforced by the caller (the root
// VM type), not here.
func RunMemoryInitializers(module *hmodule.Module, env api.Environment) (err error) {
	defer recoverFault(&err)

	mi := tape.New(module.MemoryInitializers)
	for {
		addr, err := tape.NextU32(mi)
		if err != nil {
			// Failure reading the address field at a record boundary is
			// normal end-of-stream, not a fault.
			return nil
		}

		length, err := tape.NextU32(mi)
		if err != nil {
			panic(err)
		}
		data, err := mi.NextMany(int(length))
		if err != nil {
			panic(err)
		}

		memLen := uint64(len(env.MemoryMut()))
		if uint64(addr) >= memLen || uint64(addr)+uint64(length) > memLen {
			panic(api.Bounds("memory initializer out of bounds"))
		}
		copy(env.MemoryMut()[addr:], data)

		if t, ok := env.(api.MemInitTracer); ok {
			t.TraceMemInit(addr, length)
		}
	}
}

// machine holds everything the dispatch loop threads through opcode cases.
// It is not exported: callers only ever see Run's result.
type machine struct {
	env   api.Environment
	code  *tape.Tape[byte]
	stack api.Cells
	cstk  api.Cells
	opts  Options

	fuseTripped bool
}

// Run executes module.Code against env until Halt or a fatal condition.
func Run(module *hmodule.Module, env api.Environment, opts Options) (err error) {
	defer recoverFault(&err)

	m := &machine{
		env:   env,
		code:  tape.New(module.Code),
		stack: env.Stack(),
		cstk:  env.CallStack(),
		opts:  opts,
	}
	m.dispatchLoop()
	return nil
}

func (m *machine) dispatchLoop() {
	for {
		pos := uint64(m.code.GetPos())
		raw, err := m.code.Next()
		if err != nil {
			panic(err)
		}
		op, ok := api.DecodeOpcode(*raw)
		if !ok {
			panic(api.NewFaultAt(api.ErrorKindIllegalOpcode, pos, "byte does not decode to a valid opcode"))
		}

		if t, ok := m.env.(api.OpcodeTracer); ok {
			if terr := t.TraceOpcode(op, pos); terr != nil {
				panic(traceAbort{terr})
			}
		}

		if m.step(op, pos) {
			return
		}
	}
}

// step executes one decoded opcode and reports whether the loop should
// stop (true only for Halt).
func (m *machine) step(op api.Opcode, pos uint64) bool {
	switch op {
	case api.OpHalt:
		return true

	case api.OpNop:
		// no effect

	case api.OpUnreachable:
		panic(api.NewFaultAt(api.ErrorKindUnreachable, pos, "unreachable opcode executed"))

	case api.OpNotSupported:
		panic(api.NewFaultAt(api.ErrorKindNotSupported, pos, "not-supported opcode executed"))

	case api.OpDrop:
		m.popOne()

	case api.OpDup:
		p, err := m.stack.At(m.stack.GetPos() - 1)
		if err != nil {
			panic(err)
		}
		m.pushOne(*p)

	case api.OpSwap2:
		a, b := m.popTwo()
		m.pushOne(b)
		m.pushOne(a)

	case api.OpSelect:
		a, b, c := m.popThree()
		cond, val1, val2 := c, b, a
		if cond != 0 {
			m.pushOne(val1)
		} else {
			m.pushOne(val2)
		}

	case api.OpCall:
		m.execCall(m.nextU32())

	case api.OpReturn:
		m.execReturn()

	case api.OpGetLocal:
		m.execGetLocal(m.nextU32())
	case api.OpSetLocal:
		m.execSetLocal(m.nextU32())
	case api.OpTeeLocal:
		m.execTeeLocal(m.nextU32())

	case api.OpGetSlotIndirect:
		idx := uint32(m.popOne())
		m.pushOne(m.readSlot(idx))
	case api.OpGetSlot:
		idx := m.nextU32()
		m.pushOne(m.readSlot(idx))
	case api.OpSetSlot:
		idx := m.nextU32()
		v := m.popOne()
		m.writeSlot(idx, v)
	case api.OpResetSlots:
		n := m.nextU32()
		if m.fuseTripped {
			panic(api.NewFaultAt(api.ErrorKindFuse, pos, "reset_slots called a second time in this run"))
		}
		m.fuseTripped = true
		m.env.ResetSlots(n)

	case api.OpNativeInvoke:
		id := m.nextU32()
		v, hasValue, err := m.env.DoNativeInvoke(id)
		if err != nil {
			panic(api.NewFaultAt(api.ErrorKindInvalidNativeInvoke, pos, err.Error()))
		}
		if hasValue {
			m.pushOne(v)
		}

	case api.OpCurrentMemory:
		m.pushOne(uint64(len(m.env.Memory())))
	case api.OpGrowMemory:
		delta := uint32(m.popOne())
		old := m.env.GrowMemory(delta)
		m.pushOne(uint64(old))

	case api.OpJmp:
		m.setCodePos(m.nextU32())
	case api.OpJmpIf:
		target := m.nextU32()
		if m.popOne() != 0 {
			m.setCodePos(target)
		}
	case api.OpJmpEither:
		targetA := m.nextU32()
		targetB := m.nextU32()
		if m.popOne() != 0 {
			m.setCodePos(targetA)
		} else {
			m.setCodePos(targetB)
		}
	case api.OpJmpTable:
		m.execJmpTable()

	default:
		m.execLoadStoreOrArith(op, pos)
	}
	return false
}

func (m *machine) execLoadStoreOrArith(op api.Opcode, pos uint64) {
	switch op {
	case api.OpI32Load, api.OpI32Load8U, api.OpI32Load8S, api.OpI32Load16U, api.OpI32Load16S,
		api.OpI64Load, api.OpI64Load8U, api.OpI64Load8S, api.OpI64Load16U, api.OpI64Load16S,
		api.OpI64Load32U, api.OpI64Load32S:
		m.execLoad(op)
		return
	case api.OpI32Store, api.OpI32Store8, api.OpI32Store16,
		api.OpI64Store, api.OpI64Store8, api.OpI64Store16, api.OpI64Store32:
		m.execStore(op)
		return
	}

	switch op {
	case api.OpI32Const:
		m.pushI32(m.nextU32())
	case api.OpI64Const:
		v := m.nextU64()
		m.pushOne(v)

	case api.OpI32WrapI64:
		v := m.popOne()
		m.pushOne(uint64(uint32(v)))
	case api.OpI64ExtendI32U:
		v := m.popOne()
		m.pushOne(uint64(uint32(v)))
	case api.OpI64ExtendI32S:
		v := m.popOne()
		m.pushOne(uint64(int64(int32(uint32(v)))))

	case api.OpI32Ctz:
		m.pushOne(uint64(i32Ctz(uint32(m.popOne()))))
	case api.OpI32Clz:
		m.pushOne(uint64(i32Clz(uint32(m.popOne()))))
	case api.OpI32Popcnt:
		m.pushOne(uint64(i32Popcnt(uint32(m.popOne()))))

	case api.OpI32Add:
		a, b := m.popTwo()
		m.pushI32(i32Add(uint32(a), uint32(b)))
	case api.OpI32Sub:
		a, b := m.popTwo()
		m.pushI32(i32Sub(uint32(a), uint32(b)))
	case api.OpI32Mul:
		a, b := m.popTwo()
		m.pushI32(i32Mul(uint32(a), uint32(b)))
	case api.OpI32DivU:
		a, b := m.popTwo()
		m.pushI32(m.divRem32(pos, uint32(a), uint32(b), false, false))
	case api.OpI32DivS:
		a, b := m.popTwo()
		m.pushI32(m.divRem32(pos, uint32(a), uint32(b), true, false))
	case api.OpI32RemU:
		a, b := m.popTwo()
		m.pushI32(m.divRem32(pos, uint32(a), uint32(b), false, true))
	case api.OpI32RemS:
		a, b := m.popTwo()
		m.pushI32(m.divRem32(pos, uint32(a), uint32(b), true, true))

	case api.OpI32And:
		a, b := m.popTwo()
		m.pushI32(i32And(uint32(a), uint32(b)))
	case api.OpI32Or:
		a, b := m.popTwo()
		m.pushI32(i32Or(uint32(a), uint32(b)))
	case api.OpI32Xor:
		a, b := m.popTwo()
		m.pushI32(i32Xor(uint32(a), uint32(b)))
	case api.OpI32Shl:
		a, b := m.popTwo()
		m.pushI32(i32Shl(uint32(a), uint32(b)))
	case api.OpI32ShrU:
		a, b := m.popTwo()
		m.pushI32(i32ShrU(uint32(a), uint32(b)))
	case api.OpI32ShrS:
		a, b := m.popTwo()
		m.pushI32(i32ShrS(uint32(a), uint32(b)))
	case api.OpI32Rotl:
		a, b := m.popTwo()
		m.pushI32(i32Rotl(uint32(a), uint32(b)))
	case api.OpI32Rotr:
		a, b := m.popTwo()
		m.pushI32(i32Rotr(uint32(a), uint32(b)))

	case api.OpI32Eq:
		a, b := m.popTwo()
		m.pushOne(boolCell(uint32(a) == uint32(b)))
	case api.OpI32Ne:
		a, b := m.popTwo()
		m.pushOne(boolCell(uint32(a) != uint32(b)))
	case api.OpI32LtU:
		a, b := m.popTwo()
		m.pushOne(boolCell(uint32(a) < uint32(b)))
	case api.OpI32LtS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int32(a) < int32(b)))
	case api.OpI32LeU:
		a, b := m.popTwo()
		m.pushOne(boolCell(uint32(a) <= uint32(b)))
	case api.OpI32LeS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int32(a) <= int32(b)))
	case api.OpI32GtU:
		a, b := m.popTwo()
		m.pushOne(boolCell(uint32(a) > uint32(b)))
	case api.OpI32GtS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int32(a) > int32(b)))
	case api.OpI32GeU:
		a, b := m.popTwo()
		m.pushOne(boolCell(uint32(a) >= uint32(b)))
	case api.OpI32GeS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int32(a) >= int32(b)))

	case api.OpI64Ctz:
		m.pushOne(i64Ctz(m.popOne()))
	case api.OpI64Clz:
		m.pushOne(i64Clz(m.popOne()))
	case api.OpI64Popcnt:
		m.pushOne(i64Popcnt(m.popOne()))

	case api.OpI64Add:
		a, b := m.popTwo()
		m.pushOne(i64Add(a, b))
	case api.OpI64Sub:
		a, b := m.popTwo()
		m.pushOne(i64Sub(a, b))
	case api.OpI64Mul:
		a, b := m.popTwo()
		m.pushOne(i64Mul(a, b))
	case api.OpI64DivU:
		a, b := m.popTwo()
		m.pushOne(m.divRem64(pos, a, b, false, false))
	case api.OpI64DivS:
		a, b := m.popTwo()
		m.pushOne(m.divRem64(pos, a, b, true, false))
	case api.OpI64RemU:
		a, b := m.popTwo()
		m.pushOne(m.divRem64(pos, a, b, false, true))
	case api.OpI64RemS:
		a, b := m.popTwo()
		m.pushOne(m.divRem64(pos, a, b, true, true))

	case api.OpI64And:
		a, b := m.popTwo()
		m.pushOne(i64And(a, b))
	case api.OpI64Or:
		a, b := m.popTwo()
		m.pushOne(i64Or(a, b))
	case api.OpI64Xor:
		a, b := m.popTwo()
		m.pushOne(i64Xor(a, b))
	case api.OpI64Shl:
		a, b := m.popTwo()
		m.pushOne(i64Shl(a, b))
	case api.OpI64ShrU:
		a, b := m.popTwo()
		m.pushOne(i64ShrU(a, b))
	case api.OpI64ShrS:
		a, b := m.popTwo()
		m.pushOne(i64ShrS(a, b))
	case api.OpI64Rotl:
		a, b := m.popTwo()
		m.pushOne(i64Rotl(a, b))
	case api.OpI64Rotr:
		a, b := m.popTwo()
		m.pushOne(i64Rotr(a, b))

	case api.OpI64Eq:
		a, b := m.popTwo()
		m.pushOne(boolCell(a == b))
	case api.OpI64Ne:
		a, b := m.popTwo()
		m.pushOne(boolCell(a != b))
	case api.OpI64LtU:
		a, b := m.popTwo()
		m.pushOne(boolCell(a < b))
	case api.OpI64LtS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int64(a) < int64(b)))
	case api.OpI64LeU:
		a, b := m.popTwo()
		m.pushOne(boolCell(a <= b))
	case api.OpI64LeS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int64(a) <= int64(b)))
	case api.OpI64GtU:
		a, b := m.popTwo()
		m.pushOne(boolCell(a > b))
	case api.OpI64GtS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int64(a) > int64(b)))
	case api.OpI64GeU:
		a, b := m.popTwo()
		m.pushOne(boolCell(a >= b))
	case api.OpI64GeS:
		a, b := m.popTwo()
		m.pushOne(boolCell(int64(a) >= int64(b)))

	default:
		panic(api.NewFaultAt(api.ErrorKindIllegalOpcode, pos, "opcode recognized but not implemented"))
	}
}

func (m *machine) divRem32(pos uint64, a, b uint32, signed, rem bool) uint32 {
	if b == 0 {
		if !m.opts.WrappingDivideByZero {
			panic(api.NewFaultAt(api.ErrorKindDivideByZero, pos, "division or remainder by zero"))
		}
		return 0
	}
	switch {
	case signed && rem:
		return i32RemS(a, b)
	case signed && !rem:
		return i32DivS(a, b)
	case !signed && rem:
		return i32RemU(a, b)
	default:
		return i32DivU(a, b)
	}
}

func (m *machine) divRem64(pos uint64, a, b uint64, signed, rem bool) uint64 {
	if b == 0 {
		if !m.opts.WrappingDivideByZero {
			panic(api.NewFaultAt(api.ErrorKindDivideByZero, pos, "division or remainder by zero"))
		}
		return 0
	}
	switch {
	case signed && rem:
		return i64RemS(a, b)
	case signed && !rem:
		return i64DivS(a, b)
	case !signed && rem:
		return i64RemU(a, b)
	default:
		return i64DivU(a, b)
	}
}

// addrLow32 reinterprets a popped 64-bit address cell as its low 32 bits,
// per the spec's documented open question: a negative i64 address wraps to
// a large u32 offset rather than erroring at the cast step.
func addrLow32(cell uint64) uint32 {
	return uint32(cell)
}

func (m *machine) execLoad(op api.Opcode) {
	offset := m.nextU32()
	addr := addrLow32(m.popOne())
	realAddr := uint64(offset) + uint64(addr)
	mem := hmemory.New(m.env.Memory())

	var result uint64
	var widthBits uint8
	switch op {
	case api.OpI32Load:
		v, err := mem.ReadU32(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(v), 32
	case api.OpI32Load8U:
		v, err := mem.ReadU8(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(v), 8
	case api.OpI32Load8S:
		v, err := mem.ReadU8(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(int64(int8(v))), 8
	case api.OpI32Load16U:
		v, err := mem.ReadU16(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(v), 16
	case api.OpI32Load16S:
		v, err := mem.ReadU16(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(int64(int16(v))), 16
	case api.OpI64Load:
		v, err := mem.ReadU64(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = v, 64
	case api.OpI64Load8U:
		v, err := mem.ReadU8(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(v), 8
	case api.OpI64Load8S:
		v, err := mem.ReadU8(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(int64(int8(v))), 8
	case api.OpI64Load16U:
		v, err := mem.ReadU16(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(v), 16
	case api.OpI64Load16S:
		v, err := mem.ReadU16(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(int64(int16(v))), 16
	case api.OpI64Load32U:
		v, err := mem.ReadU32(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(v), 32
	case api.OpI64Load32S:
		v, err := mem.ReadU32(realAddr)
		if err != nil {
			panic(err)
		}
		result, widthBits = uint64(int64(int32(v))), 32
	}

	m.pushOne(result)
	if t, ok := m.env.(api.LoadTracer); ok {
		t.TraceLoad(realAddr, widthBits)
	}
}

// execStore pops the address (top of stack) then the value (below it). The
// address-on-top ordering is fixed by the module's own round-trip example
// (a store immediately followed by a load at the same address, with the
// address pushed last in both cases), which pins down an ordering the
// prose description alone leaves ambiguous.
func (m *machine) execStore(op api.Opcode) {
	offset := m.nextU32()
	addr := addrLow32(m.popOne())
	val := m.popOne()
	realAddr := uint64(offset) + uint64(addr)
	mem := hmemory.New(m.env.MemoryMut())

	var err error
	switch op {
	case api.OpI32Store:
		err = mem.WriteU32(realAddr, uint32(val))
	case api.OpI32Store8:
		err = mem.WriteU8(realAddr, uint8(val))
	case api.OpI32Store16:
		err = mem.WriteU16(realAddr, uint16(val))
	case api.OpI64Store:
		err = mem.WriteU64(realAddr, val)
	case api.OpI64Store8:
		err = mem.WriteU8(realAddr, uint8(val))
	case api.OpI64Store16:
		err = mem.WriteU16(realAddr, uint16(val))
	case api.OpI64Store32:
		err = mem.WriteU32(realAddr, uint32(val))
	}
	if err != nil {
		panic(err)
	}
}

func (m *machine) execJmpTable() {
	idx := m.popOne()
	def := m.nextU32()
	n := m.nextU32()
	table, err := m.code.NextMany(int(n) * 4)
	if err != nil {
		panic(err)
	}
	if idx >= uint64(n) {
		m.setCodePos(def)
		return
	}
	target := binary.LittleEndian.Uint32(table[idx*4 : idx*4+4])
	m.setCodePos(target)
}

func (m *machine) execCall(nArgs uint32) {
	nLocals := uint32(m.popOne())
	target := m.popOne()

	if t, ok := m.env.(api.CallTracer); ok {
		t.TraceCall(target, nLocals)
	}

	args, err := m.stack.PrevMany(int(nArgs))
	if err != nil {
		panic(err)
	}
	dst, err := m.cstk.NextMany(int(nArgs))
	if err != nil {
		panic(err)
	}
	copy(dst, args)

	zeros, err := m.cstk.NextMany(int(nLocals))
	if err != nil {
		panic(err)
	}
	for i := range zeros {
		zeros[i] = 0
	}

	m.pushCS(uint64(nArgs) + uint64(nLocals))
	m.pushCS(uint64(m.code.GetPos()))

	m.setCodePos(uint32(target))
}

func (m *machine) execReturn() {
	returnIP := m.popCS()
	n := m.popCS()
	if _, err := m.cstk.PrevMany(int(n)); err != nil {
		panic(err)
	}
	m.setCodePos(uint32(returnIP))
}

// frameLocals returns the absolute start index and element count N of the
// locals belonging to the frame currently on top of the call stack, per
// the offset convention: cell at offset -2 is N, locals occupy
// [-(N+2), -2).
func (m *machine) frameLocals() (start, n int) {
	pos := m.cstk.GetPos()
	nPtr, err := m.cstk.At(pos - 2)
	if err != nil {
		panic(err)
	}
	n = int(*nPtr)
	start = pos - (n + 2)
	if start < 0 {
		panic(api.Bounds("call frame underflow"))
	}
	return start, n
}

func (m *machine) execGetLocal(id uint32) {
	start, n := m.frameLocals()
	if int(id) >= n {
		panic(api.Bounds("local index out of range"))
	}
	m.pushOne(m.cstk.Slice()[start+int(id)])
}

func (m *machine) execSetLocal(id uint32) {
	start, n := m.frameLocals()
	if int(id) >= n {
		panic(api.Bounds("local index out of range"))
	}
	v := m.popOne()
	m.cstk.Slice()[start+int(id)] = v
}

func (m *machine) execTeeLocal(id uint32) {
	start, n := m.frameLocals()
	if int(id) >= n {
		panic(api.Bounds("local index out of range"))
	}
	p, err := m.stack.At(m.stack.GetPos() - 1)
	if err != nil {
		panic(err)
	}
	m.cstk.Slice()[start+int(id)] = *p
}

func (m *machine) readSlot(idx uint32) uint64 {
	slots := m.env.Slots()
	if int(idx) >= len(slots) {
		panic(api.Bounds("slot index out of range"))
	}
	return slots[idx]
}

func (m *machine) writeSlot(idx uint32, v uint64) {
	slots := m.env.SlotsMut()
	if int(idx) >= len(slots) {
		panic(api.Bounds("slot index out of range"))
	}
	slots[idx] = v
}

func (m *machine) setCodePos(p uint32) {
	if err := m.code.SetPos(int(p)); err != nil {
		panic(err)
	}
}

func (m *machine) nextU32() uint32 {
	v, err := tape.NextU32(m.code)
	if err != nil {
		panic(err)
	}
	return v
}

func (m *machine) nextU64() uint64 {
	v, err := tape.NextU64(m.code)
	if err != nil {
		panic(err)
	}
	return v
}

func (m *machine) popOne() uint64 {
	p, err := m.stack.Prev()
	if err != nil {
		panic(err)
	}
	return *p
}

// popTwo returns (a, b) where a was pushed first (deeper) and b second
// (the top, popped first).
func (m *machine) popTwo() (a, b uint64) {
	bp, err := m.stack.Prev()
	if err != nil {
		panic(err)
	}
	ap, err := m.stack.Prev()
	if err != nil {
		panic(err)
	}
	return *ap, *bp
}

func (m *machine) popThree() (a, b, c uint64) {
	cp, err := m.stack.Prev()
	if err != nil {
		panic(err)
	}
	bp, err := m.stack.Prev()
	if err != nil {
		panic(err)
	}
	ap, err := m.stack.Prev()
	if err != nil {
		panic(err)
	}
	return *ap, *bp, *cp
}

// pushI32 stores a 32-bit arithmetic result sign-extended into the 64-bit
// cell, the reference VM's "as u64 as i64" rewidening step.
func (m *machine) pushI32(v uint32) {
	m.pushOne(uint64(int64(int32(v))))
}

func (m *machine) pushOne(v uint64) {
	p, err := m.stack.Next()
	if err != nil {
		panic(err)
	}
	*p = v
}

func (m *machine) pushCS(v uint64) {
	p, err := m.cstk.Next()
	if err != nil {
		panic(err)
	}
	*p = v
}

func (m *machine) popCS() uint64 {
	p, err := m.cstk.Prev()
	if err != nil {
		panic(err)
	}
	return *p
}
