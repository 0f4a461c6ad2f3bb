package engine

import (
	"encoding/binary"
	"testing"

	"github.com/losfair/hexagone/api"
	"github.com/losfair/hexagone/internal/hmodule"
	"github.com/losfair/hexagone/internal/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a minimal api.Environment used only by this package's tests,
// kept local to avoid a cycle with the root package's BasicEnvironment.
type testEnv struct {
	mem    []byte
	slots  []uint64
	stack  *tape.Tape[uint64]
	cstk   *tape.Tape[uint64]
	native func(id uint32) (uint64, bool, error)
}

func newTestEnv(memLen, stackLen, cstkLen int) *testEnv {
	return &testEnv{
		mem:   make([]byte, memLen),
		stack: tape.New(make([]uint64, stackLen)),
		cstk:  tape.New(make([]uint64, cstkLen)),
	}
}

func (e *testEnv) Memory() []byte    { return e.mem }
func (e *testEnv) MemoryMut() []byte { return e.mem }
func (e *testEnv) GrowMemory(delta uint32) uint32 {
	old := uint32(len(e.mem))
	grown := make([]byte, uint64(old)+uint64(delta))
	copy(grown, e.mem)
	e.mem = grown
	return old
}
func (e *testEnv) Slots() []uint64    { return e.slots }
func (e *testEnv) SlotsMut() []uint64 { return e.slots }
func (e *testEnv) ResetSlots(n uint32) {
	e.slots = make([]uint64, n)
}
func (e *testEnv) Stack() api.Cells    { return e.stack }
func (e *testEnv) CallStack() api.Cells { return e.cstk }
func (e *testEnv) DoNativeInvoke(id uint32) (uint64, bool, error) {
	if e.native != nil {
		return e.native(id)
	}
	return 0, false, nil
}

// code is a tiny little-endian bytecode assembler for building test
// programs without a hex-literal soup.
type code struct {
	buf []byte
}

func (c *code) op(o api.Opcode) *code {
	c.buf = append(c.buf, byte(o))
	return c
}
func (c *code) u32(v uint32) *code {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	c.buf = append(c.buf, b[:]...)
	return c
}
func (c *code) u64(v uint64) *code {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	c.buf = append(c.buf, b[:]...)
	return c
}
func (c *code) bytes() []byte { return c.buf }

func runCode(t *testing.T, env *testEnv, buf []byte, opts Options) error {
	t.Helper()
	module := &hmodule.Module{Code: buf}
	return Run(module, env, opts)
}

func TestScenarioAArithmeticAndHalt(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(3)
	c.op(api.OpI32Const).u32(4)
	c.op(api.OpI32Add)
	c.op(api.OpDrop)
	c.op(api.OpHalt)

	err := runCode(t, env, c.bytes(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, env.stack.GetPos())
}

func TestScenarioBMemoryRoundTrip(t *testing.T) {
	env := newTestEnv(1024, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(0xDEADBEEF)
	c.op(api.OpI32Const).u32(100)
	c.op(api.OpI32Store).u32(0)
	c.op(api.OpI32Const).u32(100)
	c.op(api.OpI32Load).u32(0)
	c.op(api.OpHalt)

	err := runCode(t, env, c.bytes(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, env.mem[100:104])
	assert.Equal(t, 1, env.stack.GetPos())
	top, err := env.stack.At(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), *top)
}

func TestScenarioCCallReturn(t *testing.T) {
	env := newTestEnv(0, 16, 16)
	c := new(code)

	// top level: push arg 7, target, n_locals=0, Call 1, Halt. T is placed
	// immediately after, so its address is the top level's fixed length:
	// I32Const(7) + I32Const(target) + I32Const(0) + Call(1) + Halt
	// = 5 + 5 + 5 + 5 + 1 = 21 bytes.
	c.op(api.OpI32Const).u32(7)
	target := uint32(21)

	c.op(api.OpI32Const).u32(target)
	c.op(api.OpI32Const).u32(0)
	c.op(api.OpCall).u32(1)
	c.op(api.OpHalt)

	require.EqualValues(t, target, len(c.buf))

	// T: GetLocal 0, I32Const 1, I32Add, Return
	c.op(api.OpGetLocal).u32(0)
	c.op(api.OpI32Const).u32(1)
	c.op(api.OpI32Add)
	c.op(api.OpReturn)

	err := runCode(t, env, c.bytes(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, env.stack.GetPos())
	top, err := env.stack.At(0)
	require.NoError(t, err)
	assert.EqualValues(t, 8, *top)
	assert.Equal(t, 0, env.cstk.GetPos())
}

func TestScenarioDBounds(t *testing.T) {
	env := newTestEnv(1024*1024, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(0xFFFFFFFC)
	c.op(api.OpI32Load).u32(8)

	err := runCode(t, env, c.bytes(), Options{})
	require.Error(t, err)
	var fault *api.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, api.ErrorKindBounds, fault.Kind)
	assert.EqualValues(t, -2, fault.Status())
}

func TestScenarioEFuse(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpResetSlots).u32(4)
	c.op(api.OpResetSlots).u32(4)

	err := runCode(t, env, c.bytes(), Options{})
	require.Error(t, err)
	var fault *api.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, api.ErrorKindFuse, fault.Kind)
	assert.EqualValues(t, -12, fault.Status())
}

func TestScenarioFJumpTable(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(2)

	// Layout: JmpTable opcode, default(u32), n(u32)=3, table[3]u32.
	// default -> Ld (a NotSupported trap, so executing it fails the test)
	// L0, L1 -> also traps
	// L2 -> points directly at Halt
	c.op(api.OpJmpTable)
	jmpImmStart := len(c.buf)
	c.u32(0) // default placeholder
	c.u32(3) // n
	c.u32(0) // L0 placeholder
	c.u32(0) // L1 placeholder
	c.u32(0) // L2 placeholder

	ld := uint32(len(c.buf))
	c.op(api.OpNotSupported) // Ld
	l0 := uint32(len(c.buf))
	c.op(api.OpNotSupported) // L0
	l1 := uint32(len(c.buf))
	c.op(api.OpNotSupported) // L1
	l2 := uint32(len(c.buf))
	c.op(api.OpHalt) // L2

	buf := c.bytes()
	binary.LittleEndian.PutUint32(buf[jmpImmStart:], ld)
	binary.LittleEndian.PutUint32(buf[jmpImmStart+4+4:], l0)
	binary.LittleEndian.PutUint32(buf[jmpImmStart+4+4+4:], l1)
	binary.LittleEndian.PutUint32(buf[jmpImmStart+4+4+4+4:], l2)

	err := runCode(t, env, buf, Options{})
	require.NoError(t, err)
}

func TestDupThenDropIsNoop(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(42)
	c.op(api.OpDup)
	c.op(api.OpDrop)
	c.op(api.OpHalt)

	require.NoError(t, runCode(t, env, c.bytes(), Options{}))
	assert.Equal(t, 1, env.stack.GetPos())
}

func TestSwap2TwiceIsNoop(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(1)
	c.op(api.OpI32Const).u32(2)
	c.op(api.OpSwap2)
	c.op(api.OpSwap2)
	c.op(api.OpHalt)

	require.NoError(t, runCode(t, env, c.bytes(), Options{}))
	a, err := env.stack.At(0)
	require.NoError(t, err)
	b, err := env.stack.At(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, *a)
	assert.EqualValues(t, 2, *b)
}

func TestSelectPicksCondOperand(t *testing.T) {
	cases := []struct {
		cond     uint32
		expected uint32
	}{
		{1, 0xA},
		{0, 0xB},
	}
	for _, tc := range cases {
		env := newTestEnv(0, 8, 8)
		c := new(code)
		c.op(api.OpI32Const).u32(0xB) // val2, pushed first (deepest)
		c.op(api.OpI32Const).u32(0xA) // val1
		c.op(api.OpI32Const).u32(tc.cond)
		c.op(api.OpSelect)
		c.op(api.OpHalt)

		require.NoError(t, runCode(t, env, c.bytes(), Options{}))
		top, err := env.stack.At(0)
		require.NoError(t, err)
		assert.EqualValues(t, tc.expected, uint32(*top))
	}
}

func TestGrowMemoryZeroLeavesLengthUnchanged(t *testing.T) {
	env := newTestEnv(16, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(0)
	c.op(api.OpGrowMemory)
	c.op(api.OpHalt)

	require.NoError(t, runCode(t, env, c.bytes(), Options{}))
	top, err := env.stack.At(0)
	require.NoError(t, err)
	assert.EqualValues(t, 16, *top)
	assert.Equal(t, 16, len(env.mem))
}

func TestDivideByZeroIsFatalByDefault(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(1)
	c.op(api.OpI32Const).u32(0)
	c.op(api.OpI32DivU)
	c.op(api.OpHalt)

	err := runCode(t, env, c.bytes(), Options{})
	require.Error(t, err)
	var fault *api.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, api.ErrorKindDivideByZero, fault.Kind)
}

func TestDivideByZeroWrapsWhenConfigured(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(1)
	c.op(api.OpI32Const).u32(0)
	c.op(api.OpI32DivU)
	c.op(api.OpHalt)

	err := runCode(t, env, c.bytes(), Options{WrappingDivideByZero: true})
	require.NoError(t, err)
	top, err := env.stack.At(0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, *top)
}

func TestEmptyModuleFailsAtFirstFetch(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	err := runCode(t, env, []byte{}, Options{})
	require.Error(t, err)
	var fault *api.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, api.ErrorKindBounds, fault.Kind)
}

func TestI32AddRoundTripsModulo2To32(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI32Const).u32(0xFFFFFFFF)
	c.op(api.OpI32Const).u32(2)
	c.op(api.OpI32Add)
	c.op(api.OpHalt)

	require.NoError(t, runCode(t, env, c.bytes(), Options{}))
	top, err := env.stack.At(0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, int32(uint32(*top)))
}

func TestExtendWrapRoundTrip(t *testing.T) {
	env := newTestEnv(0, 8, 8)
	c := new(code)
	c.op(api.OpI64Const).u64(0xFFFFFFFFFFFFFFFF) // -1 as i64
	c.op(api.OpI32WrapI64)
	c.op(api.OpI64ExtendI32S)
	c.op(api.OpHalt)

	require.NoError(t, runCode(t, env, c.bytes(), Options{}))
	top, err := env.stack.At(0)
	require.NoError(t, err)
	assert.EqualValues(t, -1, int64(*top))
}

func TestRunMemoryInitializersCopiesRecords(t *testing.T) {
	env := newTestEnv(16, 8, 8)

	var buf []byte
	putU32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}
	putU32(2) // addr
	putU32(3) // len
	buf = append(buf, 0xAA, 0xBB, 0xCC)

	module := &hmodule.Module{MemoryInitializers: buf}
	require.NoError(t, RunMemoryInitializers(module, env))
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC}, env.mem[2:5])
}

func TestRunMemoryInitializersMidRecordFailureIsBounds(t *testing.T) {
	env := newTestEnv(16, 8, 8)
	buf := []byte{0x00, 0x00, 0x00, 0x00, 0x05, 0x00} // addr ok, len truncated
	module := &hmodule.Module{MemoryInitializers: buf}

	err := RunMemoryInitializers(module, env)
	require.Error(t, err)
	var fault *api.Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, api.ErrorKindBounds, fault.Kind)
}
