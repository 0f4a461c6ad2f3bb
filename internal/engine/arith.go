package engine

import "math/bits"

// The functions below implement the wrapping i32/i64 arithmetic family.
// Every binary op follows the reference VM's truncate-operate-rewiden
// shape (see I32Add: "((a as i32) + (b as i32)) as u64 as i64"): operate
// in the native fixed-width unsigned type, which wraps on overflow by
// construction, then rewiden the bit pattern back into the 64-bit cell the
// operand stack stores everything as.

func i32Add(a, b uint32) uint32 { return a + b }
func i32Sub(a, b uint32) uint32 { return a - b }
func i32Mul(a, b uint32) uint32 { return a * b }

func i32DivU(a, b uint32) uint32 { return a / b }
func i32DivS(a, b uint32) uint32 { return uint32(int32(a) / int32(b)) }
func i32RemU(a, b uint32) uint32 { return a % b }
func i32RemS(a, b uint32) uint32 { return uint32(int32(a) % int32(b)) }

func i32And(a, b uint32) uint32 { return a & b }
func i32Or(a, b uint32) uint32  { return a | b }
func i32Xor(a, b uint32) uint32 { return a ^ b }

func i32Shl(a, amt uint32) uint32  { return a << (amt % 32) }
func i32ShrU(a, amt uint32) uint32 { return a >> (amt % 32) }
func i32ShrS(a, amt uint32) uint32 { return uint32(int32(a) >> (amt % 32)) }
func i32Rotl(a, amt uint32) uint32 { return bits.RotateLeft32(a, int(amt%32)) }
func i32Rotr(a, amt uint32) uint32 { return bits.RotateLeft32(a, -int(amt%32)) }

func i32Clz(a uint32) uint32    { return uint32(bits.LeadingZeros32(a)) }
func i32Ctz(a uint32) uint32    { return uint32(bits.TrailingZeros32(a)) }
func i32Popcnt(a uint32) uint32 { return uint32(bits.OnesCount32(a)) }

func i64Add(a, b uint64) uint64 { return a + b }
func i64Sub(a, b uint64) uint64 { return a - b }
func i64Mul(a, b uint64) uint64 { return a * b }

func i64DivU(a, b uint64) uint64 { return a / b }
func i64DivS(a, b uint64) uint64 { return uint64(int64(a) / int64(b)) }
func i64RemU(a, b uint64) uint64 { return a % b }
func i64RemS(a, b uint64) uint64 { return uint64(int64(a) % int64(b)) }

func i64And(a, b uint64) uint64 { return a & b }
func i64Or(a, b uint64) uint64  { return a | b }
func i64Xor(a, b uint64) uint64 { return a ^ b }

func i64Shl(a uint64, amt uint64) uint64  { return a << (amt % 64) }
func i64ShrU(a uint64, amt uint64) uint64 { return a >> (amt % 64) }
func i64ShrS(a uint64, amt uint64) uint64 { return uint64(int64(a) >> (amt % 64)) }
func i64Rotl(a, amt uint64) uint64 { return bits.RotateLeft64(a, int(amt%64)) }
func i64Rotr(a, amt uint64) uint64 { return bits.RotateLeft64(a, -int(amt%64)) }

func i64Clz(a uint64) uint64    { return uint64(bits.LeadingZeros64(a)) }
func i64Ctz(a uint64) uint64    { return uint64(bits.TrailingZeros64(a)) }
func i64Popcnt(a uint64) uint64 { return uint64(bits.OnesCount64(a)) }

// boolCell converts a Go bool comparison result into the 0/1 i64 cell the
// relational opcodes push.
func boolCell(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
