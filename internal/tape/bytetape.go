package tape

import (
	"encoding/binary"

	"github.com/losfair/hexagone/api"
)

// NextU32 reads a little-endian uint32 from a byte tape and advances the
// cursor by 4. Mirrors the reference TapeU8::next_u32 extension trait,
// restricted here to Tape[byte] since Go methods cannot be specialized by
// type parameter.
func NextU32(t *Tape[byte]) (uint32, error) {
	b, err := t.NextMany(4)
	if err != nil {
		return 0, api.Bounds("tape exhausted reading u32")
	}
	return binary.LittleEndian.Uint32(b), nil
}

// NextU64 reads a little-endian uint64 from a byte tape and advances the
// cursor by 8.
func NextU64(t *Tape[byte]) (uint64, error) {
	b, err := t.NextMany(8)
	if err != nil {
		return 0, api.Bounds("tape exhausted reading u64")
	}
	return binary.LittleEndian.Uint64(b), nil
}
