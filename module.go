package hexagone

import (
	"github.com/losfair/hexagone/internal/hmodule"
)

// Module is a decoded, framing-validated module ready to drive a VM. The
// underlying byte slices alias the buffer passed to Compile; the caller
// must not mutate that buffer afterward.
type Module struct {
	internal *hmodule.Module
}

// Compile decodes a module's binary framing: a little-endian u32 length
// prefix, that many bytes of memory-initializer records, then the opcode
// stream. It returns an *Error wrapping ErrorKindBounds on any framing
// violation.
func Compile(buf []byte) (*Module, error) {
	m, err := hmodule.FromRaw(buf)
	if err != nil {
		return nil, err
	}
	return &Module{internal: m}, nil
}
