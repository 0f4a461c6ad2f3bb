// Package hmodule decodes the module binary framing: a length-prefixed
// memory-initializer blob followed by the raw opcode stream. It is the
// internal counterpart to the public Module type, mirroring how wazero's
// internal/wasm/binary decoder sits behind the public wazero.CompiledModule.
package hmodule

import (
	"encoding/binary"

	"github.com/losfair/hexagone/api"
)

// Module is the decoded, framing-validated view over a module's raw bytes.
// Both slices alias the original input; FromRaw performs no copy.
type Module struct {
	MemoryInitializers []byte
	Code               []byte
}

// FromRaw decodes the little-endian framing described in the module file
// format: bytes 0..4 are the u32 length L of the initializer blob, bytes
// 4..4+L are the blob itself, and the remainder is the opcode stream. Any
// framing violation yields a Bounds fault.
func FromRaw(buf []byte) (*Module, error) {
	if len(buf) < 4 {
		return nil, api.Bounds("module shorter than the 4-byte length prefix")
	}
	initLen := binary.LittleEndian.Uint32(buf[0:4])
	rest := buf[4:]

	if uint64(len(rest)) < uint64(initLen) {
		return nil, api.Bounds("module shorter than its declared initializer length")
	}

	return &Module{
		MemoryInitializers: rest[:initLen],
		Code:               rest[initLen:],
	}, nil
}
