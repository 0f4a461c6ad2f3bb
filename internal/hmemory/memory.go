// Package hmemory implements the guest's bounds-checked, little-endian
// linear memory: ReadU8/16/32/64 and WriteU8/16/32/64 over a growable byte
// buffer. Grounded on the reference VM's inline run_memory_initializers
// bounds-check shape (addr < len && addr+n <= len) generalized to every
// access width the opcode set needs.
package hmemory

import (
	"encoding/binary"

	"github.com/losfair/hexagone/api"
)

// Memory is the guest's linear memory buffer.
type Memory struct {
	data []byte
}

// New wraps an initial byte buffer as Memory. A nil or empty buf is valid
// and represents a zero-length memory.
func New(buf []byte) *Memory {
	return &Memory{data: buf}
}

// Len returns the current memory length in bytes.
func (m *Memory) Len() int {
	return len(m.data)
}

// Bytes exposes the full backing buffer, e.g. for an embedder's Memory()
// accessor or for seeding initializers.
func (m *Memory) Bytes() []byte {
	return m.data
}

// Grow extends the memory by delta bytes, zero-initialized, and returns the
// length prior to growth.
func (m *Memory) Grow(delta uint32) uint32 {
	old := uint32(len(m.data))
	if delta == 0 {
		return old
	}
	grown := make([]byte, uint64(old)+uint64(delta))
	copy(grown, m.data)
	m.data = grown
	return old
}

func (m *Memory) checkBounds(addr uint64, width uint64) error {
	if addr+width > uint64(len(m.data)) || addr+width < addr {
		return api.Bounds("memory access out of bounds")
	}
	return nil
}

// ReadU8 reads one byte at addr.
func (m *Memory) ReadU8(addr uint64) (uint8, error) {
	if err := m.checkBounds(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// ReadU16 reads a little-endian uint16 at addr.
func (m *Memory) ReadU16(addr uint64) (uint16, error) {
	if err := m.checkBounds(addr, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[addr : addr+2]), nil
}

// ReadU32 reads a little-endian uint32 at addr.
func (m *Memory) ReadU32(addr uint64) (uint32, error) {
	if err := m.checkBounds(addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr : addr+4]), nil
}

// ReadU64 reads a little-endian uint64 at addr.
func (m *Memory) ReadU64(addr uint64) (uint64, error) {
	if err := m.checkBounds(addr, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[addr : addr+8]), nil
}

// WriteU8 writes one byte at addr.
func (m *Memory) WriteU8(addr uint64, v uint8) error {
	if err := m.checkBounds(addr, 1); err != nil {
		return err
	}
	m.data[addr] = v
	return nil
}

// WriteU16 writes a little-endian uint16 at addr.
func (m *Memory) WriteU16(addr uint64, v uint16) error {
	if err := m.checkBounds(addr, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[addr:addr+2], v)
	return nil
}

// WriteU32 writes a little-endian uint32 at addr.
func (m *Memory) WriteU32(addr uint64, v uint32) error {
	if err := m.checkBounds(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[addr:addr+4], v)
	return nil
}

// WriteU64 writes a little-endian uint64 at addr.
func (m *Memory) WriteU64(addr uint64, v uint64) error {
	if err := m.checkBounds(addr, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[addr:addr+8], v)
	return nil
}
