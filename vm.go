package hexagone

import (
	"github.com/losfair/hexagone/api"
	"github.com/losfair/hexagone/internal/engine"
)

// VM drives one Environment through a Module's memory initializers and
// opcode stream. A VM is single-use for memory initialization: per the
// embedder contract, RunMemoryInitializers may be called at most once, and
// VM is what enforces that restriction (internal/engine does not track it,
// since it only ever sees one call at a time).
type VM struct {
	env             api.Environment
	cfg             *Config
	memoryInitsDone bool
}

// NewVM builds a VM over env using cfg. A nil cfg is equivalent to
// NewConfig().
func NewVM(env api.Environment, cfg *Config) *VM {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &VM{env: env, cfg: cfg}
}

// RunMemoryInitializers replays module's memory-initializer records into
// the VM's Environment. Calling this a second time on the same VM returns
// an *Error wrapping ErrorKindGeneric without touching the Environment.
func (vm *VM) RunMemoryInitializers(module *Module) error {
	if vm.memoryInitsDone {
		return api.NewFault(api.ErrorKindGeneric, "memory initializers already applied for this VM")
	}
	vm.memoryInitsDone = true
	return engine.RunMemoryInitializers(module.internal, vm.env)
}

// Run executes module's opcode stream from position 0 until Halt or a
// fatal condition. It may be called any number of times on the same VM
// (e.g. the embedder pattern of running memory initializers once and then
// invoking distinct entry points across several Run calls that all jump
// into the same code stream).
func (vm *VM) Run(module *Module) error {
	return engine.Run(module.internal, vm.env, engine.Options{
		WrappingDivideByZero: vm.cfg.wrappingDivideByZero,
	})
}
