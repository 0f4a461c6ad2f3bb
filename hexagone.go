// Package hexagone is an embeddable interpreter for a small stack-based
// bytecode: a closed set of opcodes operating on wrapping 32- and 64-bit
// integers, a linear memory, a call stack with per-frame locals, and a
// guest-addressable slot array that can be reallocated exactly once per run.
//
// A typical embedder compiles a module, builds an Environment (usually
// BasicEnvironment), and drives it through a VM:
//
//	module, err := hexagone.Compile(buf)
//	env := hexagone.NewBasicEnvironment(64*1024, 256, 256, nil)
//	vm := hexagone.NewVM(env, hexagone.NewConfig())
//	if err := vm.RunMemoryInitializers(module); err != nil {
//		// handle fault
//	}
//	if err := vm.Run(module); err != nil {
//		// handle fault
//	}
//
// See api.Environment for the full capability contract an embedder's own
// Environment implementation must satisfy if BasicEnvironment does not fit
// (e.g. memory backed by an mmap'd region shared with another process).
package hexagone
