package api

import "fmt"

// Fault is the concrete error value raised for every fatal condition in the
// closed ErrorKind taxonomy. Internal packages (tape, hmodule, hmemory,
// engine) construct and return/panic these directly rather than wrapping a
// generic error string, so a caller at any layer can recover the ErrorKind
// with a single type assertion instead of string-matching.
type Fault struct {
	Kind ErrorKind
	Msg  string

	// Pos is the code-tape position at which the fault was raised, when
	// known. Zero-value (0) is a legitimate position, so check HasPos.
	Pos    uint64
	HasPos bool
}

// NewFault builds a Fault for kind with a descriptive message.
func NewFault(kind ErrorKind, msg string) *Fault {
	return &Fault{Kind: kind, Msg: msg}
}

// NewFaultAt is NewFault plus the code position the fault occurred at.
func NewFaultAt(kind ErrorKind, pos uint64, msg string) *Fault {
	return &Fault{Kind: kind, Msg: msg, Pos: pos, HasPos: true}
}

func (f *Fault) Error() string {
	if f.HasPos {
		return fmt.Sprintf("%s: %s (at code position %d)", f.Kind, f.Msg, f.Pos)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

// Status returns the externally observable status code, per ErrorKind.Status.
func (f *Fault) Status() int32 {
	return f.Kind.Status()
}

// Bounds is a convenience constructor for the single most common fault: any
// Tape, Memory, or call-stack access outside the bounds of its backing
// buffer.
func Bounds(msg string) *Fault {
	return NewFault(ErrorKindBounds, msg)
}
