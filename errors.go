package hexagone

import (
	"errors"

	"github.com/losfair/hexagone/api"
)

// Error is the error type every fatal VM condition is reported as. It is an
// alias for api.Fault so that a caller using only the root package never
// needs to import api directly just to assert on a returned error.
type Error = api.Fault

// StatusOf extracts the exit status code spec section 6 assigns to a
// VM.Run/RunMemoryInitializers error: a negative integer identifying the
// ErrorKind. ok is false if err is nil or not a *Error.
func StatusOf(err error) (status int32, ok bool) {
	var fault *api.Fault
	if !errors.As(err, &fault) {
		return 0, false
	}
	return fault.Status(), true
}

// KindOf extracts the ErrorKind from err, the typed counterpart to StatusOf
// for callers that want to switch on the kind itself rather than its status
// code.
func KindOf(err error) (kind api.ErrorKind, ok bool) {
	var fault *api.Fault
	if !errors.As(err, &fault) {
		return 0, false
	}
	return fault.Kind, true
}
