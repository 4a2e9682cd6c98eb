// Package kernel provides the shared error type and low-level memory helpers
// used by the memory-management subsystems.
package kernel

// Error describes a recoverable kernel error. Kernel errors are defined as
// global variables pointing to an Error value so that callers can compare
// them by identity; invariant violations do not produce an Error, they
// terminate the offending context via panic.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
