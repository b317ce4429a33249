//go:build !windows

package cursor

// New returns the platform cursor controller. Outside Windows the pointer is
// captured through input grabs instead, so this is a no-op.
func New() (Controller, error) {
	return Nop{}, nil
}
