package device

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// UinputPath is the uinput control node.
const UinputPath = "/dev/uinput"

// Preflight checks that the keyboard node is readable and uinput is
// writable. It turns permission problems into readable errors before any
// grab is attempted.
func Preflight(devicePath string) error {
	return preflight(devicePath, UinputPath)
}

func preflight(devicePath, uinputPath string) error {
	if err := unix.Access(devicePath, unix.R_OK); err != nil {
		return fmt.Errorf("keyboard %s not readable: %w", devicePath, err)
	}
	if err := unix.Access(uinputPath, unix.W_OK); err != nil {
		return fmt.Errorf("%s not writable: %w", uinputPath, err)
	}
	return nil
}
