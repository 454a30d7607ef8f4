//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Reg32 is a 32-bit hardware register. All accesses are volatile MMIO
// operations.
type Reg32 = volatile.Register32

// Reg8 is a byte-wide hardware register.
type Reg8 = volatile.Register8

// ByteView reinterprets a 32-bit register as its lowest byte. FIFO-style
// data registers must be accessed with transfers matching the data width,
// or the FIFO pops/pushes more bytes than intended.
func ByteView(r *Reg32) *Reg8 {
	return (*Reg8)(unsafe.Pointer(r))
}
