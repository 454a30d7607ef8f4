//go:build tinygo

package xspi

import "unsafe"

// OCTOSPI controller instances, with the fixed ranges their mapped devices
// occupy in the system address space.
var (
	OCTOSPI1 = &OSPI{
		hw:      (*ospiHW)(unsafe.Pointer(uintptr(0x5200_5000))),
		memBase: 0x9000_0000,
		cshtMax: 64,
	}
	OCTOSPI2 = &OSPI{
		hw:      (*ospiHW)(unsafe.Pointer(uintptr(0x5200_A000))),
		memBase: 0x7000_0000,
		cshtMax: 64,
	}
)

// Bytes returns the mapped device contents as a byte slice.
func (m Memory) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(m.base)), m.size)
}
