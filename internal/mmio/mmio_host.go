//go:build !tinygo

package mmio

import "unsafe"

// Reg32 mirrors the method set of runtime/volatile.Register32 over plain
// memory, so register programming sequences can run under go test on the
// host against an in-memory image of a peripheral block.
type Reg32 struct {
	reg uint32
}

// Get returns the register value.
func (r *Reg32) Get() uint32 { return r.reg }

// Set stores value in the register.
func (r *Reg32) Set(value uint32) { r.reg = value }

// SetBits sets the bits in mask.
func (r *Reg32) SetBits(mask uint32) { r.reg |= mask }

// ClearBits clears the bits in mask.
func (r *Reg32) ClearBits(mask uint32) { r.reg &^= mask }

// HasBits reports whether any bit in mask is set.
func (r *Reg32) HasBits(mask uint32) bool { return r.reg&mask != 0 }

// ReplaceBits writes value into the field described by mask and pos.
func (r *Reg32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.reg = r.reg&^(mask<<pos) | value<<pos
}

// Reg8 is the byte-wide counterpart of Reg32.
type Reg8 struct {
	reg uint8
}

// Get returns the register value.
func (r *Reg8) Get() uint8 { return r.reg }

// Set stores value in the register.
func (r *Reg8) Set(value uint8) { r.reg = value }

// ByteView reinterprets a 32-bit register as its lowest byte. The host fake
// assumes a little-endian test machine, matching the target's byte order.
func ByteView(r *Reg32) *Reg8 {
	return (*Reg8)(unsafe.Pointer(r))
}
