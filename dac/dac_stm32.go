//go:build tinygo

package dac

import "unsafe"

// DAC1 is the DAC block on APB1.
var DAC1 = &DAC{
	hw: (*dacHW)(unsafe.Pointer(uintptr(0x4000_7400))),
}
