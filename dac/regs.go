package dac

import "github.com/parallelsystems/stm32h7xx-hal/internal/mmio"

// dacHW is the register block of one dual-channel DAC.
type dacHW struct {
	CR      mmio.Reg32 // 0x00 control
	SWTRGR  mmio.Reg32 // 0x04 software trigger
	DHR12R1 mmio.Reg32 // 0x08 channel 1 12-bit right-aligned data holding
	DHR12L1 mmio.Reg32 // 0x0C
	DHR8R1  mmio.Reg32 // 0x10
	DHR12R2 mmio.Reg32 // 0x14 channel 2 12-bit right-aligned data holding
	DHR12L2 mmio.Reg32 // 0x18
	DHR8R2  mmio.Reg32 // 0x1C
	DHR12RD mmio.Reg32 // 0x20 dual-channel data holding
	DHR12LD mmio.Reg32 // 0x24
	DHR8RD  mmio.Reg32 // 0x28
	DOR1    mmio.Reg32 // 0x2C channel 1 data output
	DOR2    mmio.Reg32 // 0x30 channel 2 data output
	SR      mmio.Reg32 // 0x34 status
	CCR     mmio.Reg32 // 0x38 calibration control
	MCR     mmio.Reg32 // 0x3C mode control
	SHSR1   mmio.Reg32 // 0x40 sample-and-hold sample time
	SHSR2   mmio.Reg32 // 0x44
	SHHR    mmio.Reg32 // 0x48 sample-and-hold hold time
	SHRR    mmio.Reg32 // 0x4C sample-and-hold refresh time
}

// Register field positions. Channel 2's fields sit 16 bits above channel 1's
// in CR, SR, CCR and MCR.
const (
	crEN1Pos  = 0
	crCEN1Pos = 14
	crEN2Pos  = 16
	crCEN2Pos = 30

	srCalFlag1Pos = 14
	srCalFlag2Pos = 30

	mcrMode1Pos = 0
	mcrMode2Pos = 16
	mcrModeMsk  = 0x7

	ccrTrim1Pos = 0
	ccrTrim2Pos = 16
	ccrTrimMsk  = 0x1F
)

// MODE field values with the channel connected to its external pin.
const (
	modeBuffered   = 0x0
	modeUnbuffered = 0x2
)

// The OTRIM field is five bits wide; the trim search cannot go further.
const maxTrim = 31

// chRegs resolves the per-channel register fields. Both channels run the
// same algorithms; only bit positions and data registers differ.
type chRegs struct {
	enPos   uint8
	cenPos  uint8
	calPos  uint8
	modePos uint8
	trimPos uint8
	dhr     *mmio.Reg32
	dor     *mmio.Reg32
}

func (c channel) regs() chRegs {
	hw := c.dac.hw
	if c.index == 0 {
		return chRegs{
			enPos:   crEN1Pos,
			cenPos:  crCEN1Pos,
			calPos:  srCalFlag1Pos,
			modePos: mcrMode1Pos,
			trimPos: ccrTrim1Pos,
			dhr:     &hw.DHR12R1,
			dor:     &hw.DOR1,
		}
	}
	return chRegs{
		enPos:   crEN2Pos,
		cenPos:  crCEN2Pos,
		calPos:  srCalFlag2Pos,
		modePos: mcrMode2Pos,
		trimPos: ccrTrim2Pos,
		dhr:     &hw.DHR12R2,
		dor:     &hw.DOR2,
	}
}
