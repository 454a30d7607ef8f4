package xspi

import "github.com/parallelsystems/stm32h7xx-hal/internal/mmio"

// ospiHW is the register block of one OCTOSPI controller.
type ospiHW struct {
	CR    mmio.Reg32     // 0x000 control
	_     mmio.Reg32     // 0x004
	DCR1  mmio.Reg32     // 0x008 device configuration 1
	DCR2  mmio.Reg32     // 0x00C device configuration 2
	DCR3  mmio.Reg32     // 0x010 device configuration 3
	DCR4  mmio.Reg32     // 0x014 device configuration 4
	_     [2]mmio.Reg32  // 0x018
	SR    mmio.Reg32     // 0x020 status
	FCR   mmio.Reg32     // 0x024 flag clear
	_     [6]mmio.Reg32  // 0x028
	DLR   mmio.Reg32     // 0x040 data length
	_     mmio.Reg32     // 0x044
	AR    mmio.Reg32     // 0x048 address
	_     mmio.Reg32     // 0x04C
	DR    mmio.Reg32     // 0x050 data FIFO
	_     [11]mmio.Reg32 // 0x054
	PSMKR mmio.Reg32     // 0x080 polling status mask
	_     mmio.Reg32     // 0x084
	PSMAR mmio.Reg32     // 0x088 polling status match
	_     mmio.Reg32     // 0x08C
	PIR   mmio.Reg32     // 0x090 polling interval
	_     [27]mmio.Reg32 // 0x094
	CCR   mmio.Reg32     // 0x100 communication configuration (reads)
	_     mmio.Reg32     // 0x104
	TCR   mmio.Reg32     // 0x108 timing configuration
	_     mmio.Reg32     // 0x10C
	IR    mmio.Reg32     // 0x110 instruction
	_     [3]mmio.Reg32  // 0x114
	ABR   mmio.Reg32     // 0x120 alternate bytes
	_     [3]mmio.Reg32  // 0x124
	LPTR  mmio.Reg32     // 0x130 low-power timeout
	_     [3]mmio.Reg32  // 0x134
	WPCCR mmio.Reg32     // 0x140 wrap communication configuration
	_     mmio.Reg32     // 0x144
	WPTCR mmio.Reg32     // 0x148 wrap timing configuration
	_     mmio.Reg32     // 0x14C
	WPIR  mmio.Reg32     // 0x150 wrap instruction
	_     [3]mmio.Reg32  // 0x154
	WPABR mmio.Reg32     // 0x160 wrap alternate bytes
	_     [7]mmio.Reg32  // 0x164
	WCCR  mmio.Reg32     // 0x180 communication configuration (writes)
	_     mmio.Reg32     // 0x184
	WTCR  mmio.Reg32     // 0x188 write timing configuration
	_     mmio.Reg32     // 0x18C
	WIR   mmio.Reg32     // 0x190 write instruction
	_     [3]mmio.Reg32  // 0x194
	WABR  mmio.Reg32     // 0x1A0 write alternate bytes
	_     [23]mmio.Reg32 // 0x1A4
	HLCR  mmio.Reg32     // 0x200 hyperbus latency configuration
}

// CR fields.
const (
	crENPos     = 0
	crFTHRESPos = 8
	crFMODEPos  = 28
	crFMODEMsk  = 0x3

	fmodeIndirectWrite = 0x0
	fmodeIndirectRead  = 0x1
	fmodeMemoryMapped  = 0x3
)

// SR/FCR fields.
const (
	srTEFPos    = 0
	srTCFPos    = 1
	srFTFPos    = 2
	srSMFPos    = 3
	srTOFPos    = 4
	srBUSYPos   = 5
	srFLEVELPos = 8
	srFLEVELMsk = 0x3F

	fcrClearAll = 1<<srTEFPos | 1<<srTCFPos | 1<<srSMFPos | 1<<srTOFPos
)

// DCR1 fields.
const (
	dcr1CSHTPos    = 8
	dcr1DEVSIZEPos = 16
	dcr1MTYPPos    = 24

	mtypStandard       = 0x2
	mtypHyperbusMemory = 0x4

	devsizeMax = 0x1F
)

// DCR2/DCR3 fields. DCR4 is the refresh cycle count in full.
const (
	dcr2PrescalerPos = 0
	dcr3CSBOUNDPos   = 16
)

// CCR/WCCR fields; both registers share one layout.
const (
	ccrIMODEPos  = 0
	ccrADMODEPos = 8
	ccrADDTRPos  = 11
	ccrADSIZEPos = 12
	ccrDMODEPos  = 24
	ccrDDTRPos   = 27
	ccrDQSEPos   = 29

	adsize32bit = 0x3
	laneOcto    = 0x4
)

// TCR fields.
const (
	tcrDCYCPos   = 0
	tcrDHQCPos   = 28
	tcrSSHIFTPos = 30
)

// HLCR fields.
const (
	hlcrLMPos   = 0
	hlcrWZLPos  = 1
	hlcrTACCPos = 8
	hlcrTRWRPos = 16
)

// The data FIFO holds 32 bytes.
const fifoDepth = 32
