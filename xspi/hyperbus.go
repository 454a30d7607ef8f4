package xspi

import "fmt"

// Hyperbus is a controller configured for a Hyperbus memory device but not
// yet mapped. The only transition out is MapToMemory, and it is one-way.
type Hyperbus struct {
	periph    *OSPI
	plan      TimingPlan
	sizeOrder uint8
}

// ConfigureHyperbus programs the controller for a wide DDR Hyperbus memory
// device. kernelHz is the OCTOSPI kernel clock selected in the RCC. The
// controller is left disabled; MapToMemory performs the terminal switch to
// memory-mapped operation. On failure the controller stays disabled and the
// handle remains usable.
func (d Disabled) ConfigureHyperbus(cfg HyperbusConfig, kernelHz uint32) (Hyperbus, error) {
	o := d.periph
	hw := o.hw

	// Disable the controller first and let any straggling transaction
	// drain, so that every failure below leaves it disabled.
	hw.CR.Set(0)
	if err := o.waitNotBusy(); err != nil {
		return Hyperbus{}, err
	}

	if err := cfg.validate(o.cshtMax); err != nil {
		return Hyperbus{}, err
	}
	plan, err := solveTiming(kernelHz, cfg.frequency, cfg.refreshIntervalUS)
	if err != nil {
		return Hyperbus{}, err
	}

	// Clear all pending status flags.
	hw.FCR.Set(fcrClearAll)

	// The functional mode is programmed memory-mapped up front; the
	// controller stays disabled until MapToMemory flips the enable bit.
	hw.CR.Set(fmodeMemoryMapped<<crFMODEPos |
		(defaultFifoThreshold-1)<<crFTHRESPos)

	hw.DCR1.Set(mtypHyperbusMemory<<dcr1MTYPPos |
		uint32(cfg.sizeOrder)<<dcr1DEVSIZEPos |
		uint32(cfg.chipSelectHigh-1)<<dcr1CSHTPos)

	// The prescaler field holds divisor-1.
	hw.DCR2.Set((plan.Divisor - 1) << dcr2PrescalerPos)

	// Restart the transaction when an access crosses between the two halves
	// of the device; see csBoundary.
	hw.DCR3.Set(csBoundary(cfg.sizeOrder) << dcr3CSBOUNDPos)

	// Release chip select often enough for distributed refresh. Zero leaves
	// transaction length unbounded.
	hw.DCR4.Set(plan.RefreshCycles)

	// Eight lanes with DDR on both the address and data phases, 32-bit
	// addresses, data strobe enabled; identical for reads and writes.
	wide := uint32(laneOcto)<<ccrDMODEPos | 1<<ccrDDTRPos | 1<<ccrDQSEPos |
		uint32(laneOcto)<<ccrADMODEPos | 1<<ccrADDTRPos |
		adsize32bit<<ccrADSIZEPos
	hw.CCR.Set(wide)
	hw.WCCR.Set(wide)

	// Hold data a quarter cycle. The sampling shift must stay clear in DDR
	// mode, so the rest of TCR is zero.
	hw.TCR.Set(1 << tcrDHQCPos)

	// Latency configuration: recovery and initial access cycles, fixed
	// latency mode, latency applied on write accesses too (WZL clear).
	hw.HLCR.Set(uint32(cfg.readWriteRecovery)<<hlcrTRWRPos |
		uint32(cfg.accessInitialLatency)<<hlcrTACCPos |
		1<<hlcrLMPos)

	return Hyperbus{periph: o, plan: plan, sizeOrder: cfg.sizeOrder}, nil
}

// Timing reports the clocking resolved for the bus.
func (h Hyperbus) Timing() TimingPlan {
	return h.plan
}

func (h Hyperbus) String() string {
	return fmt.Sprintf("Hyperbus with clock %d Hz; refresh interval: %d cycles",
		h.plan.AchievedHz, h.plan.RefreshCycles)
}

// MapToMemory enables the controller and switches it into memory-mapped
// operation, after which the device contents appear as a linear byte range.
// The transition is one-way: the control registers are handed over to the
// controller and no further handle is produced.
func (h Hyperbus) MapToMemory() (Memory, error) {
	o := h.periph
	hw := o.hw

	hw.CR.SetBits(1 << crENPos)
	if err := o.waitNotBusy(); err != nil {
		return Memory{}, err
	}
	hw.CR.ReplaceBits(fmodeMemoryMapped, crFMODEMsk, crFMODEPos)
	if err := o.waitNotBusy(); err != nil {
		return Memory{}, err
	}

	return Memory{base: o.memBase, size: uintptr(1) << h.sizeOrder}, nil
}

// Memory is the directly addressable view of a mapped Hyperbus device.
type Memory struct {
	base uintptr
	size uintptr
}

// Addr returns the address of the first mapped byte.
func (m Memory) Addr() uintptr { return m.base }

// Size returns the mapped length in bytes, 2 to the device size order.
func (m Memory) Size() int { return int(m.size) }
