// Package xspi drives the OCTOSPI external-memory bus controllers, either
// at register level (indirect access) or as a memory-mapped Hyperbus.
//
// A controller is claimed exactly once; the claimed handle starts out
// Disabled. Configuring it consumes the handle and returns the controller in
// its operating state, so operations issued from the wrong lifecycle state
// do not compile. The Hyperbus path ends in a terminal memory-mapped state
// that yields a raw addressable range instead of a further handle.
//
// Clock gating and reset for a controller, and the validity of the pin set
// routed to it, are the caller's concern and must be settled before Claim.
package xspi

import (
	"errors"

	"tinygo.org/x/drivers"

	"github.com/parallelsystems/stm32h7xx-hal/internal/mmio"
)

// OCTOSPI errors.
var (
	ErrBadFrequency      = errors.New("xspi: frequency not reachable with an 8-bit divider")
	ErrBusyTimeout       = errors.New("xspi: controller stuck busy")
	ErrControllerClaimed = errors.New("xspi: controller already claimed")
	ErrInvalidConfig     = errors.New("xspi: invalid configuration")
	ErrUnsupported       = errors.New("xspi: unsupported transfer")
)

// busyPollLimit bounds every wait on a status flag. A stalled controller
// surfaces ErrBusyTimeout instead of hanging the caller.
const busyPollLimit = 1_000_000

// OSPI represents one OCTOSPI controller instance.
type OSPI struct {
	hw *ospiHW
	// memBase is where the controller exposes a mapped device.
	memBase uintptr
	// cshtMax is the widest chip-select-high time the instance supports.
	cshtMax uint8
	claimed bool
}

// Claim hands out the single live handle for the controller, in the
// Disabled state the hardware is left in by reset. ErrControllerClaimed is
// returned while a previously claimed handle is live.
func (o *OSPI) Claim() (Disabled, error) {
	if o.claimed {
		return Disabled{}, ErrControllerClaimed
	}
	o.claimed = true
	return Disabled{periph: o}, nil
}

// Unclaim releases the controller so it may be claimed again.
func (d Disabled) Unclaim() {
	d.periph.claimed = false
}

// Disabled is a claimed controller that has not been configured.
type Disabled struct {
	periph *OSPI
}

// waitNotBusy polls the BUSY flag with a bounded spin.
func (o *OSPI) waitNotBusy() error {
	for i := 0; i < busyPollLimit; i++ {
		if !o.hw.SR.HasBits(1 << srBUSYPos) {
			return nil
		}
	}
	return ErrBusyTimeout
}

// Configure programs the controller for register-level access and enables
// it. kernelHz is the OCTOSPI kernel clock selected in the RCC. On failure
// the controller is left disabled and the handle remains usable.
func (d Disabled) Configure(cfg Config, kernelHz uint32) (*OctoSPI, error) {
	o := d.periph
	hw := o.hw

	// Disable the controller first and let any straggling transaction
	// drain, so that every failure below leaves it disabled.
	hw.CR.Set(0)
	if err := o.waitNotBusy(); err != nil {
		return nil, err
	}

	cfg, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	plan, err := solveTiming(kernelHz, cfg.Frequency, 0)
	if err != nil {
		return nil, err
	}

	// Clear all pending status flags.
	hw.FCR.Set(fcrClearAll)

	// Indirect functional mode, FIFO threshold.
	hw.CR.Set(fmodeIndirectWrite<<crFMODEPos |
		uint32(cfg.FifoThreshold-1)<<crFTHRESPos)

	// Standard-frame device. DEVSIZE is forced to maximum: even when
	// addressing is unused, the flash-size violation check can trigger.
	hw.DCR1.Set(mtypStandard<<dcr1MTYPPos | devsizeMax<<dcr1DEVSIZEPos)

	// Address and data phases on the configured lanes; no instruction
	// phase by default, transactions program their own CCR.
	lanes := cfg.Width.regValue()
	hw.CCR.Set(lanes<<ccrDMODEPos | lanes<<ccrADMODEPos)

	// The prescaler field holds divisor-1.
	hw.DCR2.Set((plan.Divisor - 1) << dcr2PrescalerPos)

	// Shift sampling by half a cycle when sampling on the falling edge.
	// This path never enables DDR, which the shift is incompatible with.
	tcr := uint32(cfg.DummyCycles) << tcrDCYCPos
	if cfg.SamplingEdge == SamplingEdgeFalling {
		tcr |= 1 << tcrSSHIFTPos
	}
	hw.TCR.Set(tcr)

	hw.CR.SetBits(1 << crENPos)

	return &OctoSPI{periph: o, width: cfg.Width, plan: plan}, nil
}

// OctoSPI is a configured controller in indirect-access mode. Data moves
// through blocking register-level transactions; the type satisfies
// drivers.SPI for single-direction transfers.
type OctoSPI struct {
	periph *OSPI
	width  LaneWidth
	plan   TimingPlan
}

// Timing reports the clocking resolved for the bus.
func (o *OctoSPI) Timing() TimingPlan {
	return o.plan
}

// NoAddress marks a transaction without an address phase.
const NoAddress = ^uint32(0)

// Write issues a blocking indirect write transaction: the instruction, an
// optional address, then data shifted out on the configured lanes.
func (o *OctoSPI) Write(instruction uint8, addr uint32, data []byte) error {
	return o.transact(fmodeIndirectWrite, uint32(instruction), true, addr, data, false)
}

// Read issues a blocking indirect read transaction. The configured dummy
// cycles are inserted between the address and data phases.
func (o *OctoSPI) Read(instruction uint8, addr uint32, data []byte) error {
	return o.transact(fmodeIndirectRead, uint32(instruction), true, addr, data, true)
}

// Tx satisfies drivers.SPI for single-direction transfers: a bare data
// phase shifted out when only w is given, shifted in when only r is given.
// The controller moves data half-duplex, so a simultaneous write+read is
// reported as unsupported rather than silently mangled.
func (o *OctoSPI) Tx(w, r []byte) error {
	switch {
	case len(w) > 0 && len(r) > 0:
		return ErrUnsupported
	case len(w) > 0:
		return o.transact(fmodeIndirectWrite, 0, false, NoAddress, w, false)
	case len(r) > 0:
		return o.transact(fmodeIndirectRead, 0, false, NoAddress, r, true)
	}
	return nil
}

// Transfer is full-duplex by contract, which the controller cannot honor.
func (o *OctoSPI) Transfer(b byte) (byte, error) {
	return 0, ErrUnsupported
}

var _ drivers.SPI = (*OctoSPI)(nil)

func (o *OctoSPI) waitFlag(pos uint8) error {
	hw := o.periph.hw
	for i := 0; i < busyPollLimit; i++ {
		if hw.SR.HasBits(1 << pos) {
			return nil
		}
	}
	return ErrBusyTimeout
}

func (o *OctoSPI) fifoLevel() uint32 {
	return o.periph.hw.SR.Get() >> srFLEVELPos & srFLEVELMsk
}

// transact runs one indirect transaction to completion. The FIFO data
// register must be accessed byte-wide or it pops/pushes whole words.
func (o *OctoSPI) transact(fmode uint32, instruction uint32, hasInstruction bool, addr uint32, data []byte, read bool) error {
	hw := o.periph.hw
	if err := o.periph.waitNotBusy(); err != nil {
		return err
	}
	hw.FCR.Set(fcrClearAll)
	hw.CR.ReplaceBits(fmode, crFMODEMsk, crFMODEPos)

	if len(data) > 0 {
		hw.DLR.Set(uint32(len(data)) - 1)
	}

	lanes := o.width.regValue()
	var ccr uint32
	if hasInstruction {
		ccr |= lanes << ccrIMODEPos
	}
	if addr != NoAddress {
		ccr |= lanes<<ccrADMODEPos | adsize32bit<<ccrADSIZEPos
	}
	if len(data) > 0 {
		ccr |= lanes << ccrDMODEPos
	}
	hw.CCR.Set(ccr)

	// Writing the instruction, then the address, arms the transaction; with
	// a data phase it proceeds as the FIFO is serviced.
	if hasInstruction {
		hw.IR.Set(instruction)
	}
	if addr != NoAddress {
		hw.AR.Set(addr)
	}

	dr := mmio.ByteView(&hw.DR)
	for i := 0; i < len(data); i++ {
		if read {
			if err := o.waitRxAvailable(); err != nil {
				return err
			}
			data[i] = dr.Get()
		} else {
			if err := o.waitTxRoom(); err != nil {
				return err
			}
			dr.Set(data[i])
		}
	}

	if err := o.waitFlag(srTCFPos); err != nil {
		return err
	}
	hw.FCR.Set(1 << srTCFPos)
	return nil
}

func (o *OctoSPI) waitRxAvailable() error {
	for i := 0; i < busyPollLimit; i++ {
		if o.fifoLevel() > 0 {
			return nil
		}
	}
	return ErrBusyTimeout
}

func (o *OctoSPI) waitTxRoom() error {
	for i := 0; i < busyPollLimit; i++ {
		if o.fifoLevel() < fifoDepth {
			return nil
		}
	}
	return ErrBusyTimeout
}
