package xspi

// LaneWidth selects how many data lines a transaction phase uses.
type LaneWidth uint8

const (
	LaneSingle LaneWidth = iota
	LaneDual
	LaneQuad
	LaneOcto
)

// regValue returns the IMODE/ADMODE/DMODE field encoding for the width.
func (w LaneWidth) regValue() uint32 {
	return uint32(w) + 1
}

// SamplingEdge selects the clock edge read data is sampled on for indirect
// transfers. The zero value is Falling: with zero dummy cycles the bus can
// suffer signal contention when sampling on the rising edge, so reads are
// shifted by half a cycle unless the caller asks otherwise. Falling sampling
// is never combined with DDR transfers.
type SamplingEdge uint8

const (
	SamplingEdgeFalling SamplingEdge = iota
	SamplingEdgeRising
)

const defaultFifoThreshold = 4

// Config describes a register-level (indirect access) bus configuration.
// Every field except Frequency has a usable zero value that resolves to the
// documented default when the controller is configured.
type Config struct {
	// Frequency is the desired bus clock in Hz. The achieved clock is the
	// kernel clock divided by the smallest integer divisor that keeps the
	// bus at or below this value.
	Frequency uint32
	// Width is the number of data lines used for the address and data
	// phases. Default is a single lane.
	Width LaneWidth
	// DummyCycles inserted between the address and data phases, 0..31.
	DummyCycles uint8
	// FifoThreshold in bytes, 1..32. Zero selects the default of 4.
	FifoThreshold uint8
	// SamplingEdge for read data.
	SamplingEdge SamplingEdge
}

// resolve fills in defaults and range-checks the result.
func (c Config) resolve() (Config, error) {
	if c.FifoThreshold == 0 {
		c.FifoThreshold = defaultFifoThreshold
	}
	if c.FifoThreshold > fifoDepth || c.DummyCycles > 31 || c.Width > LaneOcto ||
		c.SamplingEdge > SamplingEdgeRising {
		return c, ErrInvalidConfig
	}
	return c, nil
}

// HyperbusConfig describes a Hyperbus memory device hanging off the
// controller. Build one with NewHyperbusConfig and the chained setters:
//
//	cfg := xspi.NewHyperbusConfig(50_000_000).
//		DeviceSizeOrder(24). // 16 MByte
//		RefreshInterval(4).
//		ReadWriteRecovery(4)
type HyperbusConfig struct {
	frequency            uint32
	sizeOrder            uint8
	refreshIntervalUS    uint32
	chipSelectHigh       uint8
	readWriteRecovery    uint8
	accessInitialLatency uint8
}

// NewHyperbusConfig creates a Hyperbus configuration for the given bus clock
// frequency in Hz, with defaults that suit common 8 MByte parts:
//
//   - device size order 23 (8 MByte)
//   - refresh interval 4µs
//   - chip select high 4 cycles (40ns at 100MHz)
//   - read-write recovery 4 cycles
//   - initial access latency 6 cycles
func NewHyperbusConfig(frequencyHz uint32) HyperbusConfig {
	return HyperbusConfig{
		frequency:            frequencyHz,
		sizeOrder:            23,
		refreshIntervalUS:    4,
		chipSelectHigh:       4,
		readWriteRecovery:    4,
		accessInitialLatency: 6,
	}
}

// DeviceSizeOrder sets the number of bytes in the device as a power of two:
// 23 is 8 MByte, 24 is 16 MByte, and so on. Valid orders are 5 through 26.
func (c HyperbusConfig) DeviceSizeOrder(order uint8) HyperbusConfig {
	c.sizeOrder = order
	return c
}

// RefreshInterval sets an upper bound, in microseconds, on the length of
// read and write transactions so the device's distributed refresh can
// operate. It is typically the array refresh interval divided by the number
// of rows, with some margin; called t_CSM in the memory datasheet.
//
// Zero removes the bound; the caller then becomes responsible for issuing
// the reads that cover the required refreshes.
func (c HyperbusConfig) RefreshInterval(us uint32) HyperbusConfig {
	c.refreshIntervalUS = us
	return c
}

// ChipSelectHigh sets the chip select high time t_CSHI between transactions
// in bus clock cycles. The datasheet time should be converted at the maximum
// bus frequency. The minimum is one cycle.
func (c HyperbusConfig) ChipSelectHigh(cycles uint8) HyperbusConfig {
	c.chipSelectHigh = cycles
	return c
}

// ReadWriteRecovery sets the read-write recovery time t_RWR in bus clock
// cycles.
func (c HyperbusConfig) ReadWriteRecovery(cycles uint8) HyperbusConfig {
	c.readWriteRecovery = cycles
	return c
}

// AccessInitialLatency sets the initial access time t_ACC in bus clock
// cycles. The device ships with a default cycle count that only changes
// through a device reconfiguration; this value must match the count
// currently configured there.
func (c HyperbusConfig) AccessInitialLatency(cycles uint8) HyperbusConfig {
	c.accessInitialLatency = cycles
	return c
}

func (c HyperbusConfig) validate(cshtMax uint8) error {
	switch {
	case c.sizeOrder < 5 || c.sizeOrder > 26:
		return ErrInvalidConfig
	case c.chipSelectHigh < 1 || c.chipSelectHigh > cshtMax:
		return ErrInvalidConfig
	}
	return nil
}
