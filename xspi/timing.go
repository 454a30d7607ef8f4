package xspi

// TimingPlan is the register-level result of resolving a requested bus
// frequency against the controller's kernel clock.
type TimingPlan struct {
	// Divisor is the kernel clock prescale factor, 1..256.
	Divisor uint32
	// AchievedHz is the kernel clock divided by Divisor. It never exceeds
	// the requested frequency.
	AchievedHz uint32
	// PeriodNS is the achieved bus clock period in whole nanoseconds.
	PeriodNS uint32
	// RefreshCycles is the refresh interval expressed in bus clock cycles,
	// or zero when distributed refresh is unbounded.
	RefreshCycles uint32
}

// solveTiming picks the smallest divisor that brings the kernel clock at or
// below desiredHz and derives the quantities the device configuration
// registers need. A refreshIntervalUS of zero bypasses the refresh
// computation entirely.
func solveTiming(kernelHz, desiredHz, refreshIntervalUS uint32) (TimingPlan, error) {
	if kernelHz == 0 || desiredHz == 0 {
		return TimingPlan{}, ErrBadFrequency
	}
	div := (uint64(kernelHz) + uint64(desiredHz) - 1) / uint64(desiredHz)
	if div < 1 || div > 256 {
		return TimingPlan{}, ErrBadFrequency
	}

	plan := TimingPlan{
		Divisor:    uint32(div),
		AchievedHz: kernelHz / uint32(div),
		// Whole nanoseconds per bus clock, truncated.
		PeriodNS: uint32(1e9 * div / uint64(kernelHz)),
	}

	if refreshIntervalUS != 0 {
		if plan.PeriodNS == 0 {
			// A sub-nanosecond bus period cannot express a refresh bound.
			return TimingPlan{}, ErrBadFrequency
		}
		intervalNS := uint64(refreshIntervalUS) * 1000
		periodNS := uint64(plan.PeriodNS)
		plan.RefreshCycles = uint32((intervalNS + periodNS - 1) / periodNS)
	}
	return plan, nil
}

// csBoundary returns the chip-select boundary field for a device size order.
// The transaction is restarted when an access crosses between the two halves
// of the device: some parts are built from two separately addressed dies,
// and for the rest the restart costs next to nothing.
func csBoundary(sizeOrder uint8) uint32 {
	return uint32(sizeOrder) - 1
}
