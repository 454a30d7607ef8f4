// Package dac drives the dual-channel digital-to-analog converter.
//
// A channel is claimed from its DAC block exactly once and then moves
// through a small set of lifecycle types: a disabled channel may be
// calibrated or enabled (with or without the output buffer), and an enabled
// channel may only be disabled again. Every transition consumes its receiver
// and returns the channel in its next state, so a call sequence the hardware
// cannot perform does not compile.
//
// The data holding register may be written in any state; only the analog
// output stage is gated by the enable state.
package dac

import "errors"

// DAC errors.
var (
	ErrCalibrationTimeout = errors.New("dac: calibration flag never asserted within trim range")
	ErrChannelClaimed     = errors.New("dac: channel already claimed")
)

const badChannelIndex = "dac: invalid channel index"

// NumChannels is the number of converter channels per DAC block.
const NumChannels = 2

// DAC represents one dual-channel DAC block.
//
// The block's clock must be enabled and its reset released before a channel
// is claimed; this package never touches the RCC.
type DAC struct {
	hw *dacHW
	// Bitmask of claimed channels.
	claimedMask uint8
}

// ClaimChannel hands out the single live handle for channel index (0 or 1).
// The channel starts out Disabled, its post-reset state. ErrChannelClaimed
// is returned while a previously claimed handle is still live.
func (d *DAC) ClaimChannel(index uint8) (ChannelDisabled, error) {
	if index >= NumChannels {
		panic(badChannelIndex)
	}
	if d.claimedMask&(1<<index) != 0 {
		return ChannelDisabled{}, ErrChannelClaimed
	}
	d.claimedMask |= 1 << index
	return ChannelDisabled{channel{dac: d, index: index}}, nil
}

// ClaimChannels claims both channels at once.
func (d *DAC) ClaimChannels() (ChannelDisabled, ChannelDisabled, error) {
	c1, err := d.ClaimChannel(0)
	if err != nil {
		return ChannelDisabled{}, ChannelDisabled{}, err
	}
	c2, err := d.ClaimChannel(1)
	if err != nil {
		c1.Unclaim()
		return ChannelDisabled{}, ChannelDisabled{}, err
	}
	return c1, c2, nil
}

// Delay is a blocking microsecond wait, typically backed by a hardware
// timer or a calibrated spin loop. It must block the calling path.
type Delay interface {
	DelayMicroseconds(us uint32)
}

// channel is the state-independent core carried by every lifecycle type.
type channel struct {
	dac   *DAC
	index uint8
}

// SetValue programs the 12-bit right-aligned output level. The holding
// register accepts writes in every lifecycle state.
func (c channel) SetValue(value uint16) {
	c.regs().dhr.Set(uint32(value))
}

// Value reads back the currently output level.
func (c channel) Value() uint16 {
	return uint16(c.regs().dor.Get())
}

// ChannelDisabled is a claimed channel with its output stage off.
type ChannelDisabled struct {
	channel
}

// ChannelEnabled is a channel driving its pin through the output buffer.
type ChannelEnabled struct {
	channel
}

// ChannelUnbuffered is a channel driving its pin with the buffer bypassed.
type ChannelUnbuffered struct {
	channel
}

// Enable turns the channel on with the output buffer in the signal path.
func (c ChannelDisabled) Enable() ChannelEnabled {
	r := c.regs()
	hw := c.dac.hw
	hw.MCR.ReplaceBits(modeBuffered, mcrModeMsk, r.modePos)
	hw.CR.SetBits(1 << r.enPos)
	return ChannelEnabled{c.channel}
}

// EnableUnbuffered turns the channel on with the buffer bypassed, trading
// drive strength for the buffer's offset and noise.
func (c ChannelDisabled) EnableUnbuffered() ChannelUnbuffered {
	r := c.regs()
	hw := c.dac.hw
	hw.MCR.ReplaceBits(modeUnbuffered, mcrModeMsk, r.modePos)
	hw.CR.SetBits(1 << r.enPos)
	return ChannelUnbuffered{c.channel}
}

// Calibrate runs the user-trimming procedure for the output buffer. It is
// useful when the supply or reference voltage, or the temperature, differ
// from the factory trimming conditions. The trimming is only meaningful for
// buffered operation.
//
// The trim value is searched linearly, waiting 64µs after each step for the
// comparison to settle. The search is bounded by the width of the hardware
// trim field; if the calibration flag never asserts within that range the
// channel reports ErrCalibrationTimeout. The channel is left disabled either
// way.
func (c ChannelDisabled) Calibrate(delay Delay) (ChannelDisabled, error) {
	r := c.regs()
	hw := c.dac.hw

	hw.CR.ClearBits(1 << r.enPos)
	hw.MCR.ReplaceBits(modeBuffered, mcrModeMsk, r.modePos)
	hw.CR.SetBits(1 << r.cenPos)

	err := ErrCalibrationTimeout
	for trim := uint32(0); trim <= maxTrim; trim++ {
		hw.CCR.ReplaceBits(trim, ccrTrimMsk, r.trimPos)
		delay.DelayMicroseconds(64)
		if hw.SR.HasBits(1 << r.calPos) {
			err = nil
			break
		}
	}

	hw.CR.ClearBits(1 << r.cenPos)
	return c, err
}

// Disable turns the channel's output stage off.
func (c ChannelEnabled) Disable() ChannelDisabled {
	c.dac.hw.CR.ClearBits(1 << c.regs().enPos)
	return ChannelDisabled{c.channel}
}

// Disable turns the channel's output stage off.
func (c ChannelUnbuffered) Disable() ChannelDisabled {
	c.dac.hw.CR.ClearBits(1 << c.regs().enPos)
	return ChannelDisabled{c.channel}
}

// Unclaim releases a disabled channel so it may be claimed again.
func (c ChannelDisabled) Unclaim() {
	c.dac.claimedMask &^= 1 << c.index
}
