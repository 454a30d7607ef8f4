package dac

import (
	"errors"
	"testing"
)

func newTestDAC() *DAC {
	return &DAC{hw: new(dacHW)}
}

// calDelay counts blocking waits and raises the calibration flag of one
// channel after a chosen number of settle periods.
type calDelay struct {
	dac     *DAC
	flagPos uint8
	after   int // 0 means never
	calls   int
	totalUS uint32
}

func (d *calDelay) DelayMicroseconds(us uint32) {
	d.calls++
	d.totalUS += us
	if d.after != 0 && d.calls == d.after {
		d.dac.hw.SR.SetBits(1 << d.flagPos)
	}
}

func TestClaimChannelExclusive(t *testing.T) {
	d := newTestDAC()
	ch, err := d.ClaimChannel(0)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := d.ClaimChannel(0); !errors.Is(err, ErrChannelClaimed) {
		t.Fatalf("second claim: got %v, want ErrChannelClaimed", err)
	}
	if _, err := d.ClaimChannel(1); err != nil {
		t.Fatalf("other channel: %v", err)
	}
	ch.Unclaim()
	if _, err := d.ClaimChannel(0); err != nil {
		t.Fatalf("reclaim after unclaim: %v", err)
	}
}

func TestClaimChannelsReleasesOnConflict(t *testing.T) {
	d := newTestDAC()
	taken, err := d.ClaimChannel(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.ClaimChannels(); !errors.Is(err, ErrChannelClaimed) {
		t.Fatalf("got %v, want ErrChannelClaimed", err)
	}
	// Channel 0 must have been released again by the failed pair claim.
	if _, err := d.ClaimChannel(0); err != nil {
		t.Fatalf("channel 0 still held: %v", err)
	}
	taken.Unclaim()
}

func TestEnableDisable(t *testing.T) {
	d := newTestDAC()
	ch, _ := d.ClaimChannel(0)

	en := ch.Enable()
	if !d.hw.CR.HasBits(1 << crEN1Pos) {
		t.Error("EN1 not set after Enable")
	}
	if mode := d.hw.MCR.Get() >> mcrMode1Pos & mcrModeMsk; mode != modeBuffered {
		t.Errorf("MODE1 = %d, want buffered (%d)", mode, modeBuffered)
	}

	ch = en.Disable()
	if d.hw.CR.HasBits(1 << crEN1Pos) {
		t.Error("EN1 still set after Disable")
	}

	un := ch.EnableUnbuffered()
	if mode := d.hw.MCR.Get() >> mcrMode1Pos & mcrModeMsk; mode != modeUnbuffered {
		t.Errorf("MODE1 = %d, want unbuffered (%d)", mode, modeUnbuffered)
	}
	un.Disable()
}

func TestChannel2FieldOffsets(t *testing.T) {
	d := newTestDAC()
	ch, _ := d.ClaimChannel(1)

	en := ch.Enable()
	if !d.hw.CR.HasBits(1 << crEN2Pos) {
		t.Error("EN2 not set")
	}
	if d.hw.CR.HasBits(1 << crEN1Pos) {
		t.Error("channel 2 enable leaked into channel 1 field")
	}
	en.SetValue(0x0321)
	if got := d.hw.DHR12R2.Get(); got != 0x0321 {
		t.Errorf("DHR12R2 = %#x, want 0x321", got)
	}
	if d.hw.DHR12R1.Get() != 0 {
		t.Error("channel 2 write leaked into DHR12R1")
	}
}

func TestSetValueInAnyState(t *testing.T) {
	d := newTestDAC()
	ch, _ := d.ClaimChannel(0)

	ch.SetValue(0x0123)
	if got := d.hw.DHR12R1.Get(); got != 0x0123 {
		t.Errorf("disabled SetValue: DHR12R1 = %#x, want 0x123", got)
	}

	d.hw.DOR1.Set(0x0456)
	if got := ch.Value(); got != 0x0456 {
		t.Errorf("Value = %#x, want 0x456", got)
	}

	en := ch.Enable()
	en.SetValue(0x0789)
	if got := d.hw.DHR12R1.Get(); got != 0x0789 {
		t.Errorf("enabled SetValue: DHR12R1 = %#x, want 0x789", got)
	}
	en.Disable()
}

func TestCalibrate(t *testing.T) {
	d := newTestDAC()
	ch, _ := d.ClaimChannel(0)
	delay := &calDelay{dac: d, flagPos: srCalFlag1Pos, after: 5}

	ch, err := ch.Calibrate(delay)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	// The flag asserted on the fifth settle, i.e. at trim value 4.
	if trim := d.hw.CCR.Get() >> ccrTrim1Pos & ccrTrimMsk; trim != 4 {
		t.Errorf("trim = %d, want 4", trim)
	}
	if delay.totalUS != 5*64 {
		t.Errorf("settle time = %dµs, want 320µs", delay.totalUS)
	}
	if d.hw.CR.HasBits(1 << crCEN1Pos) {
		t.Error("CEN1 still set after calibration")
	}
	if d.hw.CR.HasBits(1 << crEN1Pos) {
		t.Error("channel not left disabled")
	}
	_ = ch
}

func TestCalibrateTimeout(t *testing.T) {
	d := newTestDAC()
	ch, _ := d.ClaimChannel(0)
	delay := &calDelay{dac: d, flagPos: srCalFlag1Pos}

	_, err := ch.Calibrate(delay)
	if !errors.Is(err, ErrCalibrationTimeout) {
		t.Fatalf("got %v, want ErrCalibrationTimeout", err)
	}
	if delay.calls != maxTrim+1 {
		t.Errorf("search tried %d trim values, want %d", delay.calls, maxTrim+1)
	}
	if d.hw.CR.HasBits(1 << crCEN1Pos) {
		t.Error("CEN1 still set after failed calibration")
	}
}

func TestCalibrateIdempotent(t *testing.T) {
	d := newTestDAC()
	ch, _ := d.ClaimChannel(0)

	ch, err := ch.Calibrate(&calDelay{dac: d, flagPos: srCalFlag1Pos, after: 3})
	if err != nil {
		t.Fatalf("first calibration: %v", err)
	}
	ch, err = ch.Calibrate(&calDelay{dac: d, flagPos: srCalFlag1Pos, after: 3})
	if err != nil {
		t.Fatalf("second calibration: %v", err)
	}
	if d.hw.CR.HasBits(1<<crEN1Pos | 1<<crCEN1Pos) {
		t.Error("channel not left disabled after repeated calibration")
	}
	ch.Unclaim()
}
