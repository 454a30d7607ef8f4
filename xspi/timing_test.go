package xspi

import (
	"errors"
	"testing"
)

func TestSolveTimingConcrete(t *testing.T) {
	// 280 MHz kernel, 50 MHz requested: divisor 6, 46.666 MHz achieved,
	// 21 ns period, 191 cycles to cover a 4µs refresh interval.
	plan, err := solveTiming(280_000_000, 50_000_000, 4)
	if err != nil {
		t.Fatalf("solveTiming: %v", err)
	}
	if plan.Divisor != 6 {
		t.Errorf("Divisor = %d, want 6", plan.Divisor)
	}
	if plan.AchievedHz != 46_666_666 {
		t.Errorf("AchievedHz = %d, want 46666666", plan.AchievedHz)
	}
	if plan.PeriodNS != 21 {
		t.Errorf("PeriodNS = %d, want 21", plan.PeriodNS)
	}
	if plan.RefreshCycles != 191 {
		t.Errorf("RefreshCycles = %d, want 191", plan.RefreshCycles)
	}
}

func TestSolveTimingDivisorInRange(t *testing.T) {
	kernels := []uint32{64_000_000, 100_000_000, 280_000_000, 480_000_000}
	desired := []uint32{1_875_000, 3_000_000, 50_000_000, 100_000_000, 480_000_000}
	for _, k := range kernels {
		for _, f := range desired {
			want := (uint64(k) + uint64(f) - 1) / uint64(f)
			plan, err := solveTiming(k, f, 0)
			if want > 256 {
				if !errors.Is(err, ErrBadFrequency) {
					t.Errorf("solveTiming(%d, %d): got %v, want ErrBadFrequency", k, f, err)
				}
				continue
			}
			if err != nil {
				t.Errorf("solveTiming(%d, %d): %v", k, f, err)
				continue
			}
			if plan.Divisor < 1 || plan.Divisor > 256 {
				t.Errorf("solveTiming(%d, %d): divisor %d out of range", k, f, plan.Divisor)
			}
			if plan.AchievedHz > f {
				t.Errorf("solveTiming(%d, %d): achieved %d exceeds request", k, f, plan.AchievedHz)
			}
		}
	}
}

func TestSolveTimingRejectsOutOfRange(t *testing.T) {
	// 280 MHz / 1 MHz wants divisor 280, beyond the 8-bit field.
	if _, err := solveTiming(280_000_000, 1_000_000, 0); !errors.Is(err, ErrBadFrequency) {
		t.Errorf("divisor 280: got %v, want ErrBadFrequency", err)
	}
	if _, err := solveTiming(280_000_000, 0, 0); !errors.Is(err, ErrBadFrequency) {
		t.Errorf("zero frequency: got %v, want ErrBadFrequency", err)
	}
	if _, err := solveTiming(0, 50_000_000, 0); !errors.Is(err, ErrBadFrequency) {
		t.Errorf("zero kernel: got %v, want ErrBadFrequency", err)
	}
}

func TestRefreshCyclesMonotonic(t *testing.T) {
	prev := uint32(0)
	for interval := uint32(1); interval <= 1<<16; interval *= 2 {
		plan, err := solveTiming(280_000_000, 50_000_000, interval)
		if err != nil {
			t.Fatalf("interval %dµs: %v", interval, err)
		}
		if plan.RefreshCycles < prev {
			t.Fatalf("interval %dµs: cycles %d decreased from %d",
				interval, plan.RefreshCycles, prev)
		}
		prev = plan.RefreshCycles
	}
}

func TestRefreshZeroBypassed(t *testing.T) {
	plan, err := solveTiming(280_000_000, 50_000_000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if plan.RefreshCycles != 0 {
		t.Errorf("RefreshCycles = %d, want 0 (refresh disabled)", plan.RefreshCycles)
	}
}

func TestCSBoundary(t *testing.T) {
	if got := csBoundary(24); got != 23 {
		t.Errorf("csBoundary(24) = %d, want 23", got)
	}
	if size := uintptr(1) << 24; size != 16_777_216 {
		t.Errorf("size order 24 = %d bytes, want 16777216", size)
	}
}
