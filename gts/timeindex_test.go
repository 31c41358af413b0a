package gts

import (
	"math"
	"testing"
)

func TestChunkEndBoundaries(t *testing.T) {
	const L = 1000

	cases := []struct {
		name string
		ts   int64
		want int64
	}{
		{"zero", 0, L - 1},
		{"minus-one", -1, -1},
		{"L", L, 2*L - 1},
		{"L-minus-one", L - 1, L - 1},
		{"minus-L", -L, -1},
		{"one", 1, L - 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ChunkEnd(c.ts, L); got != c.want {
				t.Errorf("ChunkEnd(%d, %d) = %d, want %d", c.ts, L, got, c.want)
			}
		})
	}
}

func TestChunkEndZeroAndOneDifferentWindows(t *testing.T) {
	const L = 1000
	if ChunkEnd(0, L) == ChunkEnd(L, L) {
		t.Fatal("t=0 and t=L must fall in different windows")
	}
}

// TestSlotMinusOneAndZeroDifferentWindows covers the zero boundary:
// t=-1 closes the window [-L, -1] and t=0 opens [0, L-1], so the two
// timestamps must have different chunk ends and land in distinct ring
// slots.
func TestSlotMinusOneAndZeroDifferentWindows(t *testing.T) {
	const L, C = 1000, 4
	if ChunkEnd(-1, L) == ChunkEnd(0, L) {
		t.Fatal("t=-1 and t=0 must fall in different windows")
	}
	if Slot(-1, L, C) == Slot(0, L, C) {
		t.Fatal("t=-1 and t=0 must fall in different slots")
	}
}

func TestChunkEndPeriodicity(t *testing.T) {
	const L = 1000
	tsValues := []int64{-3 * L, -L - 1, -L, -1, 0, 1, L - 1, L, L + 1, 5 * L, math.MaxInt32}

	for _, ts := range tsValues {
		got := ChunkEnd(ts+L, L)
		want := ChunkEnd(ts, L) + L
		if got != want {
			t.Errorf("ChunkEnd(%d+L) = %d, want ChunkEnd(%d)+L = %d", ts, got, ts, want)
		}
	}
}

func TestChunkEndWindowLength(t *testing.T) {
	const L = 777
	for _, ts := range []int64{-10000, -777, -1, 0, 1, 776, 777, 10000} {
		end := ChunkEnd(ts, L)
		start := end - L + 1
		if ts < start || ts > end {
			t.Fatalf("ChunkEnd(%d, %d) = %d gives window [%d,%d] that excludes ts", ts, L, end, start, end)
		}
	}
}

func TestSlotRange(t *testing.T) {
	const L, C = 1000, 4
	for _, ts := range []int64{-10000, -4001, -4000, -1, 0, 1, 3999, 4000, 10000} {
		s := Slot(ts, L, C)
		if s < 0 || s >= C {
			t.Fatalf("Slot(%d) = %d out of range [0,%d)", ts, s, C)
		}
	}
}

func TestSlotPeriodicity(t *testing.T) {
	const L, C = 1000, 4
	window := int64(C) * L

	for _, ts := range []int64{-3 * window, -window - 1, -1, 0, 1, window - 1, window, window + 1, 5 * window} {
		got := Slot(ts+window, L, C)
		want := Slot(ts, L, C)
		if got != want {
			t.Errorf("Slot(%d+C*L) = %d, want Slot(%d) = %d", ts, got, ts, want)
		}
	}
}

func TestSlotOfChunkEndMatchesSlotOfTimestamp(t *testing.T) {
	const L, C = 1000, 4
	for _, ts := range []int64{-10000, -4001, -4000, -1, 0, 1, 3999, 4000, 10000, 1<<40 + 7} {
		if got, want := Slot(ChunkEnd(ts, L), L, C), Slot(ts, L, C); got != want {
			t.Errorf("Slot(ChunkEnd(%d)) = %d, want Slot(%d) = %d", ts, got, ts, want)
		}
	}
}

func TestSlotSingleRing(t *testing.T) {
	const L, C = 1000, 1
	for _, ts := range []int64{-10000, -1, 0, 1, 10000} {
		if got := Slot(ts, L, C); got != 0 {
			t.Errorf("Slot(%d) with C=1 = %d, want 0", ts, got)
		}
	}
}

func TestChunkEndExtremeRange(t *testing.T) {
	const L = 1 << 20
	for _, ts := range []int64{-(1 << 62), (1 << 62) - 1, 0, -1} {
		end := ChunkEnd(ts, L)
		start := end - L + 1
		if ts < start || ts > end {
			t.Fatalf("ChunkEnd(%d) = %d out of bounds for window [%d,%d]", ts, end, start, end)
		}
	}
}
