package safe

import (
	"math"
	"testing"
	"time"
)

func TestUint32(t *testing.T) {
	t.Parallel()

	if got, err := Uint32(42); err != nil || got != 42 {
		t.Fatalf("Uint32(42) = %d, %v", got, err)
	}
	if got, err := Uint32(int64(math.MaxUint32)); err != nil || got != math.MaxUint32 {
		t.Fatalf("Uint32(MaxUint32) = %d, %v", got, err)
	}
	if _, err := Uint32(int64(math.MaxUint32) + 1); err == nil {
		t.Fatal("expected overflow error")
	}
	if _, err := Uint32(-1); err == nil {
		t.Fatal("expected negative error")
	}
	if got, err := Uint32(uint64(7)); err != nil || got != 7 {
		t.Fatalf("Uint32(uint64(7)) = %d, %v", got, err)
	}
}

func TestUnixUint32(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1_700_000_000, 0)
	got, err := UnixUint32(ts)
	if err != nil || got != 1_700_000_000 {
		t.Fatalf("UnixUint32 = %d, %v", got, err)
	}

	if _, err := UnixUint32(time.Unix(-1, 0)); err == nil {
		t.Fatal("expected error for pre-epoch time")
	}
}
