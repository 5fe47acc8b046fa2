package buffer

import (
	"testing"

	"golang.org/x/xerrors"
)

func TestDynamicReserveFastPath(t *testing.T) {
	d := NewDynamic(0)
	if err := d.Reserve(16); err != nil {
		t.Fatal(err)
	}
	if d.Reserved() != 16 {
		t.Fatalf("Reserved() = %d, want 16", d.Reserved())
	}
	if d.Cap() < 16 {
		t.Fatalf("Cap() = %d, want >= 16", d.Cap())
	}

	capBefore := d.Cap()
	if err := d.Reserve(4); err != nil {
		t.Fatal(err)
	}
	if d.Cap() != capBefore {
		t.Fatalf("Reserve within existing capacity reallocated: Cap() = %d, want %d", d.Cap(), capBefore)
	}
}

func TestDynamicReserveGrowth(t *testing.T) {
	d := NewDynamic(0)
	if err := d.Reserve(1); err != nil {
		t.Fatal(err)
	}
	d.PutByte(1)

	if err := d.Reserve(100); err != nil {
		t.Fatal(err)
	}
	if d.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 (growth must preserve written bytes)", d.Size())
	}
	if d.Bytes()[0] != 1 {
		t.Fatalf("Bytes()[0] = %d, want 1", d.Bytes()[0])
	}
}

func TestDynamicMaxSize(t *testing.T) {
	d := NewDynamic(8)
	if err := d.Reserve(8); err != nil {
		t.Fatal(err)
	}
	if err := d.Reserve(1); !xerrors.Is(err, ErrSizeLimit) {
		t.Fatalf("Reserve past maxSize: got %v, want ErrSizeLimit", err)
	}
}

func TestDynamicPutSwapped(t *testing.T) {
	d := NewDynamic(0)
	if err := d.Reserve(2); err != nil {
		t.Fatal(err)
	}
	d.PutUint16Swapped(0x6690)
	if got := d.Bytes(); got[0] != 0x66 || got[1] != 0x90 {
		t.Fatalf("PutUint16Swapped(0x6690) = % x, want 66 90", got)
	}
}

func TestDynamicPutLittleEndian(t *testing.T) {
	d := NewDynamic(0)
	if err := d.Reserve(4); err != nil {
		t.Fatal(err)
	}
	d.PutUint32(0x04030201)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	got := d.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PutUint32: got % x, want % x", got, want)
		}
	}
}

func TestDynamicExtendWithoutReservePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic emitting past reservation")
		}
	}()
	d := NewDynamic(0)
	d.PutByte(1)
}
