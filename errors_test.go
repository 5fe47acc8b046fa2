package rtasm

import (
	"testing"

	"golang.org/x/xerrors"
)

func TestWrapIsSentinel(t *testing.T) {
	err := wrap(ErrCapacityExceeded, "section %d", 3)
	if !xerrors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("wrap(ErrCapacityExceeded, ...) = %v, want Is ErrCapacityExceeded", err)
	}
	if xerrors.Is(err, ErrOverflow) {
		t.Fatalf("wrap(ErrCapacityExceeded, ...) unexpectedly Is ErrOverflow")
	}
}

func TestEmitRecoversContractViolation(t *testing.T) {
	err := Emit(func() {
		c := New()
		text := c.Text()
		text.Reserve(1)
		text.PutB(1)
		text.PutB(2) // one byte past the reservation.
	})
	if !xerrors.Is(err, ErrContractViolation) {
		t.Fatalf("Emit recovered %v, want ErrContractViolation", err)
	}
}

func TestEmitRecoversCapacityExceeded(t *testing.T) {
	err := Emit(func() {
		c := New()
		text := c.Text()
		text.Reserve(MaxSectionSize + 1)
	})
	if !xerrors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Emit recovered %v, want ErrCapacityExceeded", err)
	}
}

func TestEmitPassesThroughSuccess(t *testing.T) {
	var size int
	err := Emit(func() {
		c := New()
		text := c.Text()
		text.Reserve(1).PutB(0xc3)
		size = text.Size()
	})
	if err != nil {
		t.Fatalf("Emit returned %v for a successful chain", err)
	}
	if size != 1 {
		t.Fatalf("size = %d, want 1", size)
	}
}

func TestEmitRepanicsRuntimeError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a runtime error to propagate past Emit")
		}
	}()
	Emit(func() {
		var s *Section
		s.PutB(1) // nil dereference: a bug, not a modeled failure.
	})
}
