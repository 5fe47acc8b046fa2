package buffer

import (
	"testing"

	"golang.org/x/xerrors"
	"import.name/pan"
)

func TestStaticPutBytes(t *testing.T) {
	dst := make([]byte, 8)
	s := NewStatic(dst)
	s.PutBytes([]byte{1, 2, 3})
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if s.Cap() != 8 {
		t.Fatalf("Cap() = %d, want 8", s.Cap())
	}
}

func TestStaticOverflowPanics(t *testing.T) {
	defer func() {
		err := pan.Error(recover())
		if !xerrors.Is(err, ErrStaticSize) {
			t.Fatalf("recovered %v, want ErrStaticSize", err)
		}
	}()
	s := NewStatic(make([]byte, 2))
	s.PutBytes([]byte{1, 2, 3})
}

func TestMakeStaticInPlace(t *testing.T) {
	var s Static
	s = MakeStatic(make([]byte, 4))
	s.PutBytes([]byte{9, 9})
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}
