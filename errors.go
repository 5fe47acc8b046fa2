package rtasm

import (
	"runtime"

	"golang.org/x/xerrors"
	"import.name/pan"
)

// Error kinds from spec.md §7. Internal helpers raise these by panicking
// (via import.name/pan, mirroring the teacher's buffer.Static and
// internal/error.go); the emit methods let that panic propagate, and Emit
// is the boundary that recovers it with catch, converting the panic back
// into a returned error. A recovered runtime.Error (nil dereference, index out of range)
// is a programming bug rather than a modeled failure and is re-panicked,
// the same distinction internal/errorpanic.Handle makes in the teacher.
type errString string

func (e errString) Error() string { return string(e) }

var (
	// ErrCapacityExceeded: a section's backing buffer cannot grow further
	// (Section.Reserve), or Load's dst is smaller than the layout. Package
	// segment does not use it: Pool.Alloc has no maximum-segment-size check.
	ErrCapacityExceeded = errString("rtasm: capacity exceeded")

	// ErrOverflow: Container.Size cannot represent the total layout. Size
	// returns -1 rather than this error (spec.md §4.4); it is exported so
	// callers and tests can compare against it with xerrors.Is after
	// wrapping.
	ErrOverflow = errString("rtasm: layout size overflow")

	// ErrContractViolation: a debug-only assertion failure -- emitting
	// past a section's reserved bound, placing a label from a foreign
	// container, an alignment argument that isn't a power of two, or
	// (detected at Load) a fixup naming a label that was never placed.
	// In a build with debugAssertions disabled this condition is
	// undefined behavior instead, per spec.md §7.
	ErrContractViolation = errString("rtasm: contract violation")
)

// catch recovers a panic raised by pan.Panic (or bare panic(error(...)))
// within fn and returns it as an error. A panic carrying a non-error value,
// or a runtime.Error, propagates instead of being caught: it indicates a
// bug in rtasm itself, not a modeled failure a caller should handle.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(runtime.Error); ok {
				panic(rerr)
			}
			if e := pan.Error(r); e != nil {
				err = e
				return
			}
			panic(r)
		}
	}()
	fn()
	return
}

func wrap(kind error, format string, args ...interface{}) error {
	return xerrors.Errorf(format+": %w", append(args, kind)...)
}

// Emit runs fn, which is expected to drive one or more Section/Container
// fluent chains, and converts any ErrCapacityExceeded or ErrContractViolation
// panic raised by those chains into a returned error instead of letting it
// unwind past the caller.
//
// The emit primitives (Section.PutB, Reserve, Align, ...) panic rather than
// returning per-call errors so chains like
// text.PutB(0x55).PutB(0x48).RelL(target, 0) read as a straight line
// instead of an if-err-return after every step -- the same tradeoff the
// teacher's buffer.Static makes. Emit is the boundary a caller who wants an
// ordinary error value wraps around such a chain; Container.Load and
// Container.Size need no such wrapper because they already return their
// failure modes directly.
func Emit(fn func()) error {
	return catch(fn)
}
