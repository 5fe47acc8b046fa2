package segment

import (
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// Default accounting budgets, spec.md §4.7.
const (
	DefaultMaxTotalUsed = 256 << 20
	DefaultMaxTotalPhys = 768 << 20
)

const rwxProt = unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC

// Pool is an allocator for RWX memory. Small (<= 8 KiB) and medium
// (<= 256 KiB) requests are served from a shared freelist backed by a
// single growing reservation; large requests are mapped and unmapped
// directly. A Pool is safe for concurrent use: every mutation of its
// freelists, reservation cursor or counters happens under one mutex,
// matching spec.md §5's "a single pool-wide lock is sufficient; the
// allocator is not expected to be a concurrency bottleneck in a JIT's
// compile path."
type Pool struct {
	mu sync.Mutex

	freelist [numClasses][][]byte

	reservations [][]byte // every RWX mapping backing the bump allocator, for Close.
	cur          []byte
	next         int

	large map[uintptr][]byte // base address -> mapping, for directly-mapped segments.

	totalUsed int
	totalPhys int

	// MaxTotalUsed and MaxTotalPhys bound, respectively, the bytes
	// currently handed to callers and the bytes backed by physical
	// pages (used plus freelisted-but-not-yet-decommitted). Alloc fails
	// with ErrBudget rather than growing past either. Zero means use
	// the package default.
	MaxTotalUsed int
	MaxTotalPhys int
}

// New creates an empty pool with the default budgets. Override
// MaxTotalUsed / MaxTotalPhys on the returned pool before first use to
// change them.
func New() *Pool {
	return &Pool{large: make(map[uintptr][]byte)}
}

func (p *Pool) maxTotalUsed() int {
	if p.MaxTotalUsed > 0 {
		return p.MaxTotalUsed
	}
	return DefaultMaxTotalUsed
}

func (p *Pool) maxTotalPhys() int {
	if p.MaxTotalPhys > 0 {
		return p.MaxTotalPhys
	}
	return DefaultMaxTotalPhys
}

// Alloc returns a segment of exactly size bytes of RWX memory.
func (p *Pool) Alloc(size int) (*Segment, error) {
	if size <= 0 {
		return Empty(), nil
	}
	if size <= largeThreshold {
		return p.allocPooled(size)
	}
	return p.allocLarge(size)
}

// Free releases seg back to its pool. seg must not be used afterward.
func (p *Pool) Free(seg *Segment) {
	if seg == nil || seg.size == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalUsed -= seg.size

	if seg.class < 0 {
		p.freeLargeLocked(seg)
		return
	}

	if isMediumClass(seg.class) && len(seg.b) > pageSize {
		unix.Madvise(seg.b[pageSize:], madviseReleaseFlag)
		p.totalPhys -= len(seg.b) - pageSize
	}
	p.freelist[seg.class] = append(p.freelist[seg.class], seg.b)
}

// Close unmaps every region the pool owns, including freelisted and
// reserved-but-unused memory. The pool must not be used afterward.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var first error
	for _, b := range p.reservations {
		if err := unix.Munmap(b); err != nil && first == nil {
			first = err
		}
	}
	for _, b := range p.large {
		if err := unix.Munmap(b); err != nil && first == nil {
			first = err
		}
	}
	p.reservations = nil
	p.cur = nil
	p.large = make(map[uintptr][]byte)
	for i := range p.freelist {
		p.freelist[i] = nil
	}
	return first
}

func (p *Pool) allocPooled(size int) (*Segment, error) {
	class := classIndex(size)
	csize := classSize(class)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.totalUsed+size > p.maxTotalUsed() {
		return nil, xerrors.Errorf("segment: used budget exceeded requesting %d bytes: %w", size, ErrBudget)
	}

	if stack := p.freelist[class]; len(stack) > 0 {
		b := stack[len(stack)-1]
		if isMediumClass(class) && len(b) > pageSize && p.totalPhys+len(b)-pageSize > p.maxTotalPhys() {
			return nil, xerrors.Errorf("segment: physical budget exceeded requesting %d bytes: %w", len(b)-pageSize, ErrBudget)
		}
		p.freelist[class] = stack[:len(stack)-1]
		p.totalUsed += size
		if isMediumClass(class) && len(b) > pageSize {
			// The pages beyond the first were decommitted on Free; restore
			// the nominal physical accounting for the reused block and ask
			// the kernel to prefault them now rather than on first touch
			// (jit-asm.cc's ::madvise(..., MADV_WILLNEED) on the same path).
			p.totalPhys += len(b) - pageSize
			prefetch(b)
		}
		return &Segment{pool: p, b: b, size: size, class: class}, nil
	}

	if isSubPageClass(class) {
		if p.totalPhys+pageSize > p.maxTotalPhys() {
			return nil, xerrors.Errorf("segment: physical budget exceeded requesting %d bytes: %w", pageSize, ErrBudget)
		}
		page, err := p.bumpLocked(pageSize)
		if err != nil {
			return nil, err
		}
		// Split the fresh page into classSize(class)-sized blocks: keep
		// the first as this allocation, push the rest onto the freelist
		// so subsequent misses of the same class are satisfied from it.
		for off := csize; off+csize <= pageSize; off += csize {
			p.freelist[class] = append(p.freelist[class], page[off:off+csize:off+csize])
		}
		b := page[0:csize:csize]

		p.totalUsed += size
		p.totalPhys += pageSize
		return &Segment{pool: p, b: b, size: size, class: class}, nil
	}

	if p.totalPhys+csize > p.maxTotalPhys() {
		return nil, xerrors.Errorf("segment: physical budget exceeded requesting %d bytes: %w", csize, ErrBudget)
	}

	b, err := p.bumpLocked(csize)
	if err != nil {
		return nil, err
	}
	if isMediumClass(class) {
		prefetch(b)
	}

	p.totalUsed += size
	p.totalPhys += csize
	return &Segment{pool: p, b: b, size: size, class: class}, nil
}

// bumpLocked returns n bytes from the shared reservation, growing it first
// if needed. n is always a multiple of pageSize (every caller requests
// either a whole page or a power-of-two block sized at or above it), which
// keeps p.next page-aligned and makes the tail released below a valid
// munmap argument.
func (p *Pool) bumpLocked(n int) ([]byte, error) {
	if p.cur == nil || p.next+n > len(p.cur) {
		stride := reservationStride
		if n > stride {
			stride = n
		}
		b, err := unix.Mmap(-1, 0, stride, rwxProt, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return nil, xerrors.Errorf("segment: reserve %d bytes: %w", stride, err)
		}
		if p.cur != nil && p.next < len(p.cur) {
			// Release the old reservation's unconsumed tail rather than
			// keeping it mapped until Close (spec.md §4.6; jit-asm.cc's
			// mmap() helper does the same munmap-before-remap).
			tail := p.cur[p.next:]
			unix.Munmap(tail)
			p.reservations = removeReservation(p.reservations, p.cur)
		}
		p.reservations = append(p.reservations, b)
		p.cur = b
		p.next = 0
	}
	b := p.cur[p.next : p.next+n : p.next+n]
	p.next += n
	return b, nil
}

// removeReservation drops target from tracking after its tail has already
// been munmapped, so Close doesn't unmap it a second time.
func removeReservation(reservations [][]byte, target []byte) [][]byte {
	for i, b := range reservations {
		if &b[0] == &target[0] {
			return append(reservations[:i], reservations[i+1:]...)
		}
	}
	return reservations
}

func (p *Pool) allocLarge(size int) (*Segment, error) {
	n := roundUpPage(size)

	p.mu.Lock()
	if p.totalUsed+size > p.maxTotalUsed() || p.totalPhys+n > p.maxTotalPhys() {
		p.mu.Unlock()
		return nil, xerrors.Errorf("segment: budget exceeded requesting %d bytes: %w", size, ErrBudget)
	}
	p.mu.Unlock()

	b, err := unix.Mmap(-1, 0, n, rwxProt, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, xerrors.Errorf("segment: map %d bytes: %w", n, err)
	}

	p.mu.Lock()
	p.large[addrOf(b)] = b
	p.totalUsed += size
	p.totalPhys += n
	p.mu.Unlock()

	return &Segment{pool: p, b: b, size: size, class: -1}, nil
}

func (p *Pool) freeLargeLocked(seg *Segment) {
	addr := addrOf(seg.b)
	b, ok := p.large[addr]
	if !ok {
		return
	}
	delete(p.large, addr)
	p.totalPhys -= len(b)
	unix.Munmap(b)
}

func roundUpPage(n int) int {
	return (n + pageSize - 1) &^ (pageSize - 1)
}
