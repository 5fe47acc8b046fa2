package rtasm

// Size computes the total space required to load this container: a
// two-pass walk that places all text sections first, then (if any rodata
// section exists) rounds up to a cache line and places all rodata
// sections after them. Returns -1 on overflow rather than an error,
// matching spec.md §4.4 exactly ("Overflow ... returned as -1 from
// size(), not an exception").
//
// Grounded on code.go's programCoder.module, which likewise lays out all
// function text before populating a single trailing rodata arena.
func (c *Container) Size() int {
	total, _, ok := c.layout(nil)
	if !ok {
		return -1
	}
	return total
}

// offsets, when non-nil, receives each section's computed byte offset
// (indexed by section index) as the walk proceeds.
func (c *Container) layout(offsets []int) (total int, hasROData bool, ok bool) {
	pc := 0

	for _, sec := range c.sections {
		if sec.isROData {
			hasROData = true
			continue
		}
		pc = roundUp(pc, sec.align)
		if offsets != nil {
			offsets[sec.index] = pc
		}
		next := pc + sec.Size()
		if next < pc || next > (1<<MaxSegmentSizeLog2) {
			return 0, hasROData, false
		}
		pc = next
	}

	if hasROData {
		pc = roundUp(pc, CachelineSize)

		for _, sec := range c.sections {
			if !sec.isROData {
				continue
			}
			pc = roundUp(pc, sec.align)
			if offsets != nil {
				offsets[sec.index] = pc
			}
			next := pc + sec.Size()
			if next < pc || next > (1<<MaxSegmentSizeLog2) {
				return 0, hasROData, false
			}
			pc = next
		}
	}

	return pc, hasROData, true
}

func roundUp(pc, align int) int {
	if align <= 1 {
		return pc
	}
	return (pc + align - 1) &^ (align - 1)
}
