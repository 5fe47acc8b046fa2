package rtasm

// Label is a symbolic address placeholder, identified by its index into
// the owning Container's label sequence (spec.md §3). Until a section
// places it (Section.Define) it has no address; it may already be named
// by recorded fixups -- forward references are legal. The container
// makes no guarantee a label was placed until Load time.
//
// Grounded on internal/links.L in the teacher, generalized from wag's
// single "branch site" use case to the five-fixup-kind, text-or-rodata
// addressing spec.md requires.
type Label struct {
	container *Container
	index     int

	placed  bool
	section int
	offset  int
}

// Container the label belongs to.
func (l *Label) Container() *Container { return l.container }

// Placed reports whether a section has placed this label yet.
func (l *Label) Placed() bool { return l.placed }

func (l *Label) place(section, offset int) {
	assert(!l.placed, "label defined twice")
	l.placed = true
	l.section = section
	l.offset = offset
}
