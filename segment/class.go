package segment

import "math/bits"

// classIndex returns the size class that can hold size bytes: the
// smallest power of two no smaller than size and no smaller than
// minSize. Callers only invoke this for size <= largeThreshold; larger
// requests go through the direct-mapping path instead.
func classIndex(size int) int {
	if size <= minSize {
		return 0
	}
	log2 := bits.Len(uint(size - 1))
	return log2 - minSizeLog2
}

func classSize(class int) int {
	return 1 << (class + minSizeLog2)
}

func isMediumClass(class int) bool {
	return classSize(class) > smallThreshold
}

// isSubPageClass reports whether class's blocks are smaller than a page
// (128 B through 2048 B). A freelist miss for one of these classes carves
// a whole page and splits it, rather than bump-carving one block.
func isSubPageClass(class int) bool {
	return classSize(class) < pageSize
}
