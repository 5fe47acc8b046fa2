package rtasm

// MaxSegmentSizeLog2 bounds the total size of a loaded segment on ARM,
// per spec: 20 (1 MiB).
const MaxSegmentSizeLog2 = 20
